// Package qval models the value trees a quantum execution backend
// returns and their JSON-safe normalization.
//
// This package contains value types and pure transformations only. All
// other internal packages import qval; qval imports nothing internal.
//
// Key design constraints:
//   - Value is a sealed sum type: every kind a backend can produce is
//     an explicit case, so "unhandled type" is a compile-time concern
//     wherever a type switch covers the cases, and a structured
//     UnsupportedKindError everywhere else.
//   - Normalize is pure and total over the defined kinds; it never
//     mutates its input.
//   - Complex values project to their real part - a documented lossy
//     conversion inherited from the original tooling. Callers that
//     need the imaginary part opt into WithComplexPairs.
//   - Serialization is deterministic: sorted keys, fixed indentation,
//     byte-identical output for equal trees.
package qval
