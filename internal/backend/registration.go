package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegistrationState says whether remote providers are available.
type RegistrationState int

const (
	// LocalOnly means no usable credentials were found; only the
	// local simulator is listed.
	LocalOnly RegistrationState = iota

	// Authenticated means a credentials file was loaded and the
	// remote provider's backends appear in listings.
	Authenticated
)

// String returns the state name.
func (s RegistrationState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "local-only"
}

// Credentials is the optional provider configuration file
// (the Qconfig analog), YAML:
//
//	url: https://example.test/api
//	hub: my-hub
//	group: my-group
//	project: my-project
//	backends:
//	  - ibmq_qasm_simulator
//	  - ibmqx4
type Credentials struct {
	URL      string   `yaml:"url"`
	Hub      string   `yaml:"hub"`
	Group    string   `yaml:"group"`
	Project  string   `yaml:"project"`
	Backends []string `yaml:"backends"`
}

// Registration is the explicit two-state outcome of credential
// loading. The original tooling swallowed every registration failure
// and silently fell back to the local simulator; here the fallback is
// a plain value the rest of the program branches on, with the reason
// kept for the warning log.
type Registration struct {
	State       RegistrationState
	Credentials *Credentials

	// Reason says why the state is LocalOnly (missing file, parse
	// failure). Empty when Authenticated.
	Reason string
}

// LoadRegistration reads the credentials file at path. A missing or
// malformed file is not an error: the result is LocalOnly with the
// reason recorded. An empty path skips the lookup entirely.
func LoadRegistration(path string) *Registration {
	if path == "" {
		return &Registration{State: LocalOnly, Reason: "no credentials file configured"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Registration{State: LocalOnly, Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return &Registration{State: LocalOnly, Reason: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}
	if creds.URL == "" {
		return &Registration{State: LocalOnly, Reason: fmt.Sprintf("%s has no provider url", path)}
	}

	return &Registration{State: Authenticated, Credentials: &creds}
}
