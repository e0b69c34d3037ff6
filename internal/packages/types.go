package packages

// Package type values used in the platform manifest.
const (
	TypeToolchain = "toolchain"
	TypeFramework = "framework"
	TypeUploader  = "uploader"
	TypeDebugger  = "debugger"
)

// Spec is a package declaration from the platform manifest.
type Spec struct {
	Type     string `json:"type" yaml:"type"`
	Owner    string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"` // semver constraint, e.g. "~3.0.0"
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Installed describes a package found in the packages directory.
type Installed struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Dir     string `json:"-"`
}

// Status summarizes one package for reporting.
type Status struct {
	Name     string
	Spec     Spec
	Required bool
	Dir      string // empty when not installed
	Version  string // empty when unknown
	Err      error  // installation or version problem, if any
}
