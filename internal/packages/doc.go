// Package packages tracks the platform packages (toolchain, frameworks,
// debug tools) a build may need. A Registry knows every package the platform
// declares, which of them the current configuration requires, and where an
// installed package lives on disk. Installed packages are checked against the
// semver constraint declared by the platform.
package packages
