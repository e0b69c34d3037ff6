// Package buildenv is an explicit build environment: the construction
// variables (include paths, flags, linker script), path substitution for
// $BUILD_DIR and friends, linker script lookup, and the source sets a framework
// asks the host to compile. One Env is built per build invocation and handed
// to every resolver.
package buildenv
