// Package cmsis configures a build environment for the CMSIS framework on
// NuMicro M460 boards.
//
// Configure is the entry point. It applies the bare-metal compiler flags,
// resolves the CMSIS core and device packages, picks the linker script and
// startup file and registers the device sources with the environment.
package cmsis
