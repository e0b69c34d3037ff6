// Package cli defines the Cobra command tree for the m460 CLI. Each file in
// this package registers one top-level command with the root command.
// Command implementations delegate to internal packages for the board,
// package and build configuration logic and only handle flag parsing and
// output formatting.
package cli
