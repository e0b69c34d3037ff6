// Package project reads the per-project build configuration.
//
// A project directory holds m460.yaml or m460.toml with one or more named
// environments. Each environment selects a board, the frameworks to build
// with, board setting overrides and debug session options.
package project
