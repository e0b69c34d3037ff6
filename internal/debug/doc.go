// Package debug derives debug server configuration for boards. It fills in
// OpenOCD tool definitions for upload protocols that imply a debug probe,
// applies a requested adapter speed to OpenOCD sessions, and expands a tool's
// server command line against the installed tool package.
package debug
