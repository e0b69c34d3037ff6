// Package board models Nuvoton M460 board manifests. A manifest is a JSON (or
// YAML) document describing the MCU, memory sizes, upload protocols and debug
// tools of a board. The package offers typed access, dotted-key lookups such as
// "upload.maximum_ram_size", deep copies for pure transformations, a catalog of
// the boards shipped with the platform, and JSON Schema validation.
package board
