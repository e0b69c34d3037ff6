// Package ldscript picks the linker script for a board. A board may name its
// own script; otherwise a default script is generated once per build
// directory from the platform template <line>.ld, with the board's RAM and
// flash sizes (in KiB) substituted into the $(CMramSize) and $(CMflashSize)
// placeholders.
package ldscript
