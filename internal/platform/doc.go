// Package platform ties the M460 platform together: the embedded platform
// manifest with its package declarations, the board catalog (builtin boards
// plus project-local ones) with default debug tools filled in, and the
// package configuration step that decides which packages a project needs.
package platform
