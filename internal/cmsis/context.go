package cmsis

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/buildenv"
	"github.com/numicro-labs/m460/internal/packages"
)

// Package names of the CMSIS core and the device package prefix.
const (
	CorePackage         = "framework-cmsis"
	DevicePackagePrefix = "framework-cmsis-"
)

// ErrPackageLayout is returned when a CMSIS package directory is missing or
// incomplete.
var ErrPackageLayout = errors.New("invalid CMSIS package layout")

// Context carries everything one configuration run reads and writes.
type Context struct {
	Board    *board.Config
	Env      *buildenv.Env
	Packages *packages.Registry
	Logger   *log.Logger
}

func (c *Context) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}
