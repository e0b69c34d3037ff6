package board

// Manifest is the typed view of a board definition file.
type Manifest struct {
	Name       string                 `yaml:"name" json:"name"`
	URL        string                 `yaml:"url,omitempty" json:"url,omitempty"`
	Vendor     string                 `yaml:"vendor,omitempty" json:"vendor,omitempty"`
	Frameworks []string               `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Build      BuildSection           `yaml:"build" json:"build"`
	Upload     UploadSection          `yaml:"upload" json:"upload"`
	Debug      DebugSection           `yaml:"debug,omitempty" json:"debug,omitempty"`
	Extra      map[string]interface{} `yaml:",inline" json:"-"`
}

// BuildSection holds the "build" block.
type BuildSection struct {
	CPU         string                 `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	MCU         string                 `yaml:"mcu,omitempty" json:"mcu,omitempty"`
	ProductLine string                 `yaml:"product_line,omitempty" json:"product_line,omitempty"`
	FCPU        string                 `yaml:"f_cpu,omitempty" json:"f_cpu,omitempty"`
	LDScript    string                 `yaml:"ldscript,omitempty" json:"ldscript,omitempty"`
	Extra       map[string]interface{} `yaml:",inline" json:"-"`
}

// UploadSection holds the "upload" block. Sizes are in bytes.
type UploadSection struct {
	MaximumRAMSize int64                  `yaml:"maximum_ram_size,omitempty" json:"maximum_ram_size,omitempty"`
	MaximumSize    int64                  `yaml:"maximum_size,omitempty" json:"maximum_size,omitempty"`
	Protocol       string                 `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Protocols      []string               `yaml:"protocols,omitempty" json:"protocols,omitempty"`
	Extra          map[string]interface{} `yaml:",inline" json:"-"`
}

// DebugSection holds the "debug" block.
type DebugSection struct {
	Tools            map[string]DebugTool   `yaml:"tools,omitempty" json:"tools,omitempty"`
	OpenOCDBoard     string                 `yaml:"openocd_board,omitempty" json:"openocd_board,omitempty"`
	OpenOCDExtraArgs []string               `yaml:"openocd_extra_args,omitempty" json:"openocd_extra_args,omitempty"`
	OnboardTools     []string               `yaml:"onboard_tools,omitempty" json:"onboard_tools,omitempty"`
	DefaultTools     []string               `yaml:"default_tools,omitempty" json:"default_tools,omitempty"`
	SVDPath          string                 `yaml:"svd_path,omitempty" json:"svd_path,omitempty"`
	Extra            map[string]interface{} `yaml:",inline" json:"-"`
}

// DebugTool describes how to start a debug server for one probe.
type DebugTool struct {
	Server  DebugServer `yaml:"server" json:"server"`
	Onboard bool        `yaml:"onboard" json:"onboard"`
	Default bool        `yaml:"default" json:"default"`
}

// DebugServer is the server invocation of a debug tool. Arguments may refer
// to $PACKAGE_DIR, the installed directory of Package.
type DebugServer struct {
	Package    string   `yaml:"package" json:"package"`
	Executable string   `yaml:"executable" json:"executable"`
	Arguments  []string `yaml:"arguments" json:"arguments"`
}
