package cmsis

import (
	"github.com/numicro-labs/m460/internal/board"
	"github.com/numicro-labs/m460/internal/buildenv"
)

// fpuFlags maps cores with a single-precision FPU to their float flags.
var fpuFlags = map[string][]string{
	"cortex-m4":  {"-mfloat-abi=hard", "-mfpu=fpv4-sp-d16"},
	"cortex-m7":  {"-mfloat-abi=hard", "-mfpu=fpv5-sp-d16"},
	"cortex-m33": {"-mfloat-abi=hard", "-mfpu=fpv5-sp-d16"},
}

// ApplyBareFlags adds the compiler and linker flags every bare-metal
// Cortex-M build needs.
func ApplyBareFlags(env *buildenv.Env, cfg *board.Config) {
	machine := []string{"-mthumb"}
	if cpu := cfg.GetString("build.cpu", ""); cpu != "" {
		machine = append([]string{"-mcpu=" + cpu}, machine...)
		machine = append(machine, fpuFlags[cpu]...)
	}

	env.Append(buildenv.VarASFlags, "-x", "assembler-with-cpp")
	env.Append(buildenv.VarCCFlags, "-Os", "-ffunction-sections", "-fdata-sections", "-Wall", "-nostdlib")
	env.Append(buildenv.VarCCFlags, machine...)
	env.Append(buildenv.VarCXXFlags, "-fno-rtti", "-fno-exceptions")
	env.Append(buildenv.VarLinkFlags, "-Os", "-Wl,--gc-sections,--relax")
	env.Append(buildenv.VarLinkFlags, machine...)
	env.Append(buildenv.VarLibs, "c", "gcc", "m", "stdc++", "nosys")

	if fcpu := cfg.GetString("build.f_cpu", ""); fcpu != "" {
		env.Append(buildenv.VarCPPDefines, "F_CPU="+fcpu)
	}
}
