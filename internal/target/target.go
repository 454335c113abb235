// Package target describes compilation targets and the per-process target
// configuration. The configuration is an explicit value built once at
// startup and handed to whoever needs it.
package target

import "strings"

// Target is a compilation target.
type Target uint8

const (
	AndroidArm32 Target = iota
	AndroidArm64
	IPhoneArm64
	IPhoneSimX8664
	LinuxX8664
	LinuxArm32
	MingwX8664
	OSXX8664

	targetCount
)

type targetInfo struct {
	name          string
	suffix        string
	programSuffix string
}

var targetInfos = [targetCount]targetInfo{
	AndroidArm32:   {"android_arm32", "android_arm32", "so"},
	AndroidArm64:   {"android_arm64", "android_arm64", "so"},
	IPhoneArm64:    {"iphone_arm64", "ios", "kexe"},
	IPhoneSimX8664: {"iphonesim_x8664", "ios_sim", "kexe"},
	LinuxX8664:     {"linux_x8664", "linux", "kexe"},
	LinuxArm32:     {"linux_arm32", "raspberrypi", "kexe"},
	MingwX8664:     {"mingw_x8664", "mingw", "exe"},
	OSXX8664:       {"osx_x8664", "osx", "kexe"},
}

// All returns every target in declaration order.
func All() []Target {
	out := make([]Target, 0, targetCount)
	for t := Target(0); t < targetCount; t++ {
		out = append(out, t)
	}
	return out
}

// Name is the lowercase canonical name, e.g. "linux_x8664".
func (t Target) Name() string {
	if t >= targetCount {
		return "unknown"
	}
	return targetInfos[t].name
}

// Suffix is the short target suffix, e.g. "linux" or "ios_sim".
func (t Target) Suffix() string {
	if t >= targetCount {
		return "unknown"
	}
	return targetInfos[t].suffix
}

// ProgramSuffix is the file extension of executables for t, without a dot.
func (t Target) ProgramSuffix() string {
	if t >= targetCount {
		return ""
	}
	return targetInfos[t].programSuffix
}

func (t Target) String() string {
	return strings.ToUpper(t.Name())
}

// OutputKind is the kind of artifact a compilation produces.
type OutputKind uint8

const (
	OutputProgram OutputKind = iota
	OutputLibrary
	OutputBitcode
)

// Suffix returns the file extension for an artifact of kind k built for t.
func (k OutputKind) Suffix(t Target) string {
	switch k {
	case OutputProgram:
		return "." + t.ProgramSuffix()
	case OutputLibrary:
		return ".klib"
	case OutputBitcode:
		return ".bc"
	default:
		return ""
	}
}
