// Package platform models the environment a payload is resolved against: the operating
// system, the CPU architecture and the shell that invoked orbiter.
package platform

import (
	"runtime"
	"strings"
)

// OS is an operating system name as it appears in payload configuration.
type OS string

const (
	Linux   OS = "linux"
	MacOS   OS = "macos"
	Windows OS = "windows"
)

// Arch is a CPU architecture name as it appears in payload configuration.
type Arch string

const (
	X86_64  Arch = "x86_64"
	Aarch64 Arch = "aarch64"
)

// NormalizeOS maps Go's GOOS spelling onto configuration names. Unknown values are
// returned lower-cased and unchanged so callers can report them.
func NormalizeOS(goos string) OS {
	switch s := strings.ToLower(goos); s {
	case "darwin", "macos", "osx":
		return MacOS
	default:
		return OS(s)
	}
}

// NormalizeArch folds the amd64/arm64 aliases onto x86_64/aarch64.
func NormalizeArch(goarch string) Arch {
	switch s := strings.ToLower(goarch); s {
	case "amd64", "x86_64":
		return X86_64
	case "arm64", "aarch64":
		return Aarch64
	default:
		return Arch(s)
	}
}

// Known reports whether the OS has a branch in configuration.
func (o OS) Known() bool {
	return o == Linux || o == MacOS || o == Windows
}

// Known reports whether the architecture has a branch in configuration.
func (a Arch) Known() bool {
	return a == X86_64 || a == Aarch64
}

// Env is the triple every adaptive configuration node is resolved against.
type Env struct {
	OS    OS
	Arch  Arch
	Shell Shell
}

// Current returns the running OS and architecture combined with the given shell.
func Current(shell Shell) Env {
	return Env{
		OS:    NormalizeOS(runtime.GOOS),
		Arch:  NormalizeArch(runtime.GOARCH),
		Shell: shell,
	}
}
