// Package resolver collapses adaptive configuration nodes to the single concrete value that
// applies to a platform.Env.
//
// Resources branch on OS first and architecture second. Commands branch on shell first and
// OS second. Every function is pure; an absent branch is reported through the boolean
// result and never as an error.
package resolver

import (
	"orbiter/internal/config"
	"orbiter/internal/logger"
	"orbiter/internal/platform"
)

// Resource returns the resource selected by os and arch.
func Resource(adaptive *config.AdaptiveResource, os platform.OS, arch platform.Arch) (config.Resource, bool) {
	if adaptive == nil {
		return config.Resource{}, false
	}
	if adaptive.Standard != nil {
		return *adaptive.Standard, true
	}
	if adaptive.OS == nil {
		return config.Resource{}, false
	}

	var branch *config.OSSpecificResource
	switch os {
	case platform.Linux:
		branch = adaptive.OS.Linux
	case platform.MacOS:
		branch = adaptive.OS.MacOS
	case platform.Windows:
		branch = adaptive.OS.Windows
	default:
		logger.Warn("[WARN] Unsupported OS %q, no resource selected\n", os)
		return config.Resource{}, false
	}
	if branch == nil {
		logger.Debug("[DEBUG] No resource configured for OS %s\n", os)
		return config.Resource{}, false
	}
	if branch.Standard != nil {
		return *branch.Standard, true
	}
	if branch.Arch == nil {
		return config.Resource{}, false
	}

	var res *config.Resource
	switch arch {
	case platform.X86_64:
		res = branch.Arch.X86_64
	case platform.Aarch64:
		res = branch.Arch.Aarch64
	default:
		logger.Warn("[WARN] Unsupported architecture %q, no resource selected\n", arch)
		return config.Resource{}, false
	}
	if res == nil {
		logger.Debug("[DEBUG] No resource configured for %s/%s\n", os, arch)
		return config.Resource{}, false
	}
	return *res, true
}

// Command returns the command text selected by shell, then os.
func Command(cmd *config.ShellSpecificCommand, shell platform.Shell, os platform.OS) (string, bool) {
	if cmd == nil {
		return "", false
	}
	if cmd.Shells == nil {
		return cmd.Generic, true
	}

	var branch *config.OSSpecificCommand
	switch shell {
	case platform.Sh:
		branch = cmd.Shells.Sh
	case platform.Bash:
		branch = cmd.Shells.Bash
	case platform.Zsh:
		branch = cmd.Shells.Zsh
	case platform.Fish:
		branch = cmd.Shells.Fish
	case platform.PowerShell:
		branch = cmd.Shells.PowerShell
	case platform.WinCmd:
		branch = cmd.Shells.WinCmd
	}
	if branch == nil {
		logger.Debug("[DEBUG] No command configured for shell %s\n", shell)
		return "", false
	}
	return OSCommand(branch, os)
}

// OSCommand resolves the OS level of a command, the same way Resource resolves its OS level.
func OSCommand(cmd *config.OSSpecificCommand, os platform.OS) (string, bool) {
	if cmd == nil {
		return "", false
	}
	if cmd.OS == nil {
		return cmd.Generic, true
	}

	var text *string
	switch os {
	case platform.Linux:
		text = cmd.OS.Linux
	case platform.MacOS:
		text = cmd.OS.MacOS
	case platform.Windows:
		text = cmd.OS.Windows
	default:
		logger.Warn("[WARN] Unsupported OS %q, no command selected\n", os)
		return "", false
	}
	if text == nil {
		logger.Debug("[DEBUG] No command configured for OS %s\n", os)
		return "", false
	}
	return *text, true
}

// SourceTargets returns the src patterns for shell.
func SourceTargets(src *config.ShellSourceTarget, shell platform.Shell) ([]string, bool) {
	if src == nil {
		return nil, false
	}
	if src.Shells == nil {
		return src.Generic, len(src.Generic) > 0
	}

	var target *config.SourceTarget
	switch shell {
	case platform.Sh:
		target = src.Shells.Sh
	case platform.Bash:
		target = src.Shells.Bash
	case platform.Zsh:
		target = src.Shells.Zsh
	case platform.Fish:
		target = src.Shells.Fish
	case platform.PowerShell:
		target = src.Shells.PowerShell
	case platform.WinCmd:
		target = src.Shells.WinCmd
	}
	if target == nil || len(*target) == 0 {
		return nil, false
	}
	return *target, true
}

// Evaluatable returns the load snippet for shell.
func Evaluatable(ev *config.Evaluatable, shell platform.Shell) (string, bool) {
	if ev == nil {
		return "", false
	}
	if ev.Shells == nil {
		return ev.Generic, true
	}

	var text *string
	switch shell {
	case platform.Sh:
		text = ev.Shells.Sh
	case platform.Bash:
		text = ev.Shells.Bash
	case platform.Zsh:
		text = ev.Shells.Zsh
	case platform.Fish:
		text = ev.Shells.Fish
	case platform.PowerShell:
		text = ev.Shells.PowerShell
	case platform.WinCmd:
		text = ev.Shells.WinCmd
	}
	if text == nil {
		return "", false
	}
	return *text, true
}
