package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Shell is one of the shells orbiter can emit directives for and run commands with.
type Shell string

const (
	Sh         Shell = "sh"
	Bash       Shell = "bash"
	Zsh        Shell = "zsh"
	Fish       Shell = "fish"
	PowerShell Shell = "powershell"
	WinCmd     Shell = "wincmd"
)

// ParseShell maps a user supplied shell name to a Shell. Anything unrecognized runs as sh.
func ParseShell(name string) Shell {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	case "powershell", "pwsh":
		return PowerShell
	case "cmd", "cmd.exe", "wincmd":
		return WinCmd
	default:
		return Sh
	}
}

// DetectShell guesses the user's shell from $SHELL, falling back to sh.
func DetectShell() Shell {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return Sh
	}
	return ParseShell(filepath.Base(shell))
}

// Program is the executable used to run a command string in this shell.
func (s Shell) Program() string {
	switch s {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	case PowerShell:
		return "powershell"
	case WinCmd:
		return "cmd.exe"
	default:
		return "sh"
	}
}

// CommandFlag is the argument that makes Program read the command from the next argument.
func (s Shell) CommandFlag() string {
	switch s {
	case PowerShell:
		return "-command"
	case WinCmd:
		return "/C"
	default:
		return "-c"
	}
}

// PathExport returns the line that prepends dir to PATH in this shell's syntax.
func (s Shell) PathExport(dir string) string {
	switch s {
	case Fish:
		return fmt.Sprintf("set -x PATH %s $PATH", fishQuote(dir))
	case PowerShell:
		return fmt.Sprintf("$env:PATH = \"%s;$env:PATH\"", dir)
	case WinCmd:
		return fmt.Sprintf("setx PATH \"%s;%%PATH%%\"", dir)
	default:
		return fmt.Sprintf("export PATH=%s:\"$PATH\"", Quote(dir))
	}
}

// SourceDirective returns the statement that makes the calling shell source path.
func (s Shell) SourceDirective(path string) string {
	switch s {
	case Fish:
		return "source " + fishQuote(path)
	case PowerShell:
		return ". '" + strings.ReplaceAll(path, "'", "''") + "'"
	case WinCmd:
		return "call \"" + path + "\""
	case Bash, Zsh:
		return "source " + Quote(path)
	default:
		// POSIX sh has no source builtin
		return ". " + Quote(path)
	}
}

// CompletionBootstrap is emitted once by `orbiter init` before any payload directives.
func (s Shell) CompletionBootstrap() string {
	if s == Zsh {
		return "autoload -Uz compinit; compinit"
	}
	return ""
}

// Quote renders s as a single POSIX shell word.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		// only strings holding a NUL byte can't be quoted; no path contains one
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return q
}

func fishQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
