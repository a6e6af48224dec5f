package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"orbiter/internal/config"
	"orbiter/internal/platform"
)

func decode[T any](t *testing.T, doc string) *T {
	t.Helper()
	var v T
	if err := yaml.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &v
}

func TestResourceStandardAppliesEverywhere(t *testing.T) {
	res := decode[config.AdaptiveResource](t, `https://example.com/tool.tgz`)
	for _, os := range []platform.OS{platform.Linux, platform.MacOS, platform.Windows} {
		got, ok := Resource(res, os, platform.Aarch64)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/tool.tgz", got.Location)
	}
}

func TestResourceOSThenArch(t *testing.T) {
	res := decode[config.AdaptiveResource](t, `
linux: https://example.com/linux
macos:
  x86_64: https://example.com/mac-intel
  aarch64: https://example.com/mac-arm
`)

	got, ok := Resource(res, platform.MacOS, platform.Aarch64)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/mac-arm", got.Location)

	got, ok = Resource(res, platform.MacOS, platform.X86_64)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/mac-intel", got.Location)

	got, ok = Resource(res, platform.Linux, platform.Aarch64)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/linux", got.Location)

	_, ok = Resource(res, platform.Windows, platform.X86_64)
	assert.False(t, ok, "no windows branch")

	_, ok = Resource(res, platform.OS("plan9"), platform.X86_64)
	assert.False(t, ok)

	_, ok = Resource(res, platform.MacOS, platform.Arch("riscv64"))
	assert.False(t, ok)
}

func TestResourceMissingArch(t *testing.T) {
	res := decode[config.AdaptiveResource](t, `
macos:
  arm64: https://example.com/mac-arm
`)
	_, ok := Resource(res, platform.MacOS, platform.X86_64)
	assert.False(t, ok)

	_, ok = Resource(nil, platform.MacOS, platform.X86_64)
	assert.False(t, ok)
}

func TestCommandShellThenOS(t *testing.T) {
	cmd := decode[config.ShellSpecificCommand](t, `
zsh:
  macos: echo zsh-mac
  linux: echo zsh-linux
bash: echo bash-any
`)

	got, ok := Command(cmd, platform.Zsh, platform.MacOS)
	assert.True(t, ok)
	assert.Equal(t, "echo zsh-mac", got)

	got, ok = Command(cmd, platform.Bash, platform.Windows)
	assert.True(t, ok)
	assert.Equal(t, "echo bash-any", got)

	_, ok = Command(cmd, platform.Zsh, platform.Windows)
	assert.False(t, ok)

	_, ok = Command(cmd, platform.Fish, platform.Linux)
	assert.False(t, ok)
}

func TestCommandGeneric(t *testing.T) {
	cmd := decode[config.ShellSpecificCommand](t, `make install`)
	got, ok := Command(cmd, platform.PowerShell, platform.Windows)
	assert.True(t, ok)
	assert.Equal(t, "make install", got)

	_, ok = Command(nil, platform.Zsh, platform.Linux)
	assert.False(t, ok)
}

func TestOSCommand(t *testing.T) {
	cmd := decode[config.OSSpecificCommand](t, `
windows: dir
`)
	got, ok := OSCommand(cmd, platform.Windows)
	assert.True(t, ok)
	assert.Equal(t, "dir", got)

	_, ok = OSCommand(cmd, platform.Linux)
	assert.False(t, ok)

	_, ok = OSCommand(cmd, platform.OS("haiku"))
	assert.False(t, ok)
}

func TestSourceTargets(t *testing.T) {
	generic := decode[config.ShellSourceTarget](t, `init.sh`)
	got, ok := SourceTargets(generic, platform.Fish)
	assert.True(t, ok)
	assert.Equal(t, []string{"init.sh"}, got)

	perShell := decode[config.ShellSourceTarget](t, `
zsh: [a.zsh, b.zsh]
`)
	got, ok = SourceTargets(perShell, platform.Zsh)
	assert.True(t, ok)
	assert.Equal(t, []string{"a.zsh", "b.zsh"}, got)

	_, ok = SourceTargets(perShell, platform.Bash)
	assert.False(t, ok)

	_, ok = SourceTargets(nil, platform.Bash)
	assert.False(t, ok)
}

func TestEvaluatable(t *testing.T) {
	generic := decode[config.Evaluatable](t, `alias ll='ls -l'`)
	got, ok := Evaluatable(generic, platform.Bash)
	assert.True(t, ok)
	assert.Equal(t, "alias ll='ls -l'", got)

	perShell := decode[config.Evaluatable](t, `
fish: abbr -a ll ls -l
`)
	got, ok = Evaluatable(perShell, platform.Fish)
	assert.True(t, ok)
	assert.Equal(t, "abbr -a ll ls -l", got)

	_, ok = Evaluatable(perShell, platform.Zsh)
	assert.False(t, ok)
}
