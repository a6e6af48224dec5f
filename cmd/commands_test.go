package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbiter/internal/config"
	"orbiter/internal/paths"
	"orbiter/internal/platform"
	"orbiter/internal/state"
)

const payloadDoc = `
- id: everywhere
  resource: https://example.invalid/everywhere.tar.gz
- id: mac-arm
  resource:
    macos:
      arm64: https://example.invalid/mac-arm.tar.gz
- id: linux-only
  resource:
    linux: https://example.invalid/linux.tar.gz
`

func parsePayloads(t *testing.T) []config.Payload {
	t.Helper()
	payloads, err := config.Parse(strings.NewReader(payloadDoc))
	require.NoError(t, err)
	return payloads
}

func TestListEffective(t *testing.T) {
	payloads := parsePayloads(t)
	layout := paths.Layout{Home: t.TempDir()}

	var buf bytes.Buffer
	env := platform.Env{OS: platform.MacOS, Arch: platform.Aarch64, Shell: platform.Zsh}
	require.NoError(t, listPayloads(&buf, payloads, layout, env, ScopeEffective))
	assert.Equal(t, "everywhere\nmac-arm\n", buf.String())

	buf.Reset()
	env = platform.Env{OS: platform.Linux, Arch: platform.X86_64, Shell: platform.Bash}
	require.NoError(t, listPayloads(&buf, payloads, layout, env, ScopeEffective))
	assert.Equal(t, "everywhere\nlinux-only\n", buf.String())
}

func TestListAllShowsStatus(t *testing.T) {
	payloads := parsePayloads(t)
	layout := paths.Layout{Home: t.TempDir()}

	for _, id := range []string{"everywhere", "mac-arm"} {
		require.NoError(t, os.MkdirAll(layout.ConfigDir(id), 0o755))
		require.NoError(t, os.MkdirAll(layout.CurrentDir(id), 0o755))
	}
	require.NoError(t, state.SaveReceipt(layout.ConfigDir("everywhere"), state.Receipt{
		ID:          "everywhere",
		EntryPoint:  "/bin/everywhere",
		InstalledAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
	}))

	var buf bytes.Buffer
	env := platform.Env{OS: platform.Linux, Arch: platform.X86_64, Shell: platform.Bash}
	require.NoError(t, listPayloads(&buf, payloads, layout, env, ScopeAll))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ID", "STATUS", "INSTALLED", "AT", "ENTRY", "POINT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"everywhere", "installed", "2024-05-01_09:00:00", "/bin/everywhere"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"mac-arm", "incomplete", "-", "-"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"linux-only", "pending", "-", "-"}, strings.Fields(lines[3]))
}

func TestInitPrintsDirectives(t *testing.T) {
	home := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "orbiter.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
- id: nothing-to-fetch
  resource:
    windows: https://example.invalid/tool.zip
  load: alias nf='echo nothing'
`), 0o644))
	t.Setenv(paths.EnvHome, home)
	t.Setenv(paths.EnvConfig, configFile)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", "bash"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	layout := paths.Layout{Home: home}
	assert.Equal(t,
		platform.Bash.PathExport(layout.BinDir())+"\nalias nf='echo nothing'\n",
		out.String())
	assert.True(t, layout.Installed("nothing-to-fetch"))
}
