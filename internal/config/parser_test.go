package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxURL = "https://download.mozilla.org/?product=firefox-devedition-latest-ssl&os=linux64&lang=en-US"

func parse(t *testing.T, doc string) []Payload {
	t.Helper()
	payloads, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return payloads
}

func TestParseMinimum(t *testing.T) {
	payloads := parse(t, `
- id: firefox
  resource: `+firefoxURL+`
  exec: "**/firefox"
`)
	require.Len(t, payloads, 1)
	p := payloads[0]
	assert.Equal(t, "firefox", p.ID)
	assert.Equal(t, &AdaptiveResource{Standard: &Resource{Location: firefoxURL}}, p.Resource)
	assert.Equal(t, &Executable{Run: "**/firefox"}, p.Exec)
	assert.Nil(t, p.Init)
	assert.Nil(t, p.Install)
	assert.Nil(t, p.Menu)
}

func TestParseMenuAndHooks(t *testing.T) {
	payloads := parse(t, `
- id: ff-dev
  resource: `+firefoxURL+`
  extract: "tar xzf *.tar.gz"
  install: "./GitAhead*.sh --include-subdir"
  exec: "**/firefox"
  menu:
    name: firefox
    run: "env GDK_BACKEND=wayland $(readlink -f firefox/firefox)"
    icon: firefox
    menu_name: Firefox
`)
	p := payloads[0]
	assert.Equal(t, &ShellSpecificCommand{Generic: "tar xzf *.tar.gz"}, p.Extract)
	assert.Equal(t, &ShellSpecificCommand{Generic: "./GitAhead*.sh --include-subdir"}, p.Install)
	assert.Equal(t, &Menu{
		MenuName: "Firefox",
		Name:     "firefox",
		Run:      "env GDK_BACKEND=wayland $(readlink -f firefox/firefox)",
		Icon:     "firefox",
	}, p.Menu)
}

func TestParseRepoAndExecCommand(t *testing.T) {
	payloads := parse(t, `
- id: gitahead
  resource:
    repo: gitahead/gitahead
  install: ./GitAhead*.sh --include-subdir
  exec:
    run: '**/GitAhead'
    alias: gitahead
`)
	p := payloads[0]
	require.NotNil(t, p.Resource.Standard)
	assert.Equal(t, &Repo{Repo: "gitahead/gitahead"}, p.Resource.Standard.Repo)
	assert.Equal(t, GitHub, p.Resource.Standard.Repo.ProviderOrDefault())
	assert.Equal(t, &Executable{Command: &ExecCommand{Run: "**/GitAhead", Alias: "gitahead"}}, p.Exec)

	run, name, symlink := p.Exec.EntryPoint()
	assert.Equal(t, "**/GitAhead", run)
	assert.Equal(t, "gitahead", name)
	assert.False(t, symlink)
}

func TestParseReleaseRepo(t *testing.T) {
	payloads := parse(t, `
- id: neovim
  resource:
    repo: neovim/neovim
    provider: GitLab
    from_release: true
    ver: v0.9.5
    binary_pattern: "*.tar.gz"
  extract: "tar xvf *.tar.*"
  exec: "**/bin/nvim"
`)
	repo := payloads[0].Resource.Standard.Repo
	require.NotNil(t, repo)
	assert.Equal(t, Repo{
		Repo:          "neovim/neovim",
		Provider:      GitLab,
		FromRelease:   true,
		Ver:           "v0.9.5",
		BinaryPattern: "*.tar.gz",
	}, *repo)
}

func TestParseOSAndArchTree(t *testing.T) {
	payloads := parse(t, `
- id: minikube
  resource:
    linux: https://example.com/minikube-linux-amd64
    macos:
      x86_64: https://example.com/minikube-darwin-amd64
      arm64:
        repo: kubernetes/minikube
        from_release: true
  exec:
    run: minikube*
    alias: minikube
    use_symlink: true
`)
	res := payloads[0].Resource
	require.NotNil(t, res.OS)
	assert.Nil(t, res.Standard)
	assert.Equal(t, "https://example.com/minikube-linux-amd64", res.OS.Linux.Standard.Location)
	assert.Nil(t, res.OS.Windows)

	mac := res.OS.MacOS
	require.NotNil(t, mac.Arch)
	assert.Equal(t, "https://example.com/minikube-darwin-amd64", mac.Arch.X86_64.Location)
	assert.Equal(t, "kubernetes/minikube", mac.Arch.Aarch64.Repo.Repo)

	_, name, symlink := payloads[0].Exec.EntryPoint()
	assert.Equal(t, "minikube", name)
	assert.True(t, symlink)
}

func TestParseShellSpecificForms(t *testing.T) {
	payloads := parse(t, `
- id: fzf
  resource: https://example.com/fzf.tar.gz
  init:
    zsh:
      macos: brew --prefix
      linux: uname -m
    bash: echo bash
  src:
    zsh: ["shell/completion.zsh", "shell/key-bindings.zsh"]
    fish: shell/key-bindings.fish
  load:
    zsh: bindkey '^T' fzf-file-widget
`)
	p := payloads[0]
	require.NotNil(t, p.Init.Shells)
	assert.Equal(t, "brew --prefix", *p.Init.Shells.Zsh.OS.MacOS)
	assert.Equal(t, "uname -m", *p.Init.Shells.Zsh.OS.Linux)
	assert.Nil(t, p.Init.Shells.Zsh.OS.Windows)
	assert.Equal(t, "echo bash", p.Init.Shells.Bash.Generic)

	require.NotNil(t, p.Src.Shells)
	assert.Equal(t, SourceTarget{"shell/completion.zsh", "shell/key-bindings.zsh"}, *p.Src.Shells.Zsh)
	assert.Equal(t, SourceTarget{"shell/key-bindings.fish"}, *p.Src.Shells.Fish)
	assert.Nil(t, p.Src.Shells.Bash)

	require.NotNil(t, p.Load.Shells)
	assert.Equal(t, "bindkey '^T' fzf-file-widget", *p.Load.Shells.Zsh)
}

func TestParseGenericSourceList(t *testing.T) {
	payloads := parse(t, `
- id: z
  resource: https://example.com/z.tar.gz
  src:
    - z.sh
    - "**/*.plugin.zsh"
  load: _Z_CMD=j
`)
	assert.Equal(t, SourceTarget{"z.sh", "**/*.plugin.zsh"}, payloads[0].Src.Generic)
	assert.Equal(t, "_Z_CMD=j", payloads[0].Load.Generic)
}

func TestParseEmpty(t *testing.T) {
	payloads, err := Parse(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"unknown os": {
			doc: `
- id: a
  resource:
    solaris: https://example.com/a
`,
			want: `unknown key "solaris"`,
		},
		"unknown arch": {
			doc: `
- id: a
  resource:
    linux:
      mips: https://example.com/a
`,
			want: `unknown key "mips"`,
		},
		"unknown repo key": {
			doc: `
- id: a
  resource:
    repo: a/b
    branch: main
`,
			want: `unknown key "branch"`,
		},
		"unknown provider": {
			doc: `
- id: a
  resource:
    repo: a/b
    provider: bitbucket
`,
			want: "unsupported provider",
		},
		"unknown shell": {
			doc: `
- id: a
  resource: https://example.com/a
  install:
    tcsh: make
`,
			want: `unknown key "tcsh"`,
		},
		"exec without run": {
			doc: `
- id: a
  resource: https://example.com/a
  exec:
    alias: a
`,
			want: "exec without run",
		},
		"command as list": {
			doc: `
- id: a
  resource: https://example.com/a
  install: [make, make install]
`,
			want: "cannot decode command",
		},
		"missing resource": {
			doc: `
- id: a
  exec: a
`,
			want: "missing resource",
		},
		"missing id": {
			doc: `
- resource: https://example.com/a
`,
			want: "missing id",
		},
		"duplicate id": {
			doc: `
- id: a
  resource: https://example.com/a
- id: a
  resource: https://example.com/b
`,
			want: "duplicate id",
		},
		"path id": {
			doc: `
- id: ../a
  resource: https://example.com/a
`,
			want: "plain name",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestUnknownKeyNamesLine(t *testing.T) {
	_, err := Parse(strings.NewReader("- id: a\n  resource:\n    beos: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadPayloadsAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbiter.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: first
  resource: https://example.com/1
- id: second
  resource: https://example.com/2
`), 0o644))

	payloads, err := LoadPayloads(path)
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, "first", payloads[0].ID)

	p, ok := Find(payloads, "second")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/2", p.Resource.Standard.Location)

	_, ok = Find(payloads, "third")
	assert.False(t, ok)

	_, err = LoadPayloads(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
