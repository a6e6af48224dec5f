package config

// Payload is one managed tool. It is built once per run from the payload file and never
// mutated afterwards.
// - ID: unique key, names every on-disk path of the payload.
// - Init: command run once before acquisition; its output can be spliced into the resource URL.
// - Resource: where the payload comes from (required).
// - Extract: explicit extraction command, overrides archive sniffing.
// - Install: command run after extraction inside the install directory.
// - Update: reserved for a per-payload update override; not used by the pipeline.
// - Src: files sourced into the calling shell on every run.
// - Load: snippet evaluated by the calling shell on every run.
// - Exec: the runnable entry point exposed on PATH.
// - Menu: display metadata, carried but not processed.
type Payload struct {
	ID       string                `yaml:"id"`
	Init     *ShellSpecificCommand `yaml:"init"`
	Resource *AdaptiveResource     `yaml:"resource"`
	Extract  *ShellSpecificCommand `yaml:"extract"`
	Install  *ShellSpecificCommand `yaml:"install"`
	Update   *ShellSpecificCommand `yaml:"update"`
	Src      *ShellSourceTarget    `yaml:"src"`
	Load     *Evaluatable          `yaml:"load"`
	Exec     *Executable           `yaml:"exec"`
	Menu     *Menu                 `yaml:"menu"`
}

// Provider is the host serving a repository and its releases.
type Provider string

const (
	GitHub Provider = "github"
	GitLab Provider = "gitlab"
	Gitee  Provider = "gitee"
)

// Repo describes a repository resource. With FromRelease set, a release asset is
// downloaded instead of cloning the repository.
// - Ver: tag to check out, or release tag to pick (case-insensitive).
// - BinaryPattern: regular expression selecting the release asset by name.
type Repo struct {
	Repo          string   `yaml:"repo" json:"repo"`
	Provider      Provider `yaml:"provider,omitempty" json:"provider,omitempty"`
	FromRelease   bool     `yaml:"from_release,omitempty" json:"from_release,omitempty"`
	Ver           string   `yaml:"ver,omitempty" json:"ver,omitempty"`
	BinaryPattern string   `yaml:"binary_pattern,omitempty" json:"binary_pattern,omitempty"`
}

// ProviderOrDefault returns the configured provider, GitHub when unset.
func (r Repo) ProviderOrDefault() Provider {
	if r.Provider == "" {
		return GitHub
	}
	return r.Provider
}

// Resource is a concrete resource: exactly one of Location or Repo is set.
type Resource struct {
	Location string `json:"location,omitempty"`
	Repo     *Repo  `json:"repo,omitempty"`
}

// AdaptiveResource is Standard(Resource) or a per-OS tree. Exactly one field is set.
type AdaptiveResource struct {
	Standard *Resource
	OS       *OSResources
}

// OSResources holds the per-OS branches of an AdaptiveResource. A nil branch means the
// payload has nothing to fetch on that OS.
type OSResources struct {
	Linux   *OSSpecificResource `yaml:"linux"`
	MacOS   *OSSpecificResource `yaml:"macos"`
	Windows *OSSpecificResource `yaml:"windows"`
}

// OSSpecificResource is Standard(Resource) or a per-architecture pair.
type OSSpecificResource struct {
	Standard *Resource
	Arch     *ArchResources
}

// ArchResources holds per-architecture resources. amd64 and arm64 are accepted as
// aliases of x86_64 and aarch64.
type ArchResources struct {
	X86_64  *Resource `yaml:"x86_64"`
	Aarch64 *Resource `yaml:"aarch64"`
}

// ShellSpecificCommand is Generic(string) or a per-shell set of OSSpecificCommand.
// Shells == nil selects the generic form.
type ShellSpecificCommand struct {
	Generic string
	Shells  *ShellCommands
}

// ShellCommands holds the per-shell branches of a ShellSpecificCommand.
type ShellCommands struct {
	Sh         *OSSpecificCommand `yaml:"sh"`
	Bash       *OSSpecificCommand `yaml:"bash"`
	Zsh        *OSSpecificCommand `yaml:"zsh"`
	Fish       *OSSpecificCommand `yaml:"fish"`
	PowerShell *OSSpecificCommand `yaml:"powershell"`
	WinCmd     *OSSpecificCommand `yaml:"wincmd"`
}

// OSSpecificCommand is Generic(string) or a per-OS set of strings. OS == nil selects the
// generic form.
type OSSpecificCommand struct {
	Generic string
	OS      *OSCommands
}

// OSCommands holds per-OS command text.
type OSCommands struct {
	Linux   *string `yaml:"linux"`
	MacOS   *string `yaml:"macos"`
	Windows *string `yaml:"windows"`
}

// SourceTarget is one or many file paths or glob patterns.
type SourceTarget []string

// ShellSourceTarget is Generic(SourceTarget) or per-shell targets. Shells == nil selects
// the generic form.
type ShellSourceTarget struct {
	Generic SourceTarget
	Shells  *ShellSourceTargets
}

// ShellSourceTargets holds the per-shell branches of a ShellSourceTarget.
type ShellSourceTargets struct {
	Sh         *SourceTarget `yaml:"sh"`
	Bash       *SourceTarget `yaml:"bash"`
	Zsh        *SourceTarget `yaml:"zsh"`
	Fish       *SourceTarget `yaml:"fish"`
	PowerShell *SourceTarget `yaml:"powershell"`
	WinCmd     *SourceTarget `yaml:"wincmd"`
}

// Evaluatable is a snippet handed verbatim to the calling shell: Generic(string) or one
// string per shell.
type Evaluatable struct {
	Generic string
	Shells  *ShellStrings
}

// ShellStrings holds per-shell text.
type ShellStrings struct {
	Sh         *string `yaml:"sh"`
	Bash       *string `yaml:"bash"`
	Zsh        *string `yaml:"zsh"`
	Fish       *string `yaml:"fish"`
	PowerShell *string `yaml:"powershell"`
	WinCmd     *string `yaml:"wincmd"`
}

// Executable is Run(path-or-glob) or Command. Command == nil selects the Run form.
type Executable struct {
	Run     string
	Command *ExecCommand
}

// ExecCommand is the structured exec form.
// - Run: path or glob of the binary, relative to the install directory.
// - Alias: name of the entry point; defaults to Run.
// - UseSymlink: expose through a symlink instead of a wrapper script.
type ExecCommand struct {
	Run        string `yaml:"run"`
	Alias      string `yaml:"alias"`
	UseSymlink bool   `yaml:"use_symlink"`
}

// EntryPoint flattens both exec forms into the target to resolve, the entry point name
// and whether to symlink.
func (e Executable) EntryPoint() (run, name string, useSymlink bool) {
	if e.Command == nil {
		return e.Run, e.Run, false
	}
	name = e.Command.Alias
	if name == "" {
		name = e.Command.Run
	}
	return e.Command.Run, name, e.Command.UseSymlink
}

// Menu is desktop menu metadata. Orbiter keeps it but does not act on it.
type Menu struct {
	MenuName string `yaml:"menu_name"`
	Name     string `yaml:"name"`
	Run      string `yaml:"run"`
	Icon     string `yaml:"icon"`
}
