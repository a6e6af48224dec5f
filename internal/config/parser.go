package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Polymorphic nodes are decoded by shape, in this order:
//   1. scalar   -> the generic/standard form (a URL, a command, a path)
//   2. sequence -> only SourceTarget accepts it
//   3. mapping  -> discriminated by its keys: a `repo` key means a Repo resource, OS keys
//      mean a per-OS tree, arch keys a per-arch pair, shell keys a per-shell set.
// A mapping whose keys fit no variant is an error naming the line.

var (
	repoKeys  = []string{"repo", "provider", "from_release", "ver", "binary_pattern"}
	osKeys    = []string{"linux", "macos", "windows"}
	archKeys  = []string{"x86_64", "amd64", "aarch64", "arm64"}
	shellKeys = []string{"sh", "bash", "zsh", "fish", "powershell", "wincmd"}
	execKeys  = []string{"run", "alias", "use_symlink"}
)

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func keysOf(node *yaml.Node) []string {
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

func hasKey(node *yaml.Node, key string) bool {
	for _, k := range keysOf(node) {
		if k == key {
			return true
		}
	}
	return false
}

// checkKeys fails when node carries a key outside allowed.
func checkKeys(node *yaml.Node, what string, allowed []string) error {
	for _, k := range keysOf(node) {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("line %d: unknown key %q in %s (expected one of %s)",
				node.Line, k, what, strings.Join(allowed, ", "))
		}
	}
	return nil
}

func shapeError(node *yaml.Node, what string) error {
	return fmt.Errorf("line %d: cannot decode %s from this value", node.Line, what)
}

// UnmarshalYAML decodes a provider name.
func (p *Provider) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind != yaml.ScalarNode {
		return shapeError(node, "provider")
	}
	switch v := Provider(strings.ToLower(node.Value)); v {
	case GitHub, GitLab, Gitee:
		*p = v
		return nil
	default:
		return fmt.Errorf("line %d: unsupported provider %q", node.Line, node.Value)
	}
}

// UnmarshalYAML decodes a URL scalar or a repo mapping.
func (r *Resource) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch {
	case node.Kind == yaml.ScalarNode:
		if strings.TrimSpace(node.Value) == "" {
			return fmt.Errorf("line %d: empty resource location", node.Line)
		}
		*r = Resource{Location: node.Value}
		return nil
	case node.Kind == yaml.MappingNode && hasKey(node, "repo"):
		if err := checkKeys(node, "repo resource", repoKeys); err != nil {
			return err
		}
		var repo Repo
		if err := node.Decode(&repo); err != nil {
			return err
		}
		if repo.Repo == "" {
			return fmt.Errorf("line %d: empty repo", node.Line)
		}
		*r = Resource{Repo: &repo}
		return nil
	default:
		return shapeError(node, "resource")
	}
}

// UnmarshalYAML decodes a standard resource or a per-OS tree.
func (a *AdaptiveResource) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind == yaml.ScalarNode || (node.Kind == yaml.MappingNode && hasKey(node, "repo")) {
		var res Resource
		if err := node.Decode(&res); err != nil {
			return err
		}
		*a = AdaptiveResource{Standard: &res}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return shapeError(node, "resource")
	}
	if err := checkKeys(node, "os-specific resource", osKeys); err != nil {
		return err
	}
	var tree OSResources
	if err := node.Decode(&tree); err != nil {
		return err
	}
	*a = AdaptiveResource{OS: &tree}
	return nil
}

// UnmarshalYAML decodes a standard resource or a per-arch pair.
func (o *OSSpecificResource) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind == yaml.ScalarNode || (node.Kind == yaml.MappingNode && hasKey(node, "repo")) {
		var res Resource
		if err := node.Decode(&res); err != nil {
			return err
		}
		*o = OSSpecificResource{Standard: &res}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return shapeError(node, "os-specific resource")
	}
	var arch ArchResources
	if err := node.Decode(&arch); err != nil {
		return err
	}
	*o = OSSpecificResource{Arch: &arch}
	return nil
}

// UnmarshalYAML decodes the per-arch pair, folding amd64/arm64 onto x86_64/aarch64.
func (a *ArchResources) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind != yaml.MappingNode {
		return shapeError(node, "arch-specific resource")
	}
	if err := checkKeys(node, "arch-specific resource", archKeys); err != nil {
		return err
	}
	var out ArchResources
	for i := 0; i+1 < len(node.Content); i += 2 {
		var res Resource
		if err := node.Content[i+1].Decode(&res); err != nil {
			return err
		}
		switch node.Content[i].Value {
		case "x86_64", "amd64":
			out.X86_64 = &res
		case "aarch64", "arm64":
			out.Aarch64 = &res
		}
	}
	*a = out
	return nil
}

// UnmarshalYAML decodes a generic command string or a per-shell set.
func (c *ShellSpecificCommand) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		*c = ShellSpecificCommand{Generic: node.Value}
		return nil
	case yaml.MappingNode:
		if err := checkKeys(node, "shell-specific command", shellKeys); err != nil {
			return err
		}
		var shells ShellCommands
		if err := node.Decode(&shells); err != nil {
			return err
		}
		*c = ShellSpecificCommand{Shells: &shells}
		return nil
	default:
		return shapeError(node, "command")
	}
}

// UnmarshalYAML decodes a generic command string or a per-OS set.
func (c *OSSpecificCommand) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		*c = OSSpecificCommand{Generic: node.Value}
		return nil
	case yaml.MappingNode:
		if err := checkKeys(node, "os-specific command", osKeys); err != nil {
			return err
		}
		var osCmds OSCommands
		if err := node.Decode(&osCmds); err != nil {
			return err
		}
		*c = OSSpecificCommand{OS: &osCmds}
		return nil
	default:
		return shapeError(node, "os-specific command")
	}
}

// UnmarshalYAML decodes one path or a list of paths.
func (s *SourceTarget) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		*s = SourceTarget{node.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = many
		return nil
	default:
		return shapeError(node, "source target")
	}
}

// UnmarshalYAML decodes generic source targets or a per-shell set.
func (s *ShellSourceTarget) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	if node.Kind == yaml.MappingNode {
		if err := checkKeys(node, "shell-specific source", shellKeys); err != nil {
			return err
		}
		var shells ShellSourceTargets
		if err := node.Decode(&shells); err != nil {
			return err
		}
		*s = ShellSourceTarget{Shells: &shells}
		return nil
	}
	var generic SourceTarget
	if err := node.Decode(&generic); err != nil {
		return err
	}
	*s = ShellSourceTarget{Generic: generic}
	return nil
}

// UnmarshalYAML decodes a generic snippet or one snippet per shell.
func (e *Evaluatable) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		*e = Evaluatable{Generic: node.Value}
		return nil
	case yaml.MappingNode:
		if err := checkKeys(node, "shell-specific snippet", shellKeys); err != nil {
			return err
		}
		var shells ShellStrings
		if err := node.Decode(&shells); err != nil {
			return err
		}
		*e = Evaluatable{Shells: &shells}
		return nil
	default:
		return shapeError(node, "load snippet")
	}
}

// UnmarshalYAML decodes a bare run target or the structured command form.
func (e *Executable) UnmarshalYAML(node *yaml.Node) error {
	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return fmt.Errorf("line %d: empty exec", node.Line)
		}
		*e = Executable{Run: node.Value}
		return nil
	case yaml.MappingNode:
		if err := checkKeys(node, "exec", execKeys); err != nil {
			return err
		}
		var cmd ExecCommand
		if err := node.Decode(&cmd); err != nil {
			return err
		}
		if cmd.Run == "" {
			return fmt.Errorf("line %d: exec without run", node.Line)
		}
		*e = Executable{Command: &cmd}
		return nil
	default:
		return shapeError(node, "exec")
	}
}
