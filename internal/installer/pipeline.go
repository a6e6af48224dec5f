package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"orbiter/internal/config"
	"orbiter/internal/logger"
	"orbiter/internal/paths"
	"orbiter/internal/platform"
	"orbiter/internal/resolver"
	"orbiter/internal/script"
	"orbiter/internal/shim"
	"orbiter/internal/state"
)

// Installer drives payloads through the install pipeline.
//
// A payload whose config dir and current dir both exist counts as installed and only gets
// its src/load directives emitted. Otherwise it goes through, in order: create config dir,
// init, acquire, extract, install, expose exec. The config dir is created first, so a
// payload that failed half way looks installed on the next run; `orbiter update <id>`
// resets it.
type Installer struct {
	Layout    paths.Layout
	Env       platform.Env
	Runner    script.Runner
	Acquirer  *Acquirer
	Extractor *Extractor
	Entries   shim.Manager
	// Out receives the directives the calling shell evaluates.
	Out io.Writer
	Now func() time.Time
}

// New wires an Installer for env writing directives to out.
func New(layout paths.Layout, env platform.Env, strict bool, out io.Writer) *Installer {
	return &Installer{
		Layout:    layout,
		Env:       env,
		Runner:    script.Runner{Shell: env.Shell, Strict: strict},
		Acquirer:  NewAcquirer(env),
		Extractor: NewExtractor(),
		Entries:   shim.Manager{BinDir: layout.BinDir()},
		Out:       out,
		Now:       time.Now,
	}
}

// Run processes payloads sequentially in configuration order. A failing payload is logged
// and skipped; the ids of failed payloads are returned.
func (in *Installer) Run(ctx context.Context, payloads []config.Payload) []string {
	logger.Debug("[DEBUG] Processing %d payloads for %s/%s/%s\n", len(payloads), in.Env.OS, in.Env.Arch, in.Env.Shell)

	var failed []string
	for _, p := range payloads {
		if err := in.Process(ctx, p); err != nil {
			logger.Error("[ERROR] Failed to process payload %s: %v\n", p.ID, err)
			failed = append(failed, p.ID)
		}
	}
	return failed
}

// Process installs p when it is not installed yet, then emits its src and load directives.
func (in *Installer) Process(ctx context.Context, p config.Payload) error {
	if in.Layout.Installed(p.ID) {
		logger.Debug("[DEBUG] %s is already installed. Skipping install stages.\n", p.ID)
	} else if err := in.install(ctx, p); err != nil {
		return err
	}

	if err := in.source(p); err != nil {
		return err
	}
	return in.load(p)
}

func (in *Installer) install(ctx context.Context, p config.Payload) error {
	configDir := in.Layout.ConfigDir(p.ID)
	currentDir := in.Layout.CurrentDir(p.ID)
	logger.Info("[INFO] Installing %s...\n", p.ID)

	// 1. marker and staging area
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", configDir, err)
	}

	// 2. init
	var initOutput *string
	if p.Init != nil {
		out := ""
		if cmd, ok := resolver.Command(p.Init, in.Env.Shell, in.Env.OS); ok {
			var err error
			if out, err = in.Runner.Run(ctx, configDir, cmd); err != nil {
				return fmt.Errorf("init: %w", err)
			}
		}
		initOutput = &out
	}

	// 3. acquire
	receipt := state.Receipt{ID: p.ID}
	if res, ok := resolver.Resource(p.Resource, in.Env.OS, in.Env.Arch); ok {
		asset, err := in.Acquirer.Acquire(ctx, res, initOutput, configDir, currentDir)
		if err != nil {
			return fmt.Errorf("acquire: %w", err)
		}
		receipt.Resource = &res
		receipt.AssetPath = asset
	} else {
		logger.Info("[INFO] %s has no resource for %s/%s\n", p.ID, in.Env.OS, in.Env.Arch)
	}

	// 4. every later stage works inside the current dir
	if err := os.MkdirAll(currentDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", currentDir, err)
	}

	// 5. extract
	if cmd, ok := resolver.Command(p.Extract, in.Env.Shell, in.Env.OS); ok {
		if _, err := in.Runner.Run(ctx, currentDir, cmd); err != nil {
			return fmt.Errorf("extract: %w", err)
		}
	} else if receipt.AssetPath != "" {
		if err := in.Extractor.Extract(ctx, receipt.AssetPath, currentDir); err != nil {
			return fmt.Errorf("extract: %w", err)
		}
	}

	// 6. install
	if cmd, ok := resolver.Command(p.Install, in.Env.Shell, in.Env.OS); ok {
		if _, err := in.Runner.Run(ctx, currentDir, cmd); err != nil {
			return fmt.Errorf("install: %w", err)
		}
	}

	// 7. exec
	if p.Exec != nil {
		run, name, useSymlink := p.Exec.EntryPoint()
		entry, err := in.Entries.Create(currentDir, run, name, useSymlink)
		if err != nil {
			return fmt.Errorf("exec: %w", err)
		}
		receipt.EntryPoint = entry
	}

	receipt.InstalledAt = in.now()
	if err := state.SaveReceipt(configDir, receipt); err != nil {
		logger.Warn("[WARN] %v\n", err)
	}
	logger.Info("[INFO] Installed %s\n", p.ID)
	return nil
}

// source emits a source directive for every file matched by the payload's src patterns.
func (in *Installer) source(p config.Payload) error {
	patterns, ok := resolver.SourceTargets(p.Src, in.Env.Shell)
	if !ok {
		return nil
	}
	currentDir := in.Layout.CurrentDir(p.ID)
	for _, pattern := range patterns {
		files, err := shim.Resolve(currentDir, pattern)
		if err != nil {
			return fmt.Errorf("src: %w", err)
		}
		for _, f := range files {
			if _, err := fmt.Fprintln(in.Out, in.Env.Shell.SourceDirective(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

// load emits the payload's load snippet verbatim.
func (in *Installer) load(p config.Payload) error {
	snippet, ok := resolver.Evaluatable(p.Load, in.Env.Shell)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(in.Out, snippet)
	return err
}

func (in *Installer) now() time.Time {
	if in.Now == nil {
		return time.Now()
	}
	return in.Now()
}
