package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"maybeowned/internal/registry"
)

const manifestName = "maybeowned.toml"

type manifest struct {
	Path   string
	Config manifestConfig
}

type manifestConfig struct {
	Registry registryConfig `toml:"registry"`
	Shared   []sharedConfig `toml:"shared"`
	Entry    []entryConfig  `toml:"entry"`
}

type registryConfig struct {
	Name string `toml:"name"`
}

// sharedConfig declares an entry that several keys borrow.
type sharedConfig struct {
	Name string `toml:"name"`
	Text string `toml:"text"`
}

// entryConfig sets either Text (an owned entry) or Shared (a borrowed one).
type entryConfig struct {
	Key    string `toml:"key"`
	Text   string `toml:"text"`
	Shared string `toml:"shared"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(path string) (*manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("registry", "name") {
		cfg.Registry.Name = filepath.Base(filepath.Dir(path))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &manifest{Path: path, Config: cfg}, nil
}

func (c manifestConfig) validate() error {
	shared := make(map[string]bool, len(c.Shared))
	for i, s := range c.Shared {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("shared[%d]: missing name", i)
		}
		if shared[s.Name] {
			return fmt.Errorf("shared[%d]: duplicate name %q", i, s.Name)
		}
		shared[s.Name] = true
	}
	for i, e := range c.Entry {
		if registry.NormalizeKey(e.Key) == "" {
			return fmt.Errorf("entry[%d]: missing key", i)
		}
		switch {
		case e.Text != "" && e.Shared != "":
			return fmt.Errorf("entry %q: text and shared are mutually exclusive", e.Key)
		case e.Shared != "" && !shared[e.Shared]:
			return fmt.Errorf("entry %q: unknown shared entry %q", e.Key, e.Shared)
		}
	}
	return nil
}

// build creates the registry described by the manifest. Shared entries are
// allocated once and every key naming them borrows the same value.
func (c manifestConfig) build() (*registry.Registry, error) {
	shared := make(map[string]*registry.Entry, len(c.Shared))
	for _, s := range c.Shared {
		e := registry.NewEntry(s.Text)
		shared[s.Name] = &e
	}
	reg := registry.New(c.Registry.Name)
	for _, e := range c.Entry {
		var data any = registry.NewEntry(e.Text)
		if e.Shared != "" {
			data = shared[e.Shared]
		}
		if err := reg.Register(e.Key, data); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// demoConfig is used when no manifest is found: one owned entry and two
// keys borrowing the same shared entry.
func demoConfig() manifestConfig {
	return manifestConfig{
		Registry: registryConfig{Name: "demo"},
		Shared:   []sharedConfig{{Name: "missing", Text: "--missing--"}},
		Entry: []entryConfig{
			{Key: "tom", Text: "abc"},
			{Key: "lucy", Shared: "missing"},
			{Key: "peter", Shared: "missing"},
		},
	}
}
