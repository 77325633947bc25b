package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"maybeowned/internal/observ"
	"maybeowned/internal/registry"
	"maybeowned/internal/ui"
	"maybeowned/maybe"
	"maybeowned/trace"
)

var (
	registryConfigPath string
	registryFormat     string
	registrySnapshot   string
	registryRestore    bool
	registryDetach     bool
)

func init() {
	registryCmd.Flags().StringVar(&registryConfigPath, "config", "", "path to "+manifestName+" (default: search upwards from the working directory)")
	registryCmd.Flags().StringVar(&registryFormat, "format", "pretty", "output format (pretty|json|yaml)")
	registryCmd.Flags().StringVar(&registrySnapshot, "snapshot", "", "directory to write a msgpack snapshot of the registry to")
	registryCmd.Flags().BoolVar(&registryRestore, "restore", false, "load the registry from the snapshot in --snapshot instead of the manifest")
	registryCmd.Flags().BoolVar(&registryDetach, "detach", false, "make every borrowed entry owned before printing")
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Build a registry of owned and borrowed entries and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(registryFormat)
		switch format {
		case "pretty", "json", "yaml":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", registryFormat)
		}
		if registryRestore && registrySnapshot == "" {
			return fmt.Errorf("--restore requires --snapshot")
		}

		timer := observ.NewTimer(trace.FromContext(cmd.Context()))
		reg, err := loadRegistry(cmd, timer)
		if err != nil {
			return err
		}
		defer reg.Close()

		if registryDetach {
			reg.Detach()
		}

		if registrySnapshot != "" && !registryRestore {
			stop := timer.Start("snapshot")
			store, err := registry.OpenSnapshotStore(registrySnapshot)
			if err != nil {
				return fmt.Errorf("failed to open snapshot store: %w", err)
			}
			if err := store.Put(reg); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			stop(reg.Name())
		}

		stop := timer.Start("render")
		err = renderRegistry(cmd.OutOrStdout(), reg, format)
		stop(format)
		if err != nil {
			return err
		}
		return printTimings(cmd, timer)
	},
}

func loadRegistry(cmd *cobra.Command, timer *observ.Timer) (*registry.Registry, error) {
	if registryRestore {
		defer timer.Start("restore")("")
		store, err := registry.OpenSnapshotStore(registrySnapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		name, err := manifestRegistryName(cmd)
		if err != nil {
			return nil, err
		}
		snap, ok, err := store.Get(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no snapshot %q in %s", name, store.Dir())
		}
		return snap.Restore()
	}

	stop := timer.Start("manifest")
	cfg, err := resolveManifest(cmd)
	stop("")
	if err != nil {
		return nil, err
	}
	stop = timer.Start("build")
	defer stop(fmt.Sprintf("%d entries", len(cfg.Entry)))
	return cfg.build()
}

// resolveManifest loads --config, or the nearest manifest, or the demo.
func resolveManifest(cmd *cobra.Command) (manifestConfig, error) {
	path := registryConfigPath
	if path == "" {
		found, ok, err := findManifest(".")
		if err != nil {
			return manifestConfig{}, err
		}
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "no %s found, using the built-in demo registry\n", manifestName)
			return demoConfig(), nil
		}
		path = found
	}
	m, err := loadManifest(path)
	if err != nil {
		return manifestConfig{}, err
	}
	return m.Config, nil
}

func manifestRegistryName(cmd *cobra.Command) (string, error) {
	cfg, err := resolveManifest(cmd)
	if err != nil {
		return "", err
	}
	return cfg.Registry.Name, nil
}

type registryItem struct {
	Key   string                     `json:"key" yaml:"key"`
	State string                     `json:"state" yaml:"state"`
	Entry *maybe.Ref[registry.Entry] `json:"entry" yaml:"entry"`
}

type registryPayload struct {
	Name     string         `json:"name" yaml:"name"`
	Owned    int            `json:"owned" yaml:"owned"`
	Borrowed int            `json:"borrowed" yaml:"borrowed"`
	Entries  []registryItem `json:"entries" yaml:"entries"`
}

func renderRegistry(out io.Writer, reg *registry.Registry, format string) error {
	if format == "pretty" {
		_, err := io.WriteString(out, ui.RenderRegistry(reg))
		return err
	}

	payload := registryPayload{
		Name:     reg.Name(),
		Owned:    reg.Owned(),
		Borrowed: reg.Borrowed(),
	}
	for _, it := range reg.Items() {
		payload.Entries = append(payload.Entries, registryItem{
			Key:   it.Key,
			State: it.Holder.State().String(),
			Entry: it.Holder,
		})
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show {
		return err
	}
	_, err = fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	return err
}
