package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"maybeowned/internal/version"
)

const versionTagline = "yours, mine, or borrowed"

// buildField selects optional lines of the version output.
type buildField uint8

const (
	fieldCommit buildField = 1 << iota
	fieldMessage
	fieldDate

	fieldAll = fieldCommit | fieldMessage | fieldDate
)

var (
	versionFormat string
	versionFields struct {
		commit, message, date, full bool
	}
)

func init() {
	versionCmd.Flags().BoolVar(&versionFields.commit, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionFields.message, "message", false, "include git commit message")
	versionCmd.Flags().BoolVar(&versionFields.date, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionFields.full, "full", false, "include all build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json|yaml)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show maybeowned build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var show buildField
		if versionFields.commit {
			show |= fieldCommit
		}
		if versionFields.message {
			show |= fieldMessage
		}
		if versionFields.date {
			show |= fieldDate
		}
		if versionFields.full {
			show = fieldAll
		}

		out := cmd.OutOrStdout()
		info := version.Current()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(out, version.Version, info, show)
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(newVersionDoc(info, show))
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(newVersionDoc(info, show)); err != nil {
				return err
			}
			return enc.Close()
		}
		return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", versionFormat)
	},
}

// versionDoc is the machine-readable version output.
type versionDoc struct {
	Tool    string `json:"tool" yaml:"tool"`
	Tagline string `json:"tagline" yaml:"tagline"`

	version.Info `yaml:",inline"`
}

func newVersionDoc(info version.Info, show buildField) versionDoc {
	if show&fieldCommit == 0 {
		info.GitCommit = ""
		info.Modified = false
	} else {
		info.GitCommit = valueOr(info.GitCommit, "unknown")
	}
	if show&fieldMessage == 0 {
		info.GitMessage = ""
	} else {
		info.GitMessage = valueOr(info.GitMessage, "unknown")
	}
	if show&fieldDate == 0 {
		info.BuildDate = ""
	} else {
		info.BuildDate = valueOr(info.BuildDate, "unknown")
	}
	return versionDoc{Tool: "maybeowned", Tagline: versionTagline, Info: info}
}

// renderVersionPretty prints the coloured release followed by the selected
// build fields.
func renderVersionPretty(out io.Writer, colored string, info version.Info, show buildField) {
	fmt.Fprintf(out, "maybeowned %s: %s\n", valueOr(colored, "dev"), versionTagline)
	if show == 0 {
		fmt.Fprintln(out, "set --hash, --message, --date, or --full for more build trivia")
		return
	}
	doc := newVersionDoc(info, show)
	if show&fieldCommit != 0 {
		commit := doc.GitCommit
		if doc.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "commit:  %s\n", commit)
	}
	if show&fieldMessage != 0 {
		fmt.Fprintf(out, "message: %s\n", doc.GitMessage)
	}
	if show&fieldDate != 0 {
		fmt.Fprintf(out, "built:   %s\n", doc.BuildDate)
	}
}

func valueOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
