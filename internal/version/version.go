// Package version carries the build identity of the maybeowned CLI. The
// variables are meant to be set with -ldflags "-X ...".
package version

import (
	"runtime/debug"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
)

var (
	// Version is the release, coloured per component for terminals.
	Version = color.New(color.FgYellow, color.Bold).Sprint("0") + "." +
		color.New(color.FgGreen, color.Bold).Sprint("3") + "." +
		color.New(color.FgBlue, color.Bold).Sprint("1")

	GitCommit  = ""
	GitMessage = ""
	BuildDate  = "" // ISO-8601
)

// Info is the build identity without colour.
type Info struct {
	Version    string `json:"version" yaml:"version"`
	GitCommit  string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty" yaml:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	Modified   bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Current returns the build identity. Commit and date left empty by the
// linker are filled from the VCS stamp the go tool embeds, when present.
func Current() Info {
	info := Info{
		Version:    Plain(Version),
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Plain strips terminal escape sequences from s.
func Plain(s string) string {
	return ansi.Strip(s)
}
