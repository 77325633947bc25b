package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"maybeowned/internal/registry"
	"maybeowned/maybe"
)

var (
	ownedColor    = color.New(color.FgGreen)
	borrowedColor = color.New(color.FgCyan)
)

// RenderRegistry prints one line per key in the form
//
//	got: <text> [<time>] (<state>)
//
// with keys padded to a common display width. Colors follow color.NoColor.
func RenderRegistry(reg *registry.Registry) string {
	items := reg.Items()
	keyWidth := 0
	for _, it := range items {
		keyWidth = max(keyWidth, runewidth.StringWidth(it.Key))
	}

	var b strings.Builder
	if reg.Name() != "" {
		fmt.Fprintf(&b, "registry %s: %d entries (%d owned, %d borrowed)\n", reg.Name(), reg.Len(), reg.Owned(), reg.Borrowed())
	}
	for _, it := range items {
		e := it.Holder.Deref()
		fmt.Fprintf(&b, "%s  got: %s [%s] (%s)\n",
			runewidth.FillRight(it.Key, keyWidth),
			e.Text,
			e.Time.Format("2006-01-02 15:04:05"),
			stateLabel(it.Holder.State()),
		)
	}
	return b.String()
}

func stateLabel(s maybe.State) string {
	if s == maybe.StateOwned {
		return ownedColor.Sprint(s.String())
	}
	return borrowedColor.Sprint(s.String())
}
