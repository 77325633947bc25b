package ui_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"maybeowned/internal/matrix"
	"maybeowned/internal/registry"
	"maybeowned/internal/ui"
	"maybeowned/maybe"
)

func TestRenderReport(t *testing.T) {
	rep, err := matrix.Run(context.Background(), maybe.SignedIntegers[int](), 33, 9, matrix.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := ui.RenderReport(rep)
	for _, want := range []string{"integers[int]: a = 33, b = 9", "own·own", "42", "unary -"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "✗") {
		t.Errorf("passing report should have no failures:\n%s", out)
	}
}

func TestRenderReportShowsErrorCodes(t *testing.T) {
	rep, err := matrix.Run(context.Background(), maybe.Integers[int](), 1, 0, matrix.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := ui.RenderReport(rep)
	if !strings.Contains(out, "err "+maybe.CodeDivideByZero.String()) {
		t.Errorf("report missing divide-by-zero code:\n%s", out)
	}
}

func TestRenderRegistry(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	reg := registry.New("demo")
	shared := registry.NewEntry("--missing--")
	_ = reg.Register("tom", registry.NewEntry("abc"))
	_ = reg.Register("lucy", &shared)

	out := ui.RenderRegistry(reg)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out)
	}
	if lines[0] != "registry demo: 2 entries (1 owned, 1 borrowed)" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "lucy  got: --missing-- [") || !strings.HasSuffix(lines[1], "(borrowed)") {
		t.Fatalf("lucy line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "tom   got: abc [") || !strings.HasSuffix(lines[2], "(owned)") {
		t.Fatalf("tom line = %q", lines[2])
	}
}
