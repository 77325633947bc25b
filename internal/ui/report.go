package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"maybeowned/internal/matrix"
	"maybeowned/maybe"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(lipgloss.Color("2"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("1"))
)

// RenderReport draws a matrix report as a table: one row per operator,
// one column per owned/borrowed combination, then the assignment results
// and a verdict. Problems are listed below the table.
func RenderReport(rep matrix.Report) string {
	headers := []string{"op", "own·own", "own·bor", "bor·own", "bor·bor", "ref op=", "mut op=", "ok"}
	rows := make([][]string, 0, len(rep.Ops))
	for _, op := range rep.Ops {
		row := []string{op.Op.String()}
		for _, r := range op.Results {
			row = append(row, resultCell(r.Value, r.Err))
		}
		ref, mut := "-", "-"
		for _, a := range op.Assign {
			cell := resultCell(a.Value, a.Err)
			if a.Holder == "ref" {
				ref = cell
			} else {
				mut = cell
			}
		}
		row = append(row, ref, mut, verdict(op.OK()))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			// row 0 is the header row
			if row == 0 {
				return headerStyle
			}
			if col == len(headers)-1 {
				if rows[row-1][col] == verdict(true) {
					return okStyle
				}
				return failStyle
			}
			return cellStyle
		})

	var b strings.Builder
	fmt.Fprintf(&b, "%s: a = %s, b = %s\n", rep.Table, rep.Left, rep.Right)
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, u := range rep.Unary {
		fmt.Fprintf(&b, "unary %s: owned %s, borrowed %s %s\n", u.Op, u.Owned, u.Borrowed, verdict(len(u.Problems) == 0))
	}
	for _, op := range rep.Failed() {
		for _, p := range op.Problems {
			b.WriteString(failStyle.Render("✗ " + p))
			b.WriteString("\n")
		}
	}
	for _, u := range rep.FailedUnary() {
		for _, p := range u.Problems {
			b.WriteString(failStyle.Render("✗ " + p))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func resultCell(value string, err error) string {
	if err != nil {
		if code := errorCode(err); code != "" {
			return "err " + code
		}
		return "err"
	}
	return truncate(value, 16)
}

func verdict(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func errorCode(err error) string {
	var me *maybe.Error
	if errors.As(err, &me) {
		return me.Code.String()
	}
	return ""
}
