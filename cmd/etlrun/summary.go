package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/etlrun/internal/engine"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
)

// renderSummary formats one line per workflow in configuration order followed
// by a totals line.
func renderSummary(results []engine.Result, elapsed time.Duration) string {
	if len(results) == 0 {
		return mutedStyle.Render("No workflows configured.") + "\n"
	}

	sorted := slices.Clone(results)
	slices.SortFunc(sorted, func(a, b engine.Result) int { return a.Index - b.Index })

	var b strings.Builder
	b.WriteString(titleStyle.Render("Workflow summary"))
	b.WriteString("\n")

	failed := 0
	for _, res := range sorted {
		label := res.WorkflowID
		if label == "" {
			label = fmt.Sprintf("#%d", res.Index)
		}
		if res.WorkflowName != "" && res.WorkflowName != res.WorkflowID {
			label = fmt.Sprintf("%s (%s)", label, res.WorkflowName)
		}
		took := mutedStyle.Render(res.Duration.Round(time.Millisecond).String())

		if res.Err != nil {
			failed++
			fmt.Fprintf(&b, "  %s %s %s\n", errorStyle.Render("✗"), label, took)
			fmt.Fprintf(&b, "    %s\n", errorStyle.Render(firstLine(res.Err.Error())))
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s\n", successStyle.Render("✓"), label, took)
	}

	totals := fmt.Sprintf("%d workflows, %d succeeded, %d failed in %s",
		len(sorted), len(sorted)-failed, failed, elapsed.Round(time.Millisecond))
	if failed > 0 {
		b.WriteString(errorStyle.Render(totals))
	} else {
		b.WriteString(successStyle.Render(totals))
	}
	b.WriteString("\n")

	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
