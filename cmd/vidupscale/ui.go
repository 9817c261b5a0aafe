package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tauraamui/vidupscale/pkg/journal/models"
	"github.com/tauraamui/vidupscale/pkg/upscale"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
)

func renderSummary(s upscale.Summary) string {
	rows := [][2]string{
		{"Run:", s.RunID},
		{"Mode:", s.Mode},
		{"Model:", fmt.Sprintf("%s x%g", s.ModelName, s.Outscale)},
		{"Output:", s.Output},
		{"Frames:", fmt.Sprintf("%d read, %d enhanced", s.Frames, s.Enhanced)},
		{"Speed:", fmt.Sprintf("%.2f fps", s.AvgFPS)},
		{"Took:", s.Duration.Round(time.Millisecond).String()},
	}

	lines := make([]string, 0, len(rows)+3)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(row[0]), valueStyle.Render(row[1])))
	}

	if len(s.Dropped) > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d frames dropped, try a smaller --tile", len(s.Dropped))))
	}
	if s.Substituted > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d frames encoded without enhancement", s.Substituted)))
	}
	if s.WriteFailures > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d frames could not be written", s.WriteFailures)))
	}

	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func renderHistory(runs []models.Run) string {
	if len(runs) == 0 {
		return "No runs recorded yet"
	}

	lines := make([]string, 0, len(runs))
	for _, run := range runs {
		status := valueStyle.Render("ok")
		if run.Failed {
			status = warnStyle.Render("failed: " + run.ErrorMsg)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s -> %s (%d/%d frames, %d dropped) %s",
			labelStyle.Render(run.CreatedAt.Format(time.RFC3339)),
			run.Mode,
			run.Input,
			run.Output,
			run.Enhanced,
			run.Frames,
			len(run.DroppedFrames),
			status,
		))
	}
	return strings.Join(lines, "\n")
}
