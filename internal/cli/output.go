package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/docpager/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// writeSummary renders the page layout of a result.
func writeSummary(w io.Writer, res *pipeline.Result) {
	content := fmt.Sprintf("%s %s\n%s %s  %s %d  %s %d",
		dimStyle.Render("File:"), titleStyle.Render(res.Filename),
		dimStyle.Render("Tier:"), successStyle.Render(string(res.Tier)),
		dimStyle.Render("Pages:"), res.PageCount,
		dimStyle.Render("Blocks:"), res.Blocks,
	)
	for _, p := range res.Pages {
		content += fmt.Sprintf("\n%s %d blocks", dimStyle.Render(fmt.Sprintf("  page %d:", p.Number)), len(p.Blocks))
	}
	fmt.Fprintln(w, boxStyle.Render(content))
}
