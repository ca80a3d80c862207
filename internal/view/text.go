package view

import (
	"fmt"
	"io"
	"strings"

	"taskmanager/internal/service"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

// RenderText writes a terminal version of the page.
func RenderText(w io.Writer, s service.Snapshot) error {
	r := lipgloss.NewRenderer(w)
	var (
		appBar  = r.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false)
		heading = r.NewStyle().Bold(true).MarginTop(1)
		tabName = r.NewStyle().Bold(true).MarginTop(1)
		muted   = r.NewStyle().Faint(true)
	)

	var b strings.Builder
	b.WriteString(appBar.Render("≡  Task Manager"))
	b.WriteString("\n")
	b.WriteString(heading.Render(s.Heading))
	b.WriteString("\n")
	b.WriteString(progressBar(s.Progress))
	b.WriteString("\n")

	for _, tab := range s.Tabs {
		b.WriteString(tabName.Render(fmt.Sprintf("%s (%d)", tab.Label, len(tab.Tasks))))
		b.WriteString("\n")
		if len(tab.Tasks) == 0 {
			b.WriteString(muted.Render("  no tasks"))
			b.WriteString("\n")
			continue
		}
		for _, t := range tab.Tasks {
			fmt.Fprintf(&b, "  %-8s %s\n", t.ID, t.Title)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func progressBar(p service.Progress) string {
	filled := p.Percent() * barWidth / 100
	return fmt.Sprintf("[%s%s] %d/%d done (%d%%)",
		strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled),
		p.Done, p.Total, p.Percent())
}
