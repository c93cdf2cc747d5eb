package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/selection"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7AA2F7"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#888888"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7AA2F7"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "shelfwatch"
	if m.loading {
		title += " " + m.spinner.View()
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(subtleStyle.Render("loading monitoring data..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderSelection())
	b.WriteString("\n")
	b.WriteString(m.renderHealth())
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderErrors())

	if m.notice != "" {
		b.WriteString(warnStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("m mode · enter/space select · 1/7/3 window · t trigger · r retry all · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderSelection() string {
	var b strings.Builder

	sel := m.overview.Selection
	mode := "single"
	if sel.Mode == selection.ModeMulti {
		mode = "multi"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("Retailers (%s mode, window %dd)", mode, m.overview.Window.Days())))
	b.WriteString("\n")

	selected := make(map[string]bool)
	for _, code := range sel.Selected() {
		selected[code] = true
	}

	for i, r := range m.activeRetailers() {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		marker := "[ ]"
		if selected[r.Code] {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", marker, r.Code, r.Name)
		if selected[r.Code] {
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	return b.String()
}

func (m Model) renderHealth() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Health"))
	b.WriteString("\n")

	if len(m.overview.Health) == 0 {
		b.WriteString(subtleStyle.Render("  no health data for current selection"))
		b.WriteString("\n")
		return b.String()
	}

	for _, h := range m.overview.Health {
		score := fmt.Sprintf("%5.1f", h.HealthScore)
		switch {
		case h.HealthScore < 50:
			score = errStyle.Render(score)
		case h.HealthScore < 80:
			score = warnStyle.Render(score)
		}
		b.WriteString(fmt.Sprintf("  %-6s %s  %d/%d active, %d products\n",
			h.RetailerCode, score, h.ActiveCount, h.TotalCount, h.TotalProducts))
		for _, issue := range h.Issues {
			style := warnStyle
			if issue.Severity == model.SeverityHigh {
				style = errStyle
			}
			b.WriteString("         " + style.Render(fmt.Sprintf("%s: %s", issue.Severity, issue.Message)) + "\n")
		}
	}

	return b.String()
}

func (m Model) renderSummary() string {
	s := m.overview.Summary
	line := fmt.Sprintf("Σ %d categories · %d with issues · avg health %.1f · %d products · %d high severity · %d recent changes",
		s.TotalCategories, s.CategoriesWithIssues, s.AverageHealthScore,
		s.TotalProducts, s.HighSeverityIssueCount, len(m.overview.Changes))
	return headerStyle.Render(line) + "\n"
}

func (m Model) renderErrors() string {
	if len(m.overview.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	for resource, err := range m.overview.Errors {
		b.WriteString(errStyle.Render(fmt.Sprintf("! %s unavailable: %v", resource, err)))
		b.WriteString("\n")
	}
	return b.String()
}
