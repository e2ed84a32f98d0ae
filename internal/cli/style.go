package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/hbjs97/cprof/internal/doctor"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle = lipgloss.NewStyle().Width(10)
)

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return okStyle.Render("OK")
	case doctor.StatusWarn:
		return warnStyle.Render("!!")
	case doctor.StatusFail:
		return failStyle.Render("FAIL")
	default:
		return "??"
	}
}
