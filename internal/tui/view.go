package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cactolog/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StatePlants:
		content = docStyle.Render(m.plantList.View())
	case StateCalendar:
		content = docStyle.Render(m.calendar.View())
	case StateAddPlant:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(" "+m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Dashboard", "Plants", "Calendar"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDashboard() string {
	today := m.today()

	stats, err := m.store.Stats(today)
	if err != nil {
		return docStyle.Render(dangerStyle.Render(err.Error()))
	}
	summary, _ := m.store.DueSummary(today)
	if summary == "" {
		summary = "Nothing needs water today"
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render(fmt.Sprintf("%d\nplants", stats.Plants)),
		statStyle.Render(fmt.Sprintf("%d\ndue", stats.Due)),
		statStyle.Render(fmt.Sprintf("%d\noverdue", stats.Overdue)),
	)

	var due strings.Builder
	due.WriteString(headingStyle.Render(summary))
	due.WriteString("\n")
	plants, _ := m.store.DuePlants(today)
	for _, p := range plants {
		line := "  " + p.Name
		if p.OverdueDays > 0 {
			line += overdueStyle.Render(fmt.Sprintf("  %dd overdue", p.OverdueDays))
		}
		due.WriteString(line + "\n")
	}

	var recent strings.Builder
	recent.WriteString(headingStyle.Render("Recent activity"))
	recent.WriteString("\n")
	activities := m.store.RecentActivity(recentLimit)
	if len(activities) == 0 {
		recent.WriteString(mutedStyle.Render("  Nothing logged yet."))
	}
	for _, a := range activities {
		recent.WriteString(fmt.Sprintf("  %s  %-9s %s\n", mutedStyle.Render(a.Date), a.Type, m.plantName(a)))
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		due.String(),
		recent.String(),
	))
}

func (m Model) plantName(a models.Activity) string {
	if p, ok := m.store.Plant(a.PlantID); ok {
		return p.Name
	}
	return a.PlantID
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s and all of its activity?", m.plantToDeleteName)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
