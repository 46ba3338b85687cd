package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(5)

	dayStyle = lipgloss.NewStyle().
			Width(5)

	outsideStyle = dayStyle.
			Foreground(lipgloss.Color("238"))

	waterStyle = dayStyle.
			Foreground(lipgloss.Color("39")).
			Bold(true)

	repotStyle = dayStyle.
			Foreground(lipgloss.Color("172")).
			Bold(true)

	todayStyle = dayStyle.
			Reverse(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)
)

type Model struct {
	viewport viewport.Model
	Year     int
	Month    time.Month
	Events   []models.CalendarEvent
	today    string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetMonth(year int, month time.Month, events []models.CalendarEvent, today string) {
	m.Year = year
	m.Month = month
	m.Events = events
	m.today = today
	m.Render()
}

func (m *Model) Render() {
	if m.Year == 0 {
		m.viewport.SetContent("No month selected.")
		return
	}

	kinds := map[string]models.ActivityType{}
	for _, e := range m.Events {
		if prev, ok := kinds[e.Date]; ok && prev != e.Type {
			// Repotting wins the cell colour when both fall on one day
			kinds[e.Date] = models.ActivityRepot
			continue
		}
		kinds[e.Date] = e.Type
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", m.Month, m.Year)))
	b.WriteString("\n\n")

	var header []string
	for _, d := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		header = append(header, headerStyle.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for _, week := range utils.MonthMatrix(m.Year, m.Month) {
		var cells []string
		for _, day := range week {
			label := strings.TrimPrefix(day.Date[8:], "0")
			style := dayStyle
			switch {
			case !day.InMonth:
				style = outsideStyle
			case kinds[day.Date] == models.ActivityRepot:
				style = repotStyle
			case kinds[day.Date] == models.ActivityWater:
				style = waterStyle
			}
			if day.Date == m.today {
				style = style.Inherit(todayStyle)
			}
			cells = append(cells, style.Render(label))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.Events) == 0 {
		b.WriteString("Nothing scheduled this month.")
	}
	for _, e := range m.Events {
		b.WriteString(dateStyle.Render(e.Date))
		b.WriteString(e.Label)
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}
