package plantlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/scheduler"
)

type AddPlantMsg struct{}

type WaterPlantMsg struct {
	ID string
}

type DuplicatePlantMsg struct {
	ID string
}

type DeletePlantMsg struct {
	ID   string
	Name string
}

type Item struct {
	Plant models.Plant
	Today string
}

func (i Item) Title() string {
	if i.Plant.Species != "" {
		return fmt.Sprintf("%s (%s)", i.Plant.Name, i.Plant.Species)
	}
	return i.Plant.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("every %dd | next water %s", i.Plant.WaterIntervalDays, i.Plant.NextWaterDate)
	if overdue, err := scheduler.OverdueDays(i.Today, i.Plant.NextWaterDate); err == nil && overdue >= 0 {
		if overdue == 0 {
			desc += " | due today"
		} else {
			desc += fmt.Sprintf(" | %dd overdue", overdue)
		}
	}
	if i.Plant.Location != "" {
		desc += " | " + i.Plant.Location
	}
	return desc
}

func (i Item) FilterValue() string {
	return i.Plant.Name + " " + i.Plant.Species + " " + i.Plant.Location + " " + i.Plant.Tags
}

type KeyMap struct {
	Add       key.Binding
	Water     key.Binding
	Duplicate key.Binding
	Delete    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Water: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "water"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(plants []models.Plant, today string, width, height int) Model {
	l := list.New(toItems(plants, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Plants"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Water, keys.Duplicate, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Water, keys.Duplicate, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(plants []models.Plant, today string) []list.Item {
	items := make([]list.Item, len(plants))
	for i, p := range plants {
		items[i] = Item{Plant: p, Today: today}
	}
	return items
}

func (m *Model) SetPlants(plants []models.Plant, today string) {
	m.list.SetItems(toItems(plants, today))
}

// Filtering reports whether the user is typing a filter, in which case
// single-letter shortcuts belong to the filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Selected() (models.Plant, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Plant, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddPlantMsg{} }
		case key.Matches(msg, m.keys.Water):
			if p, ok := m.Selected(); ok {
				return m, func() tea.Msg { return WaterPlantMsg{ID: p.ID} }
			}
		case key.Matches(msg, m.keys.Duplicate):
			if p, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DuplicatePlantMsg{ID: p.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if p, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeletePlantMsg{ID: p.ID, Name: p.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No plants yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
