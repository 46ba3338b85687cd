package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/store"
	"github.com/julianstephens/cactolog/internal/tui/components/calendar"
	"github.com/julianstephens/cactolog/internal/tui/components/plantlist"
	"github.com/julianstephens/cactolog/internal/utils"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StatePlants
	StateCalendar
	StateAddPlant
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

// recentLimit caps the activity feed on the dashboard.
const recentLimit = 5

type PlantFormModel struct {
	Name        string
	Species     string
	Type        string
	Location    string
	Interval    string
	LastWatered string
}

type Model struct {
	store *store.Store
	now   func() time.Time

	state     SessionState
	keys      KeyMap
	help      help.Model
	plantList plantlist.Model
	calendar  calendar.Model
	form      *huh.Form
	plantForm *PlantFormModel

	year  int
	month time.Month

	plantToDeleteID   string
	plantToDeleteName string
	status            string
	quitting          bool
	width             int
	height            int
}

// NewModel builds the interface over an initialized store.
func NewModel(st *store.Store, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	today := now()
	m := Model{
		store:     st,
		now:       now,
		state:     StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		plantList: plantlist.New(nil, utils.Today(today), 0, 0),
		calendar:  calendar.New(0, 0),
		year:      today.Year(),
		month:     today.Month(),
	}
	m.refresh()
	return m
}

func (m Model) today() string {
	return utils.Today(m.now())
}

// refresh reloads every view from the engine cache.
func (m *Model) refresh() {
	today := m.today()
	m.plantList.SetPlants(m.store.ListPlants(models.PlantQuery{Sort: models.SortByNextWater}), today)

	events, err := m.store.CalendarEvents(m.year, m.month)
	if err != nil {
		m.status = fmt.Sprintf("calendar unavailable: %v", err)
	}
	m.calendar.SetMonth(m.year, m.month, events, today)
}

func (m *Model) shiftMonth(delta int) {
	first := time.Date(m.year, m.month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.year, m.month = first.Year(), first.Month()
	m.refresh()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.WaterDue)
	case StatePlants:
		pk := plantlist.DefaultKeyMap()
		keys = append(keys, pk.Add, pk.Water, pk.Duplicate, pk.Delete)
	case StateCalendar:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth, m.keys.ThisMonth)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		actions = []key.Binding{m.keys.WaterDue}
	case StatePlants:
		pk := plantlist.DefaultKeyMap()
		actions = []key.Binding{pk.Add, pk.Water, pk.Duplicate, pk.Delete}
	case StateCalendar:
		actions = []key.Binding{m.keys.PrevMonth, m.keys.NextMonth, m.keys.ThisMonth}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
