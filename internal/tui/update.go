package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/tui/components/plantlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		// Tabs, help and margins
		m.plantList.SetSize(size.Width-4, size.Height-6)
		m.calendar.SetSize(size.Width-4, size.Height-6)
		return m, nil
	}

	switch m.state {
	case StateAddPlant:
		return m.handleAddPlantState(msg)
	case StateConfirmDelete:
		return m.handleConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case plantlist.AddPlantMsg:
		return m.startAddPlant()

	case plantlist.WaterPlantMsg:
		m.waterPlant(msg.ID)
		return m, nil

	case plantlist.DuplicatePlantMsg:
		p, err := m.store.DuplicatePlant(msg.ID)
		if err != nil {
			m.status = fmt.Sprintf("could not copy plant: %v", err)
		} else {
			m.status = fmt.Sprintf("Created %s", p.Name)
		}
		m.refresh()
		return m, nil

	case plantlist.DeletePlantMsg:
		m.plantToDeleteID = msg.ID
		m.plantToDeleteName = msg.Name
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		// Let the filter input have every key while it is open
		if m.state == StatePlants && m.plantList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.state {
		case StateDashboard:
			if key.Matches(msg, m.keys.WaterDue) {
				m.waterDue()
				return m, nil
			}
		case StateCalendar:
			switch {
			case key.Matches(msg, m.keys.PrevMonth):
				m.shiftMonth(-1)
				return m, nil
			case key.Matches(msg, m.keys.NextMonth):
				m.shiftMonth(1)
				return m, nil
			case key.Matches(msg, m.keys.ThisMonth):
				now := m.now()
				m.year, m.month = now.Year(), now.Month()
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StatePlants:
		m.plantList, cmd = m.plantList.Update(msg)
	case StateCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	}
	return m, cmd
}

func (m Model) handleConfirmDelete(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.DeletePlant(m.plantToDeleteID); err != nil {
			m.status = fmt.Sprintf("could not delete plant: %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %s", m.plantToDeleteName)
		}
		m.refresh()
		m.plantToDeleteID, m.plantToDeleteName = "", ""
		m.state = StatePlants
	case key.Matches(keyMsg, m.keys.Cancel):
		m.plantToDeleteID, m.plantToDeleteName = "", ""
		m.state = StatePlants
	}
	return m, nil
}

func (m *Model) waterPlant(id string) {
	_, err := m.store.AddActivity(models.ActivityInput{
		PlantID: id,
		Type:    models.ActivityWater,
		Date:    m.today(),
	})
	if err != nil {
		m.status = fmt.Sprintf("could not water plant: %v", err)
		return
	}
	if p, ok := m.store.Plant(id); ok {
		m.status = fmt.Sprintf("Watered %s, next watering %s", p.Name, p.NextWaterDate)
	}
	m.refresh()
}

func (m *Model) waterDue() {
	watered, err := m.store.WaterDue(m.today())
	if err != nil {
		m.status = fmt.Sprintf("watering stopped early: %v", err)
	} else if len(watered) == 0 {
		m.status = "Nothing needs water."
	} else {
		m.status = fmt.Sprintf("Watered %d plant(s)", len(watered))
	}
	m.refresh()
}
