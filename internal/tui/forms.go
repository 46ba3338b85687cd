package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

func newPlantForm(fm *PlantFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Species").
				Value(&fm.Species),
			huh.NewInput().
				Title("Type").
				Description("e.g. cactus, succulent, tropical").
				Value(&fm.Type),
			huh.NewInput().
				Title("Location").
				Value(&fm.Location),
			huh.NewInput().
				Title("Water every (days)").
				Value(&fm.Interval).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("interval must be a whole number of days")
					}
					if i <= 0 {
						return fmt.Errorf("interval must be a positive number of days")
					}
					return nil
				}),
			huh.NewInput().
				Title("Last watered").
				Description("YYYY-MM-DD").
				Value(&fm.LastWatered).
				Validate(func(s string) error {
					if _, err := utils.NormalizeISODate(s); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func (m Model) startAddPlant() (Model, tea.Cmd) {
	m.plantForm = &PlantFormModel{
		Interval:    strconv.Itoa(constants.DefaultWaterIntervalDays),
		LastWatered: m.today(),
	}
	m.form = newPlantForm(m.plantForm)
	m.state = StateAddPlant
	return m, m.form.Init()
}

func (m Model) handleAddPlantState(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StatePlants
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		interval, _ := strconv.Atoi(strings.TrimSpace(m.plantForm.Interval))
		p, err := m.store.UpsertPlant(models.Plant{
			Name:              m.plantForm.Name,
			Species:           m.plantForm.Species,
			Type:              m.plantForm.Type,
			Location:          m.plantForm.Location,
			WaterIntervalDays: interval,
			LastWatered:       m.plantForm.LastWatered,
		})
		if err != nil {
			// Stay in the form so the user can retry or cancel with ESC
			m.status = fmt.Sprintf("could not save plant: %v", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.status = fmt.Sprintf("Added %s, next watering %s", p.Name, p.NextWaterDate)
		m.state = StatePlants
		m.refresh()
	case huh.StateAborted:
		m.state = StatePlants
	}
	return m, cmd
}
