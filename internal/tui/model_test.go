package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage/sqlite"
	"github.com/julianstephens/cactolog/internal/store"
	"github.com/julianstephens/cactolog/internal/tui/components/plantlist"
)

var fixedNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func setupTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	provider := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to initialize provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })

	st := store.New(provider, store.WithClock(clock))
	if _, err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return NewModel(st, clock), st
}

func addPlant(t *testing.T, st *store.Store, name, lastWatered string, interval int) models.Plant {
	t.Helper()
	p, err := st.UpsertPlant(models.Plant{Name: name, LastWatered: lastWatered, WaterIntervalDays: interval})
	if err != nil {
		t.Fatalf("UpsertPlant failed: %v", err)
	}
	return p
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return updated
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabCyclesThroughViews(t *testing.T) {
	m, _ := setupTestModel(t)

	want := []SessionState{StatePlants, StateCalendar, StateDashboard}
	for _, w := range want {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != w {
			t.Fatalf("state = %v, want %v", m.state, w)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateCalendar {
		t.Errorf("shift+tab state = %v, want %v", m.state, StateCalendar)
	}
}

func TestWaterPlantMessage(t *testing.T) {
	m, st := setupTestModel(t)
	p := addPlant(t, st, "Golden Barrel", "2024-01-01", 7)

	m = update(t, m, plantlist.WaterPlantMsg{ID: p.ID})

	got, _ := st.Plant(p.ID)
	if got.LastWatered != "2024-01-20" {
		t.Errorf("LastWatered = %s, want 2024-01-20", got.LastWatered)
	}
	if got.NextWaterDate != "2024-01-27" {
		t.Errorf("NextWaterDate = %s, want 2024-01-27", got.NextWaterDate)
	}
	if m.status == "" {
		t.Error("expected a status message after watering")
	}
}

func TestWaterDueFromDashboard(t *testing.T) {
	m, st := setupTestModel(t)
	addPlant(t, st, "Thirsty", "2024-01-01", 7)
	addPlant(t, st, "Fine", "2024-01-19", 14)

	m = update(t, m, runeKey('W'))

	due, err := st.DuePlants("2024-01-20")
	if err != nil {
		t.Fatalf("DuePlants failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no plants due after watering, got %d", len(due))
	}
	if len(st.Activities()) != 1 {
		t.Errorf("expected 1 activity, got %d", len(st.Activities()))
	}
	if m.status != "Watered 1 plant(s)" {
		t.Errorf("status = %q", m.status)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, st := setupTestModel(t)
	p := addPlant(t, st, "Bunny Ear", "2024-01-10", 18)
	m.state = StatePlants

	m = update(t, m, plantlist.DeletePlantMsg{ID: p.ID, Name: p.Name})
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want StateConfirmDelete", m.state)
	}

	m = update(t, m, runeKey('n'))
	if m.state != StatePlants {
		t.Fatalf("state after cancel = %v, want StatePlants", m.state)
	}
	if _, ok := st.Plant(p.ID); !ok {
		t.Fatal("plant deleted despite cancel")
	}

	m = update(t, m, plantlist.DeletePlantMsg{ID: p.ID, Name: p.Name})
	m = update(t, m, runeKey('y'))
	if _, ok := st.Plant(p.ID); ok {
		t.Error("plant still present after confirming delete")
	}
	if m.state != StatePlants {
		t.Errorf("state after delete = %v, want StatePlants", m.state)
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _ := setupTestModel(t)
	m.state = StateCalendar

	m = update(t, m, runeKey('['))
	if m.year != 2023 || m.month != time.December {
		t.Errorf("after prev: %d-%v, want 2023-December", m.year, m.month)
	}

	m = update(t, m, runeKey(']'))
	m = update(t, m, runeKey(']'))
	if m.year != 2024 || m.month != time.February {
		t.Errorf("after next twice: %d-%v, want 2024-February", m.year, m.month)
	}

	m = update(t, m, runeKey('t'))
	if m.year != 2024 || m.month != time.January {
		t.Errorf("after this-month: %d-%v, want 2024-January", m.year, m.month)
	}
}

func TestAddPlantOpensForm(t *testing.T) {
	m, _ := setupTestModel(t)
	m.state = StatePlants

	m = update(t, m, plantlist.AddPlantMsg{})
	if m.state != StateAddPlant {
		t.Fatalf("state = %v, want StateAddPlant", m.state)
	}
	if m.plantForm.LastWatered != "2024-01-20" || m.plantForm.Interval != "14" {
		t.Errorf("form defaults = %+v", *m.plantForm)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StatePlants {
		t.Errorf("state after esc = %v, want StatePlants", m.state)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if !next.(Model).quitting {
		t.Error("model not marked as quitting")
	}
	if next.View() != "" {
		t.Error("expected empty view after quit")
	}
}
