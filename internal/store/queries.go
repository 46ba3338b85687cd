package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/scheduler"
	"github.com/julianstephens/cactolog/internal/utils"
)

// ListPlants filters plants by a case-insensitive search over name, species
// and tags, and by exact type, then orders them by q.Sort (name by default).
// Equal keys keep insertion order.
func (s *Store) ListPlants(q models.PlantQuery) []models.Plant {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := []models.Plant{}
	for _, p := range s.plants {
		if q.Type != "" && p.Type != q.Type {
			continue
		}
		if search != "" && !strings.Contains(haystack(p), search) {
			continue
		}
		out = append(out, p)
	}

	less := plantLess(q.Sort)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func haystack(p models.Plant) string {
	parts := make([]string, 0, 3)
	for _, f := range []string{p.Name, p.Species, p.Tags} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func plantLess(key models.PlantSort) func(a, b models.Plant) bool {
	fold := func(field func(models.Plant) string) func(a, b models.Plant) bool {
		return func(a, b models.Plant) bool {
			return strings.ToLower(field(a)) < strings.ToLower(field(b))
		}
	}
	switch key {
	case models.SortBySpecies:
		return fold(func(p models.Plant) string { return p.Species })
	case models.SortByType:
		return fold(func(p models.Plant) string { return p.Type })
	case models.SortByLocation:
		return fold(func(p models.Plant) string { return p.Location })
	case models.SortByNextWater:
		return func(a, b models.Plant) bool { return a.NextWaterDate < b.NextWaterDate }
	case models.SortByCreated:
		return func(a, b models.Plant) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case models.SortByUpdated:
		// Most recently touched first
		return func(a, b models.Plant) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	default:
		return fold(func(p models.Plant) string { return p.Name })
	}
}

// DuePlants returns the plants whose next watering is on or before onDate,
// most overdue first. An empty onDate means today.
func (s *Store) DuePlants(onDate string) ([]models.DuePlant, error) {
	if onDate == "" {
		onDate = s.today()
	}
	onDate, err := utils.NormalizeISODate(onDate)
	if err != nil {
		return nil, err
	}

	due := []models.DuePlant{}
	for _, p := range s.plants {
		overdue, err := scheduler.OverdueDays(onDate, p.NextWaterDate)
		if err != nil {
			return nil, fmt.Errorf("plant %s: %w", p.ID, err)
		}
		if overdue >= 0 {
			due = append(due, models.DuePlant{Plant: p, OverdueDays: overdue})
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].OverdueDays > due[j].OverdueDays })
	return due, nil
}

// RecentActivity returns up to limit activities, newest date first. Activities
// on the same date are ordered most recently recorded first.
func (s *Store) RecentActivity(limit int) []models.Activity {
	if limit <= 0 {
		limit = constants.DefaultRecentLimit
	}

	out := make([]models.Activity, 0, len(s.activities))
	for i := len(s.activities) - 1; i >= 0; i-- {
		out = append(out, s.activities[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CalendarEvents returns the watering and repotting due dates that fall in the
// given month, in date order.
func (s *Store) CalendarEvents(year int, month time.Month) ([]models.CalendarEvent, error) {
	events := []models.CalendarEvent{}
	for _, p := range s.plants {
		if utils.InMonth(p.NextWaterDate, year, month) {
			events = append(events, models.CalendarEvent{
				Date:    p.NextWaterDate,
				Label:   "Water · " + p.Name,
				PlantID: p.ID,
				Type:    models.ActivityWater,
			})
		}

		repot, err := scheduler.RepotDueDate(p)
		if err != nil {
			return nil, fmt.Errorf("plant %s: %w", p.ID, err)
		}
		if repot != "" && utils.InMonth(repot, year, month) {
			events = append(events, models.CalendarEvent{
				Date:    repot,
				Label:   "Repot · " + p.Name,
				PlantID: p.ID,
				Type:    models.ActivityRepot,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

// Stats returns the dashboard counters for onDate.
func (s *Store) Stats(onDate string) (models.Stats, error) {
	due, err := s.DuePlants(onDate)
	if err != nil {
		return models.Stats{}, err
	}
	st := models.Stats{Plants: len(s.plants), Due: len(due)}
	for _, d := range due {
		if d.OverdueDays > 0 {
			st.Overdue++
		}
	}
	return st, nil
}

// DueSummary returns the reminder text for onDate, or "" when nothing is due.
func (s *Store) DueSummary(onDate string) (string, error) {
	due, err := s.DuePlants(onDate)
	if err != nil {
		return "", err
	}
	if len(due) == 0 {
		return "", nil
	}
	return fmt.Sprintf("%d plant(s) need water today", len(due)), nil
}
