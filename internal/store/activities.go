package store

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/scheduler"
	"github.com/julianstephens/cactolog/internal/utils"
)

// AddActivity records a care event. Water and repot events also move the
// referenced plant's schedule. An activity for an unknown plant is still
// recorded, but no plant is updated.
func (s *Store) AddActivity(in models.ActivityInput) (models.Activity, error) {
	if err := s.ready(); err != nil {
		return models.Activity{}, err
	}

	act, err := s.newActivity(in)
	if err != nil {
		return models.Activity{}, err
	}
	if err := s.provider.PutActivity(act); err != nil {
		return models.Activity{}, err
	}
	s.cacheActivity(act)

	i, ok := s.findPlant(act.PlantID)
	if !ok {
		s.log.Warn("activity recorded for unknown plant", "activity", act.ID, "plant", act.PlantID)
		return act, nil
	}

	p := s.plants[i]
	switch act.Type {
	case models.ActivityWater:
		p.LastWatered = act.Date
	case models.ActivityRepot:
		p.LastRepot = act.Date
	default:
		s.log.Debug("activity recorded", "id", act.ID, "plant", act.PlantID, "type", act.Type)
		return act, nil
	}
	p.UpdatedAt = s.now().UTC()

	p, err = scheduler.Derive(p)
	if err != nil {
		return act, fmt.Errorf("plant %s: %w", p.ID, err)
	}
	if err := s.provider.PutPlant(p); err != nil {
		return act, err
	}
	s.plants[i] = p
	s.log.Debug("activity recorded", "id", act.ID, "plant", act.PlantID, "type", act.Type, "nextWater", p.NextWaterDate)
	return act, nil
}

func (s *Store) newActivity(in models.ActivityInput) (models.Activity, error) {
	act, err := normalizeActivity(in, s.today())
	if err != nil {
		return models.Activity{}, err
	}
	if act.ID == "" {
		act.ID = s.newID(constants.ActivityIDPrefix)
	}
	return act, nil
}

// normalizeActivity trims and checks everything but the id. A missing date
// defaults to today.
func normalizeActivity(in models.ActivityInput, today string) (models.Activity, error) {
	act := models.Activity{
		ID:        strings.TrimSpace(in.ID),
		PlantID:   strings.TrimSpace(in.PlantID),
		Type:      models.ActivityType(strings.TrimSpace(string(in.Type))),
		Date:      in.Date,
		Note:      in.Note,
		PhotoData: in.PhotoData,
	}
	if act.PlantID == "" {
		return models.Activity{}, fmt.Errorf("activity requires a plant id")
	}
	if act.Type == "" {
		return models.Activity{}, fmt.Errorf("activity requires a type")
	}
	if act.Date == "" {
		act.Date = today
	}
	date, err := utils.NormalizeISODate(act.Date)
	if err != nil {
		return models.Activity{}, fmt.Errorf("activity date: %w", err)
	}
	act.Date = date
	return act, nil
}

func (s *Store) findActivity(id string) (int, bool) {
	for i := range s.activities {
		if s.activities[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// cacheActivity mirrors the provider's upsert: an existing id is replaced in
// place.
func (s *Store) cacheActivity(act models.Activity) {
	if i, ok := s.findActivity(act.ID); ok {
		s.activities[i] = act
		return
	}
	s.activities = append(s.activities, act)
}

// WaterDue records a water activity dated onDate for every plant due on that
// day, most overdue first.
func (s *Store) WaterDue(onDate string) ([]models.Activity, error) {
	due, err := s.DuePlants(onDate)
	if err != nil {
		return nil, err
	}

	recorded := make([]models.Activity, 0, len(due))
	for _, p := range due {
		act, err := s.AddActivity(models.ActivityInput{PlantID: p.ID, Type: models.ActivityWater, Date: onDate})
		if err != nil {
			return recorded, err
		}
		recorded = append(recorded, act)
	}
	return recorded, nil
}

// Activities returns every activity in insertion order.
func (s *Store) Activities() []models.Activity {
	return append([]models.Activity{}, s.activities...)
}

// ActivitiesForPlant returns the persisted activities of a plant in the order
// they were recorded.
func (s *Store) ActivitiesForPlant(plantID string) ([]models.Activity, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if plantID == "" {
		return []models.Activity{}, nil
	}
	return s.provider.GetActivitiesByIndex(constants.IndexActivitiesByPlant, plantID)
}
