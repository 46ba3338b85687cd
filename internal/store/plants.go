package store

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/scheduler"
)

// UpsertPlant creates or replaces a plant. A plant without an id is new: it
// gets a generated id and a creation stamp. Missing lastWatered defaults to
// today, and NextWaterDate is always recomputed.
func (s *Store) UpsertPlant(in models.Plant) (models.Plant, error) {
	if err := s.ready(); err != nil {
		return models.Plant{}, err
	}

	now := s.now().UTC()
	p := in
	if p.ID == "" {
		p.ID = s.newID(constants.PlantIDPrefix)
		p.CreatedAt = now
	} else if p.CreatedAt.IsZero() {
		if existing, ok := s.findPlant(p.ID); ok {
			p.CreatedAt = s.plants[existing].CreatedAt
		} else {
			p.CreatedAt = now
		}
	}
	p.UpdatedAt = now

	p, err := normalizePlant(p, s.today())
	if err != nil {
		return models.Plant{}, fmt.Errorf("plant %s: %w", p.ID, err)
	}

	if err := s.provider.PutPlant(p); err != nil {
		return models.Plant{}, err
	}
	s.cachePlant(p)
	s.log.Debug("plant saved", "id", p.ID, "name", p.Name, "nextWater", p.NextWaterDate)
	return p, nil
}

// normalizePlant trims the name, defaults lastWatered to today and derives
// the schedule. Backup validation runs the same checks before anything is
// cleared.
func normalizePlant(p models.Plant, today string) (models.Plant, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.LastWatered == "" {
		p.LastWatered = today
	}
	return scheduler.Derive(p)
}

// DeletePlant removes a plant and every activity recorded against it.
// Deleting an unknown id succeeds.
func (s *Store) DeletePlant(id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	removed, err := s.provider.DeletePlantCascade(id)
	if err != nil {
		return err
	}

	plants := s.plants[:0]
	for _, p := range s.plants {
		if p.ID != id {
			plants = append(plants, p)
		}
	}
	s.plants = plants

	activities := s.activities[:0]
	for _, a := range s.activities {
		if a.PlantID != id {
			activities = append(activities, a)
		}
	}
	s.activities = activities

	s.log.Debug("plant deleted", "id", id, "activities", len(removed))
	return nil
}

// DuplicatePlant saves a copy of a plant under a new id.
func (s *Store) DuplicatePlant(id string) (models.Plant, error) {
	if err := s.ready(); err != nil {
		return models.Plant{}, err
	}
	src, ok := s.Plant(id)
	if !ok {
		return models.Plant{}, fmt.Errorf("plant %s not found", id)
	}

	dup := src
	dup.ID = ""
	dup.Name = src.Name + " copy"
	return s.UpsertPlant(dup)
}

// Plant returns the cached plant with the given id.
func (s *Store) Plant(id string) (models.Plant, bool) {
	i, ok := s.findPlant(id)
	if !ok {
		return models.Plant{}, false
	}
	return s.plants[i], true
}

// Plants returns every plant in insertion order.
func (s *Store) Plants() []models.Plant {
	return append([]models.Plant{}, s.plants...)
}

func (s *Store) findPlant(id string) (int, bool) {
	for i := range s.plants {
		if s.plants[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) cachePlant(p models.Plant) {
	if i, ok := s.findPlant(p.ID); ok {
		s.plants[i] = p
		return
	}
	s.plants = append(s.plants, p)
}
