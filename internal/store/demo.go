package store

import "github.com/julianstephens/cactolog/internal/models"

func demoPlants() []models.Plant {
	return []models.Plant{
		{Name: "Golden Barrel", Species: "Echinocactus grusonii", Type: "cactus", Location: "South window",
			WaterIntervalDays: 21, RepotIntervalMonths: 12, Tags: "cactus,spines", Notes: "Likes lots of light."},
		{Name: "Bunny Ear", Species: "Opuntia microdasys", Type: "cactus", Location: "West window",
			WaterIntervalDays: 18, RepotIntervalMonths: 18, Tags: "pads"},
		{Name: "ZZ Plant", Species: "Zamioculcas zamiifolia", Type: "foliage", Location: "Office",
			WaterIntervalDays: 28, RepotIntervalMonths: 24, Tags: "low-light"},
	}
}

// SeedDemo adds a few example plants, watered today, when the store has none.
// It reports whether anything was added.
func (s *Store) SeedDemo() (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if len(s.plants) > 0 {
		return false, nil
	}
	for _, p := range demoPlants() {
		if _, err := s.UpsertPlant(p); err != nil {
			return false, err
		}
	}
	return true, nil
}
