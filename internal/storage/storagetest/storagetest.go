// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
)

// Factory returns an initialized, empty provider. The test owns closing it.
type Factory func(t *testing.T) storage.Provider

func plant(id, name, typ string) models.Plant {
	ts := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return models.Plant{
		ID:                id,
		Name:              name,
		Type:              typ,
		WaterIntervalDays: 7,
		LastWatered:       "2024-01-10",
		NextWaterDate:     "2024-01-17",
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
}

func activity(id, plantID, date string) models.Activity {
	return models.Activity{ID: id, PlantID: plantID, Type: models.ActivityWater, Date: date}
}

// Run executes the provider conformance suite.
func Run(t *testing.T, newProvider Factory) {
	t.Run("SettingsRoundTrip", func(t *testing.T) { testSettings(t, newProvider(t)) })
	t.Run("PlantCRUD", func(t *testing.T) { testPlantCRUD(t, newProvider(t)) })
	t.Run("PlantInsertionOrder", func(t *testing.T) { testPlantOrder(t, newProvider(t)) })
	t.Run("PlantIndexes", func(t *testing.T) { testPlantIndexes(t, newProvider(t)) })
	t.Run("ActivityIndexes", func(t *testing.T) { testActivityIndexes(t, newProvider(t)) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDeleteIdempotent(t, newProvider(t)) })
	t.Run("Clear", func(t *testing.T) { testClear(t, newProvider(t)) })
	t.Run("DeletePlantCascade", func(t *testing.T) { testCascade(t, newProvider(t)) })
}

func testSettings(t *testing.T, p storage.Provider) {
	defer p.Close()

	if _, err := p.GetSettings(); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for fresh settings, got %v", err)
	}

	want := models.Settings{Theme: models.ThemeDark, UseNotifications: true, NotifyTime: "07:30", Version: "1.0.0"}
	if err := p.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := p.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}

	want.Theme = models.ThemeLight
	if err := p.SaveSettings(want); err != nil {
		t.Fatalf("second SaveSettings failed: %v", err)
	}
	got, _ = p.GetSettings()
	if got.Theme != models.ThemeLight {
		t.Errorf("settings not overwritten, theme = %s", got.Theme)
	}
}

func testPlantCRUD(t *testing.T, p storage.Provider) {
	defer p.Close()

	if _, err := p.GetPlant("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	orig := plant("p1", "Golden Barrel", "cactus")
	orig.LastRepot = "2023-07-15"
	orig.RepotIntervalMonths = 6
	orig.PhotoData = "data:image/png;base64,AAAA"
	if err := p.PutPlant(orig); err != nil {
		t.Fatalf("PutPlant failed: %v", err)
	}

	got, err := p.GetPlant("p1")
	if err != nil {
		t.Fatalf("GetPlant failed: %v", err)
	}
	if got.Name != orig.Name || got.LastRepot != orig.LastRepot || got.PhotoData != orig.PhotoData ||
		got.NextWaterDate != orig.NextWaterDate || got.RepotIntervalMonths != 6 {
		t.Errorf("plant = %+v, want %+v", got, orig)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, orig.CreatedAt)
	}

	orig.Name = "Golden Barrel Cactus"
	if err := p.PutPlant(orig); err != nil {
		t.Fatalf("PutPlant (update) failed: %v", err)
	}
	all, err := p.GetAllPlants()
	if err != nil {
		t.Fatalf("GetAllPlants failed: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Golden Barrel Cactus" {
		t.Errorf("expected one updated plant, got %+v", all)
	}
}

func testPlantOrder(t *testing.T, p storage.Provider) {
	defer p.Close()

	for _, pl := range []models.Plant{
		plant("p3", "Zebra", "succulent"),
		plant("p1", "Aloe", "succulent"),
		plant("p2", "Monstera", "foliage"),
	} {
		if err := p.PutPlant(pl); err != nil {
			t.Fatalf("PutPlant failed: %v", err)
		}
	}
	// Updating must not move the record
	updated := plant("p3", "Zebra Haworthia", "succulent")
	if err := p.PutPlant(updated); err != nil {
		t.Fatalf("PutPlant failed: %v", err)
	}

	all, err := p.GetAllPlants()
	if err != nil {
		t.Fatalf("GetAllPlants failed: %v", err)
	}
	ids := make([]string, len(all))
	for i, pl := range all {
		ids[i] = pl.ID
	}
	if len(ids) != 3 || ids[0] != "p3" || ids[1] != "p1" || ids[2] != "p2" {
		t.Errorf("insertion order = %v, want [p3 p1 p2]", ids)
	}
}

func testPlantIndexes(t *testing.T, p storage.Provider) {
	defer p.Close()

	for _, pl := range []models.Plant{
		plant("p1", "Zebra", "succulent"),
		plant("p2", "Monstera", "foliage"),
		plant("p3", "Aloe", "succulent"),
	} {
		if err := p.PutPlant(pl); err != nil {
			t.Fatalf("PutPlant failed: %v", err)
		}
	}

	succulents, err := p.GetPlantsByIndex(constants.IndexPlantsByType, "succulent")
	if err != nil {
		t.Fatalf("GetPlantsByIndex failed: %v", err)
	}
	if len(succulents) != 2 || succulents[0].ID != "p1" || succulents[1].ID != "p3" {
		t.Errorf("by_type succulent = %+v", succulents)
	}

	byName, err := p.GetPlantsByIndex(constants.IndexPlantsByName, "")
	if err != nil {
		t.Fatalf("GetPlantsByIndex failed: %v", err)
	}
	if len(byName) != 3 || byName[0].Name != "Aloe" || byName[2].Name != "Zebra" {
		t.Errorf("by_name order = %+v", byName)
	}

	if _, err := p.GetPlantsByIndex("by_colour", "green"); !errors.Is(err, storage.ErrUnknownIndex) {
		t.Errorf("expected ErrUnknownIndex, got %v", err)
	}
}

func testActivityIndexes(t *testing.T, p storage.Provider) {
	defer p.Close()

	for _, a := range []models.Activity{
		activity("a1", "p1", "2024-01-12"),
		activity("a2", "p2", "2024-01-10"),
		activity("a3", "p1", "2024-01-10"),
	} {
		if err := p.PutActivity(a); err != nil {
			t.Fatalf("PutActivity failed: %v", err)
		}
	}

	got, err := p.GetActivity("a2")
	if err != nil || got.PlantID != "p2" || got.Type != models.ActivityWater {
		t.Errorf("GetActivity = %+v, %v", got, err)
	}

	forP1, err := p.GetActivitiesByIndex(constants.IndexActivitiesByPlant, "p1")
	if err != nil {
		t.Fatalf("GetActivitiesByIndex failed: %v", err)
	}
	if len(forP1) != 2 || forP1[0].ID != "a1" || forP1[1].ID != "a3" {
		t.Errorf("by_plant p1 = %+v", forP1)
	}

	byDate, err := p.GetActivitiesByIndex(constants.IndexActivitiesByDate, "")
	if err != nil {
		t.Fatalf("GetActivitiesByIndex failed: %v", err)
	}
	if len(byDate) != 3 || byDate[0].ID != "a2" || byDate[1].ID != "a3" || byDate[2].ID != "a1" {
		t.Errorf("by_date order = %+v", byDate)
	}

	onDay, err := p.GetActivitiesByIndex(constants.IndexActivitiesByDate, "2024-01-10")
	if err != nil {
		t.Fatalf("GetActivitiesByIndex failed: %v", err)
	}
	if len(onDay) != 2 {
		t.Errorf("expected 2 activities on 2024-01-10, got %d", len(onDay))
	}
}

func testDeleteIdempotent(t *testing.T, p storage.Provider) {
	defer p.Close()

	if err := p.PutPlant(plant("p1", "Aloe", "succulent")); err != nil {
		t.Fatalf("PutPlant failed: %v", err)
	}
	if err := p.DeletePlant("p1"); err != nil {
		t.Fatalf("DeletePlant failed: %v", err)
	}
	if err := p.DeletePlant("p1"); err != nil {
		t.Errorf("second DeletePlant should succeed, got %v", err)
	}
	if err := p.DeleteActivity("never-existed"); err != nil {
		t.Errorf("DeleteActivity of unknown id should succeed, got %v", err)
	}
	if _, err := p.GetPlant("p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func testClear(t *testing.T, p storage.Provider) {
	defer p.Close()

	_ = p.PutPlant(plant("p1", "Aloe", "succulent"))
	_ = p.PutPlant(plant("p2", "Monstera", "foliage"))
	_ = p.PutActivity(activity("a1", "p1", "2024-01-10"))
	_ = p.SaveSettings(models.Settings{Theme: models.ThemeAuto, NotifyTime: "09:00"})

	if err := p.ClearPlants(); err != nil {
		t.Fatalf("ClearPlants failed: %v", err)
	}
	if err := p.ClearActivities(); err != nil {
		t.Fatalf("ClearActivities failed: %v", err)
	}

	plants, _ := p.GetAllPlants()
	activities, _ := p.GetAllActivities()
	if len(plants) != 0 || len(activities) != 0 {
		t.Errorf("expected empty collections, got %d plants and %d activities", len(plants), len(activities))
	}
	if _, err := p.GetSettings(); err != nil {
		t.Errorf("clearing plants and activities must not touch settings: %v", err)
	}
}

func testCascade(t *testing.T, p storage.Provider) {
	defer p.Close()

	_ = p.PutPlant(plant("p1", "Aloe", "succulent"))
	_ = p.PutPlant(plant("p2", "Monstera", "foliage"))
	_ = p.PutActivity(activity("a1", "p1", "2024-01-10"))
	_ = p.PutActivity(activity("a2", "p2", "2024-01-10"))
	_ = p.PutActivity(activity("a3", "p1", "2024-01-11"))

	removed, err := p.DeletePlantCascade("p1")
	if err != nil {
		t.Fatalf("DeletePlantCascade failed: %v", err)
	}
	if len(removed) != 2 || removed[0] != "a1" || removed[1] != "a3" {
		t.Errorf("removed = %v, want [a1 a3]", removed)
	}

	if _, err := p.GetPlant("p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected plant to be gone, got %v", err)
	}
	remaining, _ := p.GetAllActivities()
	if len(remaining) != 1 || remaining[0].ID != "a2" {
		t.Errorf("remaining activities = %+v, want only a2", remaining)
	}

	removed, err = p.DeletePlantCascade("p1")
	if err != nil || len(removed) != 0 {
		t.Errorf("cascade of unknown plant = %v, %v; want no-op", removed, err)
	}
}
