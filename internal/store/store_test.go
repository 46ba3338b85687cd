package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
	"github.com/julianstephens/cactolog/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)

// sequentialIDs returns deterministic ids: p_1, p_2, a_1, ...
func sequentialIDs() func(prefix string) string {
	counts := map[string]int{}
	return func(prefix string) string {
		counts[prefix]++
		return fmt.Sprintf("%s%d", prefix, counts[prefix])
	}
}

func setupTestProvider(t *testing.T) *sqlite.Store {
	t.Helper()
	provider := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to initialize provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func setupTestStore(t *testing.T, provider storage.Provider) *Store {
	t.Helper()
	s := New(provider, WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs()))
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func mustUpsert(t *testing.T, s *Store, p models.Plant) models.Plant {
	t.Helper()
	saved, err := s.UpsertPlant(p)
	if err != nil {
		t.Fatalf("UpsertPlant(%s) failed: %v", p.Name, err)
	}
	return saved
}

func TestInitCreatesDefaultSettings(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)

	if got := s.Settings(); got != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
	persisted, err := provider.GetSettings()
	if err != nil {
		t.Fatalf("default settings not persisted: %v", err)
	}
	if persisted.NotifyTime != "09:00" || persisted.Theme != models.ThemeAuto || persisted.Version != "1.0.0" {
		t.Errorf("persisted settings = %+v", persisted)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)
	mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10"})

	// A write behind the engine's back must not show up on a second Init
	if err := provider.PutPlant(models.Plant{ID: "x", Name: "Ghost", LastWatered: "2024-01-01", NextWaterDate: "2024-01-15"}); err != nil {
		t.Fatal(err)
	}
	snap, err := s.Init()
	if err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if len(snap.Plants) != 1 || snap.Plants[0].Name != "Aloe" {
		t.Errorf("second Init re-read storage: %+v", snap.Plants)
	}
}

func TestInitLoadsExistingState(t *testing.T) {
	provider := setupTestProvider(t)
	first := setupTestStore(t, provider)
	mustUpsert(t, first, models.Plant{Name: "Aloe", LastWatered: "2024-01-10"})
	if _, err := first.SaveSettings(models.SettingsPatch{Theme: themePtr(models.ThemeDark)}); err != nil {
		t.Fatal(err)
	}

	second := New(provider)
	snap, err := second.Init()
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if len(snap.Plants) != 1 || snap.Settings.Theme != models.ThemeDark {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestOperationsRequireInit(t *testing.T) {
	s := New(setupTestProvider(t))
	if _, err := s.UpsertPlant(models.Plant{Name: "Aloe"}); err == nil {
		t.Error("expected UpsertPlant to fail before Init")
	}
	if _, err := s.AddActivity(models.ActivityInput{PlantID: "p_1", Type: models.ActivityWater}); err == nil {
		t.Error("expected AddActivity to fail before Init")
	}
}

func TestUpsertPlant(t *testing.T) {
	tests := []struct {
		name         string
		in           models.Plant
		wantLast     string
		wantInterval int
		wantNext     string
	}{
		{"explicit values", models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 5}, "2024-01-10", 5, "2024-01-15"},
		{"default interval", models.Plant{Name: "Aloe", LastWatered: "2024-01-10"}, "2024-01-10", 14, "2024-01-24"},
		{"negative interval", models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: -3}, "2024-01-10", 14, "2024-01-24"},
		{"default last watered", models.Plant{Name: "Aloe", WaterIntervalDays: 7}, "2024-01-20", 7, "2024-01-27"},
		{"month boundary", models.Plant{Name: "Aloe", LastWatered: "2024-01-28", WaterIntervalDays: 5}, "2024-01-28", 5, "2024-02-02"},
		{"leap day", models.Plant{Name: "Aloe", LastWatered: "2024-02-27", WaterIntervalDays: 2}, "2024-02-27", 2, "2024-02-29"},
		{"timestamp input", models.Plant{Name: "Aloe", LastWatered: "2024-01-10T08:30:00Z", WaterIntervalDays: 1}, "2024-01-10", 1, "2024-01-11"},
		{"caller next date ignored", models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 5, NextWaterDate: "2030-01-01"}, "2024-01-10", 5, "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t, setupTestProvider(t))
			got := mustUpsert(t, s, tt.in)

			if got.LastWatered != tt.wantLast || got.WaterIntervalDays != tt.wantInterval || got.NextWaterDate != tt.wantNext {
				t.Errorf("got last=%s interval=%d next=%s, want %s %d %s",
					got.LastWatered, got.WaterIntervalDays, got.NextWaterDate, tt.wantLast, tt.wantInterval, tt.wantNext)
			}
			if got.ID != "p_1" {
				t.Errorf("ID = %q, want p_1", got.ID)
			}
			if !got.CreatedAt.Equal(fixedNow) || !got.UpdatedAt.Equal(fixedNow) {
				t.Errorf("timestamps = %v / %v, want %v", got.CreatedAt, got.UpdatedAt, fixedNow)
			}
		})
	}
}

func TestUpsertPlantUpdateKeepsIdentity(t *testing.T) {
	provider := setupTestProvider(t)
	clock := fixedNow
	s := New(provider, WithClock(func() time.Time { return clock }), WithIDGenerator(sequentialIDs()))
	if _, err := s.Init(); err != nil {
		t.Fatal(err)
	}

	created := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 7})
	mustUpsert(t, s, models.Plant{Name: "Monstera", LastWatered: "2024-01-10"})

	clock = fixedNow.Add(time.Hour)
	edit := created
	edit.CreatedAt = time.Time{}
	edit.WaterIntervalDays = 10
	updated := mustUpsert(t, s, edit)

	if updated.ID != created.ID {
		t.Errorf("id changed: %s -> %s", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(clock) {
		t.Errorf("updatedAt = %v, want %v", updated.UpdatedAt, clock)
	}
	if updated.NextWaterDate != "2024-01-20" {
		t.Errorf("nextWaterDate = %s, want 2024-01-20", updated.NextWaterDate)
	}

	plants := s.Plants()
	if len(plants) != 2 || plants[0].ID != created.ID || plants[0].WaterIntervalDays != 10 {
		t.Errorf("cache not updated in place: %+v", plants)
	}
	persisted, err := provider.GetPlant(created.ID)
	if err != nil || persisted.NextWaterDate != "2024-01-20" {
		t.Errorf("persisted plant = %+v, %v", persisted, err)
	}
}

func TestUpsertPlantRejectsBadDate(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	if _, err := s.UpsertPlant(models.Plant{Name: "Aloe", LastWatered: "yesterday"}); err == nil {
		t.Fatal("expected an error for an unparseable date")
	}
	if len(s.Plants()) != 0 {
		t.Error("rejected plant was cached")
	}
}

func TestWateringScenario(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	p := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 5})
	if p.NextWaterDate != "2024-01-15" {
		t.Fatalf("nextWaterDate = %s, want 2024-01-15", p.NextWaterDate)
	}

	due, err := s.DuePlants("2024-01-20")
	if err != nil {
		t.Fatalf("DuePlants failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != p.ID || due[0].OverdueDays != 5 {
		t.Fatalf("due = %+v, want Aloe overdue by 5", due)
	}

	if _, err := s.AddActivity(models.ActivityInput{PlantID: p.ID, Type: models.ActivityWater, Date: "2024-01-20"}); err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	watered, _ := s.Plant(p.ID)
	if watered.LastWatered != "2024-01-20" || watered.NextWaterDate != "2024-01-25" {
		t.Errorf("after watering: last=%s next=%s", watered.LastWatered, watered.NextWaterDate)
	}

	due, _ = s.DuePlants("2024-01-20")
	if len(due) != 0 {
		t.Errorf("plant still due after watering: %+v", due)
	}
}

func TestDeletePlantCascades(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)
	aloe := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10"})
	zz := mustUpsert(t, s, models.Plant{Name: "ZZ", LastWatered: "2024-01-10"})

	for _, in := range []models.ActivityInput{
		{PlantID: aloe.ID, Type: models.ActivityWater, Date: "2024-01-12"},
		{PlantID: zz.ID, Type: models.ActivityNote, Note: "new leaf"},
		{PlantID: aloe.ID, Type: models.ActivityFertilize},
	} {
		if _, err := s.AddActivity(in); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}

	if err := s.DeletePlant(aloe.ID); err != nil {
		t.Fatalf("DeletePlant failed: %v", err)
	}

	if _, ok := s.Plant(aloe.ID); ok {
		t.Error("plant still cached")
	}
	if _, err := provider.GetPlant(aloe.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("plant still persisted: %v", err)
	}
	for _, a := range s.Activities() {
		if a.PlantID == aloe.ID {
			t.Errorf("activity %s still cached", a.ID)
		}
	}
	persisted, _ := provider.GetAllActivities()
	if len(persisted) != 1 || persisted[0].PlantID != zz.ID {
		t.Errorf("persisted activities = %+v", persisted)
	}
	forAloe, err := s.ActivitiesForPlant(aloe.ID)
	if err != nil || len(forAloe) != 0 {
		t.Errorf("ActivitiesForPlant after delete = %+v, %v", forAloe, err)
	}

	if err := s.DeletePlant("p_unknown"); err != nil {
		t.Errorf("deleting an unknown plant should succeed, got %v", err)
	}
}

func TestAddActivity(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	p := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 7, RepotIntervalMonths: 12})

	act, err := s.AddActivity(models.ActivityInput{PlantID: p.ID, Type: models.ActivityRepot})
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	if act.ID != "a_1" || act.Date != "2024-01-20" || act.Note != "" {
		t.Errorf("activity = %+v, want id a_1 dated today with empty note", act)
	}
	repotted, _ := s.Plant(p.ID)
	if repotted.LastRepot != "2024-01-20" || repotted.LastWatered != "2024-01-10" {
		t.Errorf("after repot: %+v", repotted)
	}

	before, _ := s.Plant(p.ID)
	if _, err := s.AddActivity(models.ActivityInput{PlantID: p.ID, Type: models.ActivityNote, Note: "spines look healthy"}); err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	after, _ := s.Plant(p.ID)
	if after != before {
		t.Errorf("note activity changed the plant: %+v -> %+v", before, after)
	}

	if _, err := s.AddActivity(models.ActivityInput{PlantID: p.ID, Type: models.ActivityWater, Date: "not-a-date"}); err == nil {
		t.Error("expected an error for an invalid date")
	}
	if _, err := s.AddActivity(models.ActivityInput{Type: models.ActivityWater}); err == nil {
		t.Error("expected an error for a missing plant id")
	}
	if len(s.Activities()) != 2 {
		t.Errorf("rejected activities were cached: %+v", s.Activities())
	}
}

func TestAddActivityForUnknownPlant(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	act, err := s.AddActivity(models.ActivityInput{PlantID: "p_missing", Type: models.ActivityWater, Date: "2024-01-15"})
	if err != nil {
		t.Fatalf("orphan activity should be accepted, got %v", err)
	}
	if acts := s.Activities(); len(acts) != 1 || acts[0].ID != act.ID {
		t.Errorf("activities = %+v", acts)
	}
	if len(s.Plants()) != 0 {
		t.Error("a plant was created for an orphan activity")
	}
}

func TestAddActivityReusedIDReplacesEntry(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)
	p := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-10", WaterIntervalDays: 7})

	for _, in := range []models.ActivityInput{
		{ID: "a_fixed", PlantID: p.ID, Type: models.ActivityNote, Note: "first"},
		{ID: "a_fixed", PlantID: p.ID, Type: models.ActivityNote, Note: "second"},
	} {
		if _, err := s.AddActivity(in); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}

	cached := s.Activities()
	if len(cached) != 1 || cached[0].Note != "second" {
		t.Errorf("cached activities = %+v, want the single replaced entry", cached)
	}
	persisted, err := provider.GetAllActivities()
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != len(cached) {
		t.Errorf("cache has %d activities, storage has %d", len(cached), len(persisted))
	}
}

func TestSaveSettings(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)

	on := true
	got, err := s.SaveSettings(models.SettingsPatch{UseNotifications: &on, NotifyTime: strPtr("07:45")})
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if !got.UseNotifications || got.NotifyTime != "07:45" || got.Theme != models.ThemeAuto {
		t.Errorf("settings = %+v", got)
	}
	persisted, _ := provider.GetSettings()
	if persisted != got {
		t.Errorf("persisted = %+v, want %+v", persisted, got)
	}

	invalid := []models.SettingsPatch{
		{Theme: themePtr("sepia")},
		{NotifyTime: strPtr("25:00")},
		{NotifyTime: strPtr("morning")},
	}
	for _, patch := range invalid {
		if _, err := s.SaveSettings(patch); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("SaveSettings(%+v) error = %v, want ErrInvalidSettings", patch, err)
		}
	}
	if s.Settings() != got {
		t.Errorf("rejected patch changed settings: %+v", s.Settings())
	}
}

func TestDuplicatePlant(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	src := mustUpsert(t, s, models.Plant{Name: "Aloe", Species: "Aloe vera", LastWatered: "2024-01-10", WaterIntervalDays: 9, Tags: "medicinal"})

	dup, err := s.DuplicatePlant(src.ID)
	if err != nil {
		t.Fatalf("DuplicatePlant failed: %v", err)
	}
	if dup.ID == src.ID || dup.Name != "Aloe copy" || dup.Species != "Aloe vera" || dup.NextWaterDate != src.NextWaterDate {
		t.Errorf("duplicate = %+v", dup)
	}
	if len(s.Plants()) != 2 {
		t.Errorf("expected 2 plants, got %d", len(s.Plants()))
	}
	if _, err := s.DuplicatePlant("p_missing"); err == nil {
		t.Error("expected an error duplicating an unknown plant")
	}
}

func TestSeedDemo(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))

	seeded, err := s.SeedDemo()
	if err != nil || !seeded {
		t.Fatalf("SeedDemo = %v, %v", seeded, err)
	}
	plants := s.Plants()
	if len(plants) != 3 || plants[0].Name != "Golden Barrel" || plants[0].NextWaterDate != "2024-02-10" {
		t.Errorf("seeded plants = %+v", plants)
	}

	seeded, err = s.SeedDemo()
	if err != nil || seeded {
		t.Errorf("second SeedDemo = %v, %v; want no-op", seeded, err)
	}
}

func themePtr(t models.Theme) *models.Theme { return &t }

func strPtr(s string) *string { return &s }
