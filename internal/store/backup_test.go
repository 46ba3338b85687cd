package store

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage/jsonfile"
)

func populate(t *testing.T, s *Store) {
	t.Helper()
	aloe := mustUpsert(t, s, models.Plant{Name: "Aloe", LastWatered: "2024-01-01", WaterIntervalDays: 5, LastRepot: "2023-07-15", RepotIntervalMonths: 6})
	zz := mustUpsert(t, s, models.Plant{Name: "ZZ", Type: "foliage", LastWatered: "2024-01-02", WaterIntervalDays: 28})
	for _, in := range []models.ActivityInput{
		{PlantID: aloe.ID, Type: models.ActivityWater, Date: "2024-01-06"},
		{PlantID: zz.ID, Type: models.ActivityNote, Note: "new shoot"},
		{PlantID: aloe.ID, Type: models.ActivityWater, Date: "2024-01-11"},
	} {
		if _, err := s.AddActivity(in); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}
	if _, err := s.SaveSettings(models.SettingsPatch{Theme: themePtr(models.ThemeDark)}); err != nil {
		t.Fatal(err)
	}
}

func TestExportBackup(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	populate(t, s)

	data, err := s.ExportBackup()
	if err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(b.Plants) != 2 || b.Plants[0].Name != "Aloe" || b.Plants[0].NextWaterDate != "2024-01-16" {
		t.Errorf("plants = %+v", b.Plants)
	}
	if len(b.Activities) != 3 || b.Activities[1].Note != "new shoot" {
		t.Errorf("activities = %+v", b.Activities)
	}
	if b.Settings.Theme != models.ThemeDark || b.ExportedAt == "" {
		t.Errorf("settings = %+v exportedAt = %q", b.Settings, b.ExportedAt)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	src := setupTestStore(t, setupTestProvider(t))
	populate(t, src)
	data, err := src.ExportBackup()
	if err != nil {
		t.Fatal(err)
	}

	// Restore into the other backend
	provider := jsonfile.NewStore(filepath.Join(t.TempDir(), "cactolog.json"))
	if err := provider.Init(); err != nil {
		t.Fatal(err)
	}
	dst := setupTestStore(t, provider)
	if err := dst.ImportBackup(data); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}

	srcPlants, dstPlants := src.Plants(), dst.Plants()
	if len(dstPlants) != len(srcPlants) {
		t.Fatalf("got %d plants, want %d", len(dstPlants), len(srcPlants))
	}
	for i := range srcPlants {
		a, b := srcPlants[i], dstPlants[i]
		if a.ID != b.ID || a.Name != b.Name || a.LastWatered != b.LastWatered ||
			a.NextWaterDate != b.NextWaterDate || a.LastRepot != b.LastRepot || !a.CreatedAt.Equal(b.CreatedAt) {
			t.Errorf("plant %d: got %+v, want %+v", i, b, a)
		}
	}

	srcActs, dstActs := src.Activities(), dst.Activities()
	if len(dstActs) != len(srcActs) {
		t.Fatalf("got %d activities, want %d", len(dstActs), len(srcActs))
	}
	for i := range srcActs {
		if srcActs[i] != dstActs[i] {
			t.Errorf("activity %d: got %+v, want %+v", i, dstActs[i], srcActs[i])
		}
	}
	if dst.Settings().Theme != models.ThemeDark {
		t.Errorf("settings not merged: %+v", dst.Settings())
	}

	persisted, _ := provider.GetAllPlants()
	if len(persisted) != 2 {
		t.Errorf("persisted plants = %d, want 2", len(persisted))
	}
}

func TestImportBackupReplacesExistingData(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	populate(t, s)

	payload := `{"plants":[{"id":"p_new","name":"Bunny Ear","lastWatered":"2024-01-10","waterIntervalDays":18}]}`
	if err := s.ImportBackup([]byte(payload)); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	plants := s.Plants()
	if len(plants) != 1 || plants[0].ID != "p_new" || plants[0].NextWaterDate != "2024-01-28" {
		t.Errorf("plants = %+v", plants)
	}
	if len(s.Activities()) != 0 {
		t.Errorf("activities survived a replace: %+v", s.Activities())
	}
	if s.Settings().Theme != models.ThemeDark {
		t.Error("settings changed although the backup carried none")
	}
}

func TestImportBackupValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"not json", `plants: []`, ""},
		{"top level array", `[{"plants":[]}]`, ""},
		{"null document", `null`, ""},
		{"missing plants", `{"activities":[]}`, "plants"},
		{"plants not array", `{"plants":{"id":"p_1"}}`, "plants"},
		{"plants null", `{"plants":null}`, "plants"},
		{"plant wrong shape", `{"plants":[{"name":42}]}`, "plants"},
		{"plant bad date", `{"plants":[{"name":"Aloe","lastWatered":"soon"}]}`, "plants[0]"},
		{"plant bad repot date without lastWatered", `{"plants":[{"name":"Aloe","lastRepot":"not-a-date"}]}`, "plants[0]"},
		{"plant bad repot date", `{"plants":[{"name":"Aloe","lastWatered":"2024-01-01"},{"name":"ZZ","lastWatered":"2024-01-01","lastRepot":"2024-13-01"}]}`, "plants[1]"},
		{"activities not array", `{"plants":[],"activities":"none"}`, "activities"},
		{"activity missing type", `{"plants":[],"activities":[{"plantId":"p_1"}]}`, "activities[0]"},
		{"activity bad date", `{"plants":[],"activities":[{"plantId":"p_1","type":"water","date":"13/01/2024"}]}`, "activities[0]"},
		{"activity blank plant id", `{"plants":[],"activities":[{"plantId":"   ","type":"water"}]}`, "activities[0]"},
		{"activity blank type", `{"plants":[],"activities":[{"plantId":"p_1","type":" "}]}`, "activities[0]"},
		{"second activity invalid", `{"plants":[],"activities":[{"plantId":"p_1","type":"note"},{"plantId":"p_1"}]}`, "activities[1]"},
		{"duplicate activity ids", `{"plants":[],"activities":[{"id":"a_9","plantId":"p_1","type":"note"},{"id":"a_9","plantId":"p_1","type":"water"}]}`, "activities[1]"},
		{"duplicate activity ids after trim", `{"plants":[],"activities":[{"id":"a_9","plantId":"p_1","type":"note"},{"id":" a_9 ","plantId":"p_1","type":"note"}]}`, "activities[1]"},
		{"bad theme", `{"plants":[],"settings":{"theme":"neon"}}`, "settings.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := setupTestProvider(t)
			s := setupTestStore(t, provider)
			populate(t, s)
			plantsBefore, activitiesBefore := s.Plants(), s.Activities()

			if perr := ParseBackup([]byte(tt.payload)); !IsValidationError(perr) {
				t.Errorf("ParseBackup accepted a payload ImportBackup rejects: %v", perr)
			}
			err := s.ImportBackup([]byte(tt.payload))
			if !IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve := err.(*ValidationError); ve.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", ve.Field, tt.field, err)
			}
			if !strings.HasPrefix(err.Error(), "invalid backup") {
				t.Errorf("message = %q", err.Error())
			}

			if len(s.Plants()) != len(plantsBefore) || len(s.Activities()) != len(activitiesBefore) {
				t.Error("cache changed after a rejected import")
			}
			persistedPlants, err := provider.GetAllPlants()
			if err != nil {
				t.Fatal(err)
			}
			persistedActivities, err := provider.GetAllActivities()
			if err != nil {
				t.Fatal(err)
			}
			if len(persistedPlants) != len(plantsBefore) || len(persistedActivities) != len(activitiesBefore) {
				t.Error("storage changed after a rejected import")
			}
		})
	}
}

func TestImportBackupNormalizesRecords(t *testing.T) {
	provider := setupTestProvider(t)
	s := setupTestStore(t, provider)
	populate(t, s)

	payload := `{"plants":[{"id":"p_a","name":"  Aloe  ","waterIntervalDays":5,"lastRepot":"2023-07-15"}],
		"activities":[{"id":"a_x","plantId":" p_a ","type":" note ","note":"trimmed"}]}`
	if err := s.ImportBackup([]byte(payload)); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	p, ok := s.Plant("p_a")
	if !ok || p.Name != "Aloe" || p.LastWatered != "2024-01-20" || p.NextWaterDate != "2024-01-25" {
		t.Errorf("plant = %+v", p)
	}
	acts := s.Activities()
	if len(acts) != 1 || acts[0].PlantID != "p_a" || acts[0].Type != models.ActivityNote || acts[0].Date != "2024-01-20" {
		t.Errorf("activities = %+v", acts)
	}
	persisted, err := provider.GetAllActivities()
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != len(acts) {
		t.Errorf("cache has %d activities, storage has %d", len(acts), len(persisted))
	}
}

func TestImportBackupReplaysActivityDates(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))

	payload := `{"plants":[{"id":"p_a","name":"Aloe","lastWatered":"2024-01-15","waterIntervalDays":5}],
		"activities":[{"id":"a_1","plantId":"p_a","type":"water","date":"2024-01-10"}]}`
	if err := s.ImportBackup([]byte(payload)); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	p, _ := s.Plant("p_a")
	if p.LastWatered != "2024-01-10" || p.NextWaterDate != "2024-01-15" {
		t.Errorf("plant = %+v, want lastWatered from the replayed activity", p)
	}
}

func TestImportBackupAcceptsEmptyPlants(t *testing.T) {
	s := setupTestStore(t, setupTestProvider(t))
	populate(t, s)

	if err := s.ImportBackup([]byte(`{"plants":[],"activities":null,"exportedAt":"2024-01-01T00:00:00Z"}`)); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	if len(s.Plants()) != 0 || len(s.Activities()) != 0 {
		t.Error("expected an empty store")
	}
}
