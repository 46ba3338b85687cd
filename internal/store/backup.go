package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

// ExportBackup serializes the full cached state as indented JSON.
func (s *Store) ExportBackup() ([]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	b := models.Backup{
		Plants:     s.Plants(),
		Activities: s.Activities(),
		Settings:   s.settings,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}
	return data, nil
}

// parsedBackup is a payload that passed validation.
type parsedBackup struct {
	plants     []models.Plant
	activities []models.ActivityInput
	settings   *models.SettingsPatch
}

// ParseBackup validates a payload without touching the store.
func ParseBackup(payload []byte) error {
	_, err := parseBackup(payload, utils.Today(time.Now()))
	return err
}

// parseBackup applies the same record checks UpsertPlant and AddActivity
// would, with today standing in for missing dates.
func parseBackup(payload []byte, today string) (parsedBackup, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return parsedBackup{}, &ValidationError{Reason: "payload must be a JSON object"}
	}

	var raw models.RawBackup
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return parsedBackup{}, &ValidationError{Reason: err.Error()}
	}

	var out parsedBackup
	if !isArray(raw.Plants) {
		return parsedBackup{}, &ValidationError{Field: "plants", Reason: "must be an array"}
	}
	if err := json.Unmarshal(raw.Plants, &out.plants); err != nil {
		return parsedBackup{}, &ValidationError{Field: "plants", Reason: err.Error()}
	}
	for i, p := range out.plants {
		if _, err := normalizePlant(p, today); err != nil {
			return parsedBackup{}, &ValidationError{Field: fmt.Sprintf("plants[%d]", i), Reason: err.Error()}
		}
	}

	if len(raw.Activities) > 0 && string(raw.Activities) != "null" {
		if !isArray(raw.Activities) {
			return parsedBackup{}, &ValidationError{Field: "activities", Reason: "must be an array"}
		}
		if err := json.Unmarshal(raw.Activities, &out.activities); err != nil {
			return parsedBackup{}, &ValidationError{Field: "activities", Reason: err.Error()}
		}
	}
	seen := make(map[string]int, len(out.activities))
	for i, a := range out.activities {
		field := fmt.Sprintf("activities[%d]", i)
		act, err := normalizeActivity(a, today)
		if err != nil {
			return parsedBackup{}, &ValidationError{Field: field, Reason: err.Error()}
		}
		if act.ID == "" {
			continue
		}
		if j, dup := seen[act.ID]; dup {
			return parsedBackup{}, &ValidationError{Field: field, Reason: fmt.Sprintf("duplicate id %q (also activities[%d])", act.ID, j)}
		}
		seen[act.ID] = i
	}

	if len(raw.Settings) > 0 && string(raw.Settings) != "null" {
		var patch models.SettingsPatch
		if err := json.Unmarshal(raw.Settings, &patch); err != nil {
			return parsedBackup{}, &ValidationError{Field: "settings", Reason: err.Error()}
		}
		if patch.Theme != nil && !patch.Theme.Valid() {
			return parsedBackup{}, &ValidationError{Field: "settings.theme", Reason: fmt.Sprintf("unknown theme %q", *patch.Theme)}
		}
		if patch.NotifyTime != nil && !utils.ValidateTimeFormat(*patch.NotifyTime) {
			return parsedBackup{}, &ValidationError{Field: "settings.notifyTime", Reason: fmt.Sprintf("%q is not HH:MM", *patch.NotifyTime)}
		}
		out.settings = &patch
	}
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ImportBackup replaces every plant and activity with the contents of
// payload and merges its settings. The payload is validated in full before
// anything is cleared, so a rejected backup leaves the store untouched.
//
// Plants are replayed through UpsertPlant and activities through
// AddActivity, keeping their ids. Replayed water and repot activities move
// their plant again, so lastWatered and lastRepot end at the last such
// activity in file order.
func (s *Store) ImportBackup(payload []byte) error {
	if err := s.ready(); err != nil {
		return err
	}
	b, err := parseBackup(payload, s.today())
	if err != nil {
		return err
	}

	if err := s.provider.ClearPlants(); err != nil {
		return err
	}
	s.plants = nil
	if err := s.provider.ClearActivities(); err != nil {
		return err
	}
	s.activities = nil

	for _, p := range b.plants {
		if _, err := s.UpsertPlant(p); err != nil {
			return fmt.Errorf("failed to import plant %s: %w", p.ID, err)
		}
	}
	for _, a := range b.activities {
		if _, err := s.AddActivity(a); err != nil {
			return fmt.Errorf("failed to import activity %s: %w", a.ID, err)
		}
	}
	if b.settings != nil {
		if _, err := s.SaveSettings(*b.settings); err != nil {
			return fmt.Errorf("failed to import settings: %w", err)
		}
	}

	s.log.Info("backup imported", "plants", len(b.plants), "activities", len(b.activities))
	return nil
}
