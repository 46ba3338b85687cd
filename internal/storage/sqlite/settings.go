package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
)

func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.ready(); err != nil {
		return models.Settings{}, storage.Wrap("get", constants.CollectionSettings, constants.SettingsKey, err)
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", constants.SettingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.Settings{}, storage.Wrap("get", constants.CollectionSettings, constants.SettingsKey, err)
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.Settings{}, storage.Wrap("get", constants.CollectionSettings, constants.SettingsKey,
			fmt.Errorf("failed to parse settings: %w", err))
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.ready(); err != nil {
		return storage.Wrap("put", constants.CollectionSettings, constants.SettingsKey, err)
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		constants.SettingsKey, string(data))
	return storage.Wrap("put", constants.CollectionSettings, constants.SettingsKey, err)
}
