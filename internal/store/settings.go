package store

import (
	"fmt"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

// Settings returns the cached settings record.
func (s *Store) Settings() models.Settings {
	return s.settings
}

// SaveSettings merges patch into the current settings and persists the result.
func (s *Store) SaveSettings(patch models.SettingsPatch) (models.Settings, error) {
	if err := s.ready(); err != nil {
		return models.Settings{}, err
	}

	next := patch.Apply(s.settings)
	if err := validateSettings(next); err != nil {
		return s.settings, err
	}
	if err := s.provider.SaveSettings(next); err != nil {
		return s.settings, err
	}
	s.settings = next
	s.log.Debug("settings saved", "theme", next.Theme, "notifications", next.UseNotifications, "notifyTime", next.NotifyTime)
	return next, nil
}

func validateSettings(st models.Settings) error {
	if !st.Theme.Valid() {
		return fmt.Errorf("%w: theme %q must be light, dark or auto", ErrInvalidSettings, st.Theme)
	}
	if !utils.ValidateTimeFormat(st.NotifyTime) {
		return fmt.Errorf("%w: notify time %q must be HH:MM", ErrInvalidSettings, st.NotifyTime)
	}
	return nil
}
