// Package store is the plant-care engine. It owns an in-memory mirror of the
// persisted plants, activities and settings, routes every mutation through a
// storage.Provider and computes the derived views (due list, calendar, recent
// activity).
//
// A Store is not safe for concurrent use. It assumes a single writer: callers
// must finish one operation before issuing the next, and at most one process
// may open a database at a time (see the lock package).
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/logger"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
	"github.com/julianstephens/cactolog/internal/utils"
)

// Snapshot is the cached state returned by Init.
type Snapshot struct {
	Plants     []models.Plant
	Activities []models.Activity
	Settings   models.Settings
}

// Store is the cached engine over a storage.Provider.
type Store struct {
	provider storage.Provider
	now      func() time.Time
	newID    func(prefix string) string
	log      *log.Logger

	initialized bool
	plants      []models.Plant
	activities  []models.Activity
	settings    models.Settings
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for "today" and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation. The generator receives the
// collection prefix ("p_" or "a_").
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger. The default is logger.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

// New returns an engine over provider. The provider must already be
// initialized or loaded; call Init before anything else.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		newID:    newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	return s
}

// DefaultSettings returns the settings created on first run.
func DefaultSettings() models.Settings {
	return models.Settings{
		Theme:            constants.DefaultTheme,
		UseNotifications: constants.DefaultUseNotifications,
		NotifyTime:       constants.DefaultNotifyTime,
		Version:          constants.DefaultSettingsVersion,
	}
}

// Init loads every collection into the cache, persisting default settings
// when none exist. Later calls return the cached state without re-reading.
func (s *Store) Init() (Snapshot, error) {
	if s.initialized {
		return s.snapshot(), nil
	}

	plants, err := s.provider.GetAllPlants()
	if err != nil {
		return Snapshot{}, err
	}
	activities, err := s.provider.GetAllActivities()
	if err != nil {
		return Snapshot{}, err
	}

	settings, err := s.provider.GetSettings()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		settings = DefaultSettings()
		if err := s.provider.SaveSettings(settings); err != nil {
			return Snapshot{}, err
		}
		s.log.Info("created default settings", "path", s.provider.GetConfigPath())
	case err != nil:
		return Snapshot{}, err
	}

	s.plants = plants
	s.activities = activities
	s.settings = settings
	s.initialized = true
	s.log.Debug("store initialized", "plants", len(plants), "activities", len(activities))
	return s.snapshot(), nil
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Plants:     s.Plants(),
		Activities: s.Activities(),
		Settings:   s.settings,
	}
}

func (s *Store) ready() error {
	if !s.initialized {
		return fmt.Errorf("store not initialized")
	}
	return nil
}

func (s *Store) today() string {
	return utils.Today(s.now())
}
