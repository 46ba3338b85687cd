package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
)

const documentVersion = 1

// document is the on-disk shape. Slices keep insertion order.
type document struct {
	Version    int               `json:"version"`
	Settings   *models.Settings  `json:"settings,omitempty"`
	Plants     []models.Plant    `json:"plants"`
	Activities []models.Activity `json:"activities"`
}

func (d *document) clone() *document {
	c := &document{
		Version:    d.Version,
		Plants:     append([]models.Plant(nil), d.Plants...),
		Activities: append([]models.Activity(nil), d.Activities...),
	}
	if d.Settings != nil {
		s := *d.Settings
		c.Settings = &s
	}
	return c
}

// Store keeps every collection in a single JSON file that is rewritten
// atomically on each mutation.
type Store struct {
	path string
	doc  *document
}

func NewStore(configPath string) *Store {
	return &Store{
		path: configPath,
	}
}

// Init creates the file if it does not exist yet and loads it.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	doc := &document{
		Version:    documentVersion,
		Plants:     []models.Plant{},
		Activities: []models.Activity{},
	}
	if err := s.save(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'cactolog init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	if doc.Plants == nil {
		doc.Plants = []models.Plant{}
	}
	if doc.Activities == nil {
		doc.Activities = []models.Activity{}
	}

	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	s.doc = nil
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// save writes doc to a temp file in the same directory, syncs it and renames
// it over the store file.
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// mutate applies fn to a copy of the document and swaps it in only after the
// copy has been written.
func (s *Store) mutate(op, collection, key string, fn func(doc *document)) error {
	if s.doc == nil {
		return storage.Wrap(op, collection, key, fmt.Errorf("storage not loaded"))
	}
	next := s.doc.clone()
	fn(next)
	if err := s.save(next); err != nil {
		return storage.Wrap(op, collection, key, err)
	}
	s.doc = next
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	if s.doc == nil {
		return models.Settings{}, storage.Wrap("get", constants.CollectionSettings, constants.SettingsKey, fmt.Errorf("storage not loaded"))
	}
	if s.doc.Settings == nil {
		return models.Settings{}, fmt.Errorf("settings %s: %w", constants.SettingsKey, storage.ErrNotFound)
	}
	return *s.doc.Settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.mutate("put", constants.CollectionSettings, constants.SettingsKey, func(doc *document) {
		doc.Settings = &settings
	})
}

func (s *Store) GetPlant(id string) (models.Plant, error) {
	if s.doc == nil {
		return models.Plant{}, storage.Wrap("get", constants.CollectionPlants, id, fmt.Errorf("storage not loaded"))
	}
	for _, p := range s.doc.Plants {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plant{}, fmt.Errorf("plant %s: %w", id, storage.ErrNotFound)
}

func (s *Store) GetAllPlants() ([]models.Plant, error) {
	if s.doc == nil {
		return nil, storage.Wrap("getAll", constants.CollectionPlants, "", fmt.Errorf("storage not loaded"))
	}
	return append([]models.Plant{}, s.doc.Plants...), nil
}

func (s *Store) GetPlantsByIndex(index, value string) ([]models.Plant, error) {
	var field func(models.Plant) string
	switch index {
	case constants.IndexPlantsByName:
		field = func(p models.Plant) string { return p.Name }
	case constants.IndexPlantsByType:
		field = func(p models.Plant) string { return p.Type }
	default:
		return nil, fmt.Errorf("plants index %q: %w", index, storage.ErrUnknownIndex)
	}

	all, err := s.GetAllPlants()
	if err != nil {
		return nil, err
	}
	out := []models.Plant{}
	for _, p := range all {
		if value == "" || field(p) == value {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return field(out[i]) < field(out[j]) })
	return out, nil
}

func (s *Store) PutPlant(p models.Plant) error {
	return s.mutate("put", constants.CollectionPlants, p.ID, func(doc *document) {
		for i := range doc.Plants {
			if doc.Plants[i].ID == p.ID {
				doc.Plants[i] = p
				return
			}
		}
		doc.Plants = append(doc.Plants, p)
	})
}

func (s *Store) DeletePlant(id string) error {
	return s.mutate("delete", constants.CollectionPlants, id, func(doc *document) {
		doc.Plants = removePlant(doc.Plants, id)
	})
}

func (s *Store) ClearPlants() error {
	return s.mutate("clear", constants.CollectionPlants, "", func(doc *document) {
		doc.Plants = []models.Plant{}
	})
}

func (s *Store) GetActivity(id string) (models.Activity, error) {
	if s.doc == nil {
		return models.Activity{}, storage.Wrap("get", constants.CollectionActivities, id, fmt.Errorf("storage not loaded"))
	}
	for _, a := range s.doc.Activities {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Activity{}, fmt.Errorf("activity %s: %w", id, storage.ErrNotFound)
}

func (s *Store) GetAllActivities() ([]models.Activity, error) {
	if s.doc == nil {
		return nil, storage.Wrap("getAll", constants.CollectionActivities, "", fmt.Errorf("storage not loaded"))
	}
	return append([]models.Activity{}, s.doc.Activities...), nil
}

func (s *Store) GetActivitiesByIndex(index, value string) ([]models.Activity, error) {
	var field func(models.Activity) string
	switch index {
	case constants.IndexActivitiesByPlant:
		field = func(a models.Activity) string { return a.PlantID }
	case constants.IndexActivitiesByDate:
		field = func(a models.Activity) string { return a.Date }
	default:
		return nil, fmt.Errorf("activities index %q: %w", index, storage.ErrUnknownIndex)
	}

	all, err := s.GetAllActivities()
	if err != nil {
		return nil, err
	}
	out := []models.Activity{}
	for _, a := range all {
		if value == "" || field(a) == value {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return field(out[i]) < field(out[j]) })
	return out, nil
}

func (s *Store) PutActivity(a models.Activity) error {
	return s.mutate("put", constants.CollectionActivities, a.ID, func(doc *document) {
		for i := range doc.Activities {
			if doc.Activities[i].ID == a.ID {
				doc.Activities[i] = a
				return
			}
		}
		doc.Activities = append(doc.Activities, a)
	})
}

func (s *Store) DeleteActivity(id string) error {
	return s.mutate("delete", constants.CollectionActivities, id, func(doc *document) {
		kept := doc.Activities[:0]
		for _, a := range doc.Activities {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		doc.Activities = kept
	})
}

func (s *Store) ClearActivities() error {
	return s.mutate("clear", constants.CollectionActivities, "", func(doc *document) {
		doc.Activities = []models.Activity{}
	})
}

// DeletePlantCascade drops the plant and its activities in a single rewrite.
func (s *Store) DeletePlantCascade(id string) ([]string, error) {
	removed := []string{}
	err := s.mutate("delete", constants.CollectionPlants, id, func(doc *document) {
		doc.Plants = removePlant(doc.Plants, id)
		kept := doc.Activities[:0]
		for _, a := range doc.Activities {
			if a.PlantID == id {
				removed = append(removed, a.ID)
				continue
			}
			kept = append(kept, a)
		}
		doc.Activities = kept
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func removePlant(plants []models.Plant, id string) []models.Plant {
	kept := plants[:0]
	for _, p := range plants {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}
