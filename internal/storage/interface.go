package storage

import "github.com/julianstephens/cactolog/internal/models"

// Provider is the durable store behind the engine. Every method is durable
// on success. Reads of an absent key return ErrNotFound; I/O faults are
// reported as *StorageError.
//
// Providers are not safe for concurrent use by multiple goroutines, and
// running several processes against the same path is guarded by the lock
// package rather than by the provider itself.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings (singleton stored under constants.SettingsKey)
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Plants
	GetPlant(id string) (models.Plant, error)
	GetAllPlants() ([]models.Plant, error)
	// GetPlantsByIndex returns the plants whose indexed field equals value,
	// ordered by that field and then insertion order. An empty value returns
	// every plant in index order.
	GetPlantsByIndex(index, value string) ([]models.Plant, error)
	PutPlant(models.Plant) error
	DeletePlant(id string) error
	ClearPlants() error

	// Activities
	GetActivity(id string) (models.Activity, error)
	GetAllActivities() ([]models.Activity, error)
	GetActivitiesByIndex(index, value string) ([]models.Activity, error)
	PutActivity(models.Activity) error
	DeleteActivity(id string) error
	ClearActivities() error

	// DeletePlantCascade removes a plant and every activity that references it
	// in a single transaction. It returns the ids of the removed activities.
	DeletePlantCascade(id string) ([]string, error)

	// Utils
	GetConfigPath() string
}
