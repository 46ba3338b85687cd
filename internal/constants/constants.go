package constants

const (
	AppName           = "cactolog"
	Version           = "v1.0.0"
	DefaultConfigPath = "~/.config/cactolog/cactolog.db"

	// DateFormat is the ISO calendar date format used for every stored date (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the HH:MM format used for the notification time
	TimeFormat = "15:04"

	// Collection names
	CollectionPlants     = "plants"
	CollectionActivities = "activities"
	CollectionSettings   = "settings"

	// SettingsKey is the fixed key of the settings singleton
	SettingsKey = "app"

	// Secondary indexes
	IndexPlantsByName      = "by_name"
	IndexPlantsByType      = "by_type"
	IndexActivitiesByPlant = "by_plant"
	IndexActivitiesByDate  = "by_date"

	// ID prefixes
	PlantIDPrefix    = "p_"
	ActivityIDPrefix = "a_"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cactolog-backup-"
	BackupFileSuffix = ".json"
	SnapshotPrefix   = "cactolog-snapshot-"

	// LockfileName is created next to the database while a process holds it
	LockfileName = "cactolog.lock"
)
