package constants

const (
	// Default plant values
	DefaultWaterIntervalDays   = 14
	DefaultRepotIntervalMonths = 12

	// Default settings values
	DefaultTheme            = "auto"
	DefaultUseNotifications = false
	DefaultNotifyTime       = "09:00"
	DefaultSettingsVersion  = "1.0.0"

	// Default list sizes
	DefaultRecentLimit = 10
)
