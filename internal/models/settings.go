package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Settings is the process-wide settings singleton.
type Settings struct {
	Theme            Theme  `json:"theme"`
	UseNotifications bool   `json:"useNotifications"`
	NotifyTime       string `json:"notifyTime"` // HH:MM
	Version          string `json:"version"`
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Theme            *Theme  `json:"theme,omitempty"`
	UseNotifications *bool   `json:"useNotifications,omitempty"`
	NotifyTime       *string `json:"notifyTime,omitempty"`
	Version          *string `json:"version,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.UseNotifications != nil {
		s.UseNotifications = *p.UseNotifications
	}
	if p.NotifyTime != nil {
		s.NotifyTime = *p.NotifyTime
	}
	if p.Version != nil {
		s.Version = *p.Version
	}
	return s
}
