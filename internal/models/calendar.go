package models

// CalendarEvent is a derived watering or repotting due date.
type CalendarEvent struct {
	Date    string       `json:"date"` // YYYY-MM-DD
	Label   string       `json:"label"`
	PlantID string       `json:"plantId"`
	Type    ActivityType `json:"type"`
}
