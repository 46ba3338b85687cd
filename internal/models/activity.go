package models

// ActivityType is the kind of care event. Water and repot update the plant; others are log-only.
type ActivityType string

const (
	ActivityWater     ActivityType = "water"
	ActivityRepot     ActivityType = "repot"
	ActivityFertilize ActivityType = "fertilize"
	ActivityPrune     ActivityType = "prune"
	ActivityNote      ActivityType = "note"
)

// Activity is an immutable care log entry.
type Activity struct {
	ID        string       `json:"id"`
	PlantID   string       `json:"plantId"`
	Type      ActivityType `json:"type"`
	Date      string       `json:"date"` // YYYY-MM-DD
	Note      string       `json:"note"`
	PhotoData string       `json:"photoData,omitempty"`
}

// ActivityInput is the request to record an activity. Date and Note are optional.
// ID is only honoured when replaying a backup.
type ActivityInput struct {
	ID        string       `json:"id,omitempty"`
	PlantID   string       `json:"plantId"`
	Type      ActivityType `json:"type"`
	Date      string       `json:"date,omitempty"`
	Note      string       `json:"note,omitempty"`
	PhotoData string       `json:"photoData,omitempty"`
}
