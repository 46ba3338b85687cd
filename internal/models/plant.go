package models

import "time"

// Plant is a tracked specimen. NextWaterDate is derived and never set by callers.
type Plant struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Species             string    `json:"species"`
	Type                string    `json:"type"`
	Location            string    `json:"location"`
	WaterIntervalDays   int       `json:"waterIntervalDays"`
	LastWatered         string    `json:"lastWatered"`   // YYYY-MM-DD
	NextWaterDate       string    `json:"nextWaterDate"` // YYYY-MM-DD, derived
	RepotIntervalMonths int       `json:"repotIntervalMonths"`
	LastRepot           string    `json:"lastRepot,omitempty"` // YYYY-MM-DD
	Tags                string    `json:"tags"`
	Notes               string    `json:"notes"`
	PhotoData           string    `json:"photoData,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// DuePlant is a plant whose watering is due on the queried day.
type DuePlant struct {
	Plant
	OverdueDays int `json:"overdueDays"`
}

// PlantSort selects the ordering of ListPlants results.
type PlantSort string

const (
	SortByName      PlantSort = "name"
	SortBySpecies   PlantSort = "species"
	SortByType      PlantSort = "type"
	SortByLocation  PlantSort = "location"
	SortByNextWater PlantSort = "next-water"
	SortByCreated   PlantSort = "created"
	SortByUpdated   PlantSort = "updated"
)

// PlantQuery filters and orders a plant listing. The zero value lists every plant by name.
type PlantQuery struct {
	Search string
	Type   string
	Sort   PlantSort
}

// Stats are the dashboard counters for a day.
type Stats struct {
	Plants  int `json:"plants"`
	Due     int `json:"due"`
	Overdue int `json:"overdue"`
}
