package models

import "encoding/json"

// Backup is the interchange document produced by export and consumed by import.
type Backup struct {
	Plants     []Plant    `json:"plants"`
	Activities []Activity `json:"activities"`
	Settings   Settings   `json:"settings"`
	ExportedAt string     `json:"exportedAt"`
}

// RawBackup keeps each section undecoded so its shape can be checked before use.
type RawBackup struct {
	Plants     json.RawMessage `json:"plants"`
	Activities json.RawMessage `json:"activities"`
	Settings   json.RawMessage `json:"settings"`
	ExportedAt string          `json:"exportedAt"`
}
