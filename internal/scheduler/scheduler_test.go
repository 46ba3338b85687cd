package scheduler

import (
	"testing"

	"github.com/julianstephens/cactolog/internal/models"
)

func TestDerive_ComputesNextWaterDate(t *testing.T) {
	tests := []struct {
		name        string
		lastWatered string
		interval    int
		wantNext    string
		wantInt     int
	}{
		{name: "five days", lastWatered: "2024-01-10", interval: 5, wantNext: "2024-01-15", wantInt: 5},
		{name: "default interval", lastWatered: "2024-01-10", interval: 0, wantNext: "2024-01-24", wantInt: 14},
		{name: "negative interval", lastWatered: "2024-01-10", interval: -3, wantNext: "2024-01-24", wantInt: 14},
		{name: "into leap day", lastWatered: "2024-02-01", interval: 28, wantNext: "2024-02-29", wantInt: 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Derive(models.Plant{LastWatered: tt.lastWatered, WaterIntervalDays: tt.interval})
			if err != nil {
				t.Fatalf("Derive failed: %v", err)
			}
			if p.NextWaterDate != tt.wantNext {
				t.Errorf("NextWaterDate = %s, want %s", p.NextWaterDate, tt.wantNext)
			}
			if p.WaterIntervalDays != tt.wantInt {
				t.Errorf("WaterIntervalDays = %d, want %d", p.WaterIntervalDays, tt.wantInt)
			}
		})
	}
}

func TestDerive_IgnoresStaleNextWaterDate(t *testing.T) {
	p, err := Derive(models.Plant{LastWatered: "2024-01-10", WaterIntervalDays: 5, NextWaterDate: "1999-01-01"})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if p.NextWaterDate != "2024-01-15" {
		t.Errorf("NextWaterDate = %s, want 2024-01-15", p.NextWaterDate)
	}
}

func TestDerive_InvalidDates(t *testing.T) {
	if _, err := Derive(models.Plant{LastWatered: "yesterday"}); err == nil {
		t.Error("expected error for invalid last watered date")
	}
	if _, err := Derive(models.Plant{LastWatered: "2024-01-10", LastRepot: "soon"}); err == nil {
		t.Error("expected error for invalid last repot date")
	}
}

func TestRepotDueDate(t *testing.T) {
	due, err := RepotDueDate(models.Plant{LastRepot: "2023-07-15", RepotIntervalMonths: 6})
	if err != nil {
		t.Fatalf("RepotDueDate failed: %v", err)
	}
	if due != "2024-01-15" {
		t.Errorf("RepotDueDate = %s, want 2024-01-15", due)
	}

	for _, p := range []models.Plant{
		{LastRepot: "", RepotIntervalMonths: 6},
		{LastRepot: "2023-07-15", RepotIntervalMonths: 0},
	} {
		due, err := RepotDueDate(p)
		if err != nil || due != "" {
			t.Errorf("RepotDueDate(%+v) = %q, %v; want empty", p, due, err)
		}
	}
}

func TestOverdueDays(t *testing.T) {
	tests := []struct {
		onDate, next string
		want         int
	}{
		{"2024-01-20", "2024-01-15", 5},
		{"2024-01-15", "2024-01-15", 0},
		{"2024-01-10", "2024-01-15", -5},
	}
	for _, tt := range tests {
		got, err := OverdueDays(tt.onDate, tt.next)
		if err != nil {
			t.Fatalf("OverdueDays failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("OverdueDays(%s, %s) = %d, want %d", tt.onDate, tt.next, got, tt.want)
		}
	}
}
