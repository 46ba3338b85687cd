package scheduler

import (
	"fmt"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

// NormalizeInterval returns the watering interval to use for a stored value.
func NormalizeInterval(days int) int {
	if days <= 0 {
		return constants.DefaultWaterIntervalDays
	}
	return days
}

// NextWaterDate returns lastWatered + interval calendar days.
func NextWaterDate(lastWatered string, intervalDays int) (string, error) {
	next, err := utils.AddDays(lastWatered, NormalizeInterval(intervalDays))
	if err != nil {
		return "", fmt.Errorf("invalid last watered date: %w", err)
	}
	return next, nil
}

// Derive normalizes the schedule fields of p and recomputes NextWaterDate.
// Every write path that touches LastWatered or WaterIntervalDays goes through here.
func Derive(p models.Plant) (models.Plant, error) {
	p.WaterIntervalDays = NormalizeInterval(p.WaterIntervalDays)
	if p.RepotIntervalMonths < 0 {
		p.RepotIntervalMonths = 0
	}

	lastWatered, err := utils.NormalizeISODate(p.LastWatered)
	if err != nil {
		return p, fmt.Errorf("invalid last watered date: %w", err)
	}
	p.LastWatered = lastWatered

	if p.LastRepot != "" {
		lastRepot, err := utils.NormalizeISODate(p.LastRepot)
		if err != nil {
			return p, fmt.Errorf("invalid last repot date: %w", err)
		}
		p.LastRepot = lastRepot
	}

	next, err := NextWaterDate(p.LastWatered, p.WaterIntervalDays)
	if err != nil {
		return p, err
	}
	p.NextWaterDate = next
	return p, nil
}

// RepotDueDate returns lastRepot + repotIntervalMonths calendar months.
// It returns "" when the plant has no repot schedule.
func RepotDueDate(p models.Plant) (string, error) {
	if p.LastRepot == "" || p.RepotIntervalMonths <= 0 {
		return "", nil
	}
	return utils.AddMonths(p.LastRepot, p.RepotIntervalMonths)
}

// OverdueDays returns onDate - nextWaterDate in days: positive when overdue,
// zero when due on onDate and negative when not yet due.
func OverdueDays(onDate, nextWaterDate string) (int, error) {
	return utils.DiffDays(onDate, nextWaterDate)
}
