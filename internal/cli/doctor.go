package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/scheduler"
	"github.com/julianstephens/cactolog/internal/storage/sqlite"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		ctx.printf("❌ Database reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			ctx.printf("❌ Schema version: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Warning only
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			ctx.printf("❌ Data validation: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(ctx); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Provider.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Provider.(*sqlite.Store)
	if !ok {
		// The JSON document checks its own version on load
		return nil
	}

	current, latest, err := sqliteStore.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup export'", constants.AppName)
	}
	return nil
}

// checkValidation reads straight from the provider so it sees what is
// persisted rather than the engine cache.
func checkValidation(ctx *Context) error {
	if _, err := ctx.Provider.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	plants, err := ctx.Provider.GetAllPlants()
	if err != nil {
		return fmt.Errorf("failed to get plants: %w", err)
	}
	plantIDs := make(map[string]bool, len(plants))
	for _, p := range plants {
		if plantIDs[p.ID] {
			return fmt.Errorf("duplicate plant ID found: %s", p.ID)
		}
		plantIDs[p.ID] = true

		derived, err := scheduler.Derive(p)
		if err != nil {
			return fmt.Errorf("plant %s has an invalid date: %w", p.ID, err)
		}
		if derived.NextWaterDate != p.NextWaterDate {
			return fmt.Errorf("plant %s next watering is %s, expected %s", p.ID, p.NextWaterDate, derived.NextWaterDate)
		}
	}

	activities, err := ctx.Provider.GetAllActivities()
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}
	orphans := 0
	for _, a := range activities {
		if !plantIDs[a.PlantID] {
			orphans++
		}
	}
	if orphans > 0 {
		return fmt.Errorf("%d activities reference plants that do not exist", orphans)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC\n")
	}
	return nil
}
