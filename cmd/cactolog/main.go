package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/cactolog/internal/cli"
	"github.com/julianstephens/cactolog/internal/config"
	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/errors"
	"github.com/julianstephens/cactolog/internal/lock"
	"github.com/julianstephens/cactolog/internal/logger"
	"github.com/julianstephens/cactolog/internal/storage"
	"github.com/julianstephens/cactolog/internal/storage/jsonfile"
	"github.com/julianstephens/cactolog/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"Database path (.db for SQLite, .json for a JSON file). Defaults to $CACTOLOG_DB or the config directory." type:"string"`
	Debug   bool   `help:"Log at debug level and echo logs to stderr."`

	Init  cli.InitCmd `cmd:"" help:"Initialize cactolog storage."`
	Tui   cli.TuiCmd  `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Plant struct {
		Add       cli.PlantAddCmd       `cmd:"" help:"Add a new plant."`
		Edit      cli.PlantEditCmd      `cmd:"" help:"Edit an existing plant."`
		Delete    cli.PlantDeleteCmd    `cmd:"" help:"Delete a plant and its activity."`
		List      cli.PlantListCmd      `cmd:"" help:"List plants." default:"1"`
		Show      cli.PlantShowCmd      `cmd:"" help:"Show one plant in detail."`
		Duplicate cli.PlantDuplicateCmd `cmd:"" help:"Copy a plant."`
	} `cmd:"" help:"Manage plants."`
	Water    cli.WaterCmd    `cmd:"" help:"Record watering."`
	Log      cli.LogCmd      `cmd:"" help:"Record any care activity."`
	Recent   cli.RecentCmd   `cmd:"" help:"Show recent activity."`
	Due      cli.DueCmd      `cmd:"" help:"Show plants that need water."`
	Calendar cli.CalendarCmd `cmd:"" help:"Show the watering and repotting calendar for a month."`
	Seed     cli.SeedCmd     `cmd:"" help:"Add demo plants to an empty collection."`
	Settings cli.SettingsCmd `cmd:"" help:"Show or change application settings."`
	Backup   struct {
		Export   cli.BackupExportCmd   `cmd:"" help:"Export everything as JSON." default:"1"`
		Import   cli.BackupImportCmd   `cmd:"" help:"Replace everything with a JSON export."`
		Snapshot cli.BackupSnapshotCmd `cmd:"" help:"Copy the database file."`
		List     cli.BackupListCmd     `cmd:"" help:"List available backups."`
		Restore  cli.BackupRestoreCmd  `cmd:"" help:"Restore the database from a snapshot."`
	} `cmd:"" help:"Manage backups."`
	Doctor   cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd  `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal plant-care tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(".")
	if err != nil {
		errors.Fatal(err)
	}
	if cfg, err = cfg.WithOverrides(CLI.DB, CLI.Debug); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("configuration resolved", "db", cfg.DBPath, "backend", cfg.Backend(), "env_files", cfg.EnvFiles)

	l, err := lock.Acquire(cfg.LockPath())
	if err != nil {
		errors.Fatal(err)
	}

	var provider storage.Provider
	switch cfg.Backend() {
	case config.BackendJSON:
		provider = jsonfile.NewStore(cfg.DBPath)
	default:
		provider = sqlite.NewStore(cfg.DBPath)
	}

	appCtx := cli.NewContext(cfg, provider)
	runErr := ctx.Run(appCtx)

	if err := provider.Close(); err != nil {
		logger.Warn("failed to close storage", "error", err)
	}
	if err := l.Release(); err != nil {
		logger.Warn("failed to release lock", "path", l.Path(), "error", err)
	}

	if runErr != nil {
		errors.Fatal(runErr)
	}
}
