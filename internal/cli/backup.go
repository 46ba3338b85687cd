package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/cactolog/internal/constants"
	"github.com/julianstephens/cactolog/internal/logger"
	"github.com/julianstephens/cactolog/internal/store"
)

type BackupExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of the backup directory ('-' for stdout)."`
}

func (c *BackupExportCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	data, err := ctx.Store.ExportBackup()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	switch c.Output {
	case "-":
		_, err := ctx.Out.Write(append(data, '\n'))
		return err
	case "":
		path, err := ctx.Backups.WriteExport(data)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ctx.printf("✓ Backup exported: %s\n", filepath.Base(path))
	default:
		if err := os.WriteFile(c.Output, data, 0600); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ctx.printf("✓ Backup exported: %s\n", c.Output)
	}
	return nil
}

type BackupImportCmd struct {
	File string `arg:"" help:"Path or filename of the export to import."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupImportCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	data, err := ctx.Backups.ReadExport(c.File)
	if err != nil {
		return err
	}
	// Reject a bad document before asking anything
	if err := store.ParseBackup(data); err != nil {
		return err
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace every plant, activity and your settings.")
		ctx.println("A snapshot of your current data will be taken first.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	snap, err := ctx.Backups.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot current data: %w", err)
	}
	logger.Info("snapshot taken before import", "path", snap)

	if err := ctx.Store.ImportBackup(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.printf("✓ Imported %d plants and %d activities\n", len(ctx.Store.Plants()), len(ctx.Store.Activities()))
	return nil
}

type BackupSnapshotCmd struct{}

func (c *BackupSnapshotCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	path, err := ctx.Backups.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	ctx.printf("✓ Snapshot created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", ctx.Backups.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d of each kind):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %-8s  %s  %-14s %8s  %s\n",
			b.Kind,
			b.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.Time(b.Timestamp),
			humanize.Bytes(uint64(b.Size)),
			filepath.Base(b.Path),
		)
	}
	ctx.printf("\nBackup directory: %s\n", ctx.Backups.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	Snapshot string `arg:"" help:"Path or filename of the snapshot to restore."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	path := c.Snapshot
	if !filepath.IsAbs(path) {
		candidate := filepath.Join(ctx.Backups.GetBackupDir(), path)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("snapshot not found: %s", path)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current database with the snapshot.")
		ctx.println("A snapshot of your current database will be taken before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(path))
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Provider.Close(); err != nil {
		logger.Warn("failed to close database before restore", "error", err)
	}
	ctx.opened = false

	if err := ctx.Backups.RestoreSnapshot(path); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Database restored successfully!")
	ctx.printf("Restart any running %s processes to use the restored database.\n", constants.AppName)
	return nil
}
