package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpPlant *DebugDumpPlantCmd `cmd:"" help:"Dump a plant and its activities as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path":    ctx.Provider.GetConfigPath(),
		"backend": string(ctx.Config.Backend()),
		"backups": ctx.Backups.GetBackupDir(),
	}
	return writeJSON(ctx, output)
}

type DebugDumpPlantCmd struct {
	Plant string `arg:"" help:"ID or name of the plant to dump."`
}

func (cmd *DebugDumpPlantCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	p, err := ctx.resolvePlant(cmd.Plant)
	if err != nil {
		return err
	}
	activities, err := ctx.Store.ActivitiesForPlant(p.ID)
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}

	return writeJSON(ctx, map[string]any{
		"plant":      p,
		"activities": activities,
	})
}

func writeJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
