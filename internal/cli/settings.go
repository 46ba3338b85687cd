package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cactolog/internal/models"
)

type SettingsCmd struct {
	List          bool    `short:"l" help:"Print the current settings."`
	Theme         *string `help:"Set the theme (light|dark|auto)."`
	Notifications *bool   `help:"Enable or disable daily watering reminders (--notifications=false to disable)."`
	NotifyTime    *string `help:"Reminder time in HH:MM."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	var patch models.SettingsPatch
	changed := false
	if c.Theme != nil {
		theme := models.Theme(strings.ToLower(*c.Theme))
		patch.Theme = &theme
		changed = true
	}
	if c.Notifications != nil {
		patch.UseNotifications = c.Notifications
		changed = true
	}
	if c.NotifyTime != nil {
		patch.NotifyTime = c.NotifyTime
		changed = true
	}

	if changed {
		if _, err := ctx.Store.SaveSettings(patch); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		ctx.println("Settings updated.")
		if !c.List {
			return nil
		}
	}

	s := ctx.Store.Settings()
	notify := "off"
	if s.UseNotifications {
		notify = "on at " + s.NotifyTime
	}
	ctx.printf("theme:          %s\n", s.Theme)
	ctx.printf("notifications:  %s\n", notify)
	ctx.printf("notify time:    %s\n", s.NotifyTime)
	ctx.printf("data version:   %s\n", s.Version)
	return nil
}
