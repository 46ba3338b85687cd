package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cactolog/internal/models"
)

type WaterCmd struct {
	Plants []string `arg:"" optional:"" help:"Plant IDs or names."`
	Due    bool     `help:"Water every plant that is due."`
	Date   string   `short:"d" help:"Watering date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Note   string   `short:"n" help:"Note to attach."`
}

func (c *WaterCmd) Validate() error {
	if len(c.Plants) == 0 && !c.Due {
		return fmt.Errorf("name at least one plant or pass --due")
	}
	if len(c.Plants) > 0 && c.Due {
		return fmt.Errorf("--due cannot be combined with plant names")
	}
	return nil
}

func (c *WaterCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.parseDateArg(c.Date)
	if err != nil {
		return err
	}

	if c.Due {
		watered, err := ctx.Store.WaterDue(date)
		if err != nil {
			return err
		}
		if len(watered) == 0 {
			ctx.println("Nothing needs water.")
			return nil
		}
		for _, a := range watered {
			p, _ := ctx.Store.Plant(a.PlantID)
			ctx.printf("Watered %s, next watering %s\n", p.Name, p.NextWaterDate)
		}
		return nil
	}

	// Resolve every reference before recording anything
	plants := make([]models.Plant, 0, len(c.Plants))
	for _, ref := range c.Plants {
		p, err := ctx.resolvePlant(ref)
		if err != nil {
			return err
		}
		plants = append(plants, p)
	}

	for _, p := range plants {
		if _, err := ctx.Store.AddActivity(models.ActivityInput{
			PlantID: p.ID,
			Type:    models.ActivityWater,
			Date:    date,
			Note:    c.Note,
		}); err != nil {
			return err
		}
		updated, _ := ctx.Store.Plant(p.ID)
		ctx.printf("Watered %s, next watering %s\n", updated.Name, updated.NextWaterDate)
	}
	return nil
}

type LogCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
	Type  string `short:"t" help:"Activity type (water|repot|fertilize|prune|note)." default:"note"`
	Date  string `short:"d" help:"Activity date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Note  string `short:"n" help:"Note to attach."`
}

func (c *LogCmd) Validate() error {
	switch models.ActivityType(strings.ToLower(c.Type)) {
	case models.ActivityWater, models.ActivityRepot, models.ActivityFertilize, models.ActivityPrune, models.ActivityNote:
		return nil
	}
	return fmt.Errorf("invalid activity type: %s", c.Type)
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	p, err := ctx.resolvePlant(c.Plant)
	if err != nil {
		return err
	}
	date, err := ctx.parseDateArg(c.Date)
	if err != nil {
		return err
	}

	act, err := ctx.Store.AddActivity(models.ActivityInput{
		PlantID: p.ID,
		Type:    models.ActivityType(strings.ToLower(c.Type)),
		Date:    date,
		Note:    c.Note,
	})
	if err != nil {
		return err
	}
	ctx.printf("Logged %s for %s on %s (ID: %s)\n", act.Type, p.Name, act.Date, act.ID)
	return nil
}

type RecentCmd struct {
	Limit int `short:"n" help:"Number of entries to show." default:"10"`
}

func (c *RecentCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activities := ctx.Store.RecentActivity(c.Limit)
	if len(activities) == 0 {
		ctx.println("No activity recorded yet")
		return nil
	}
	for _, a := range activities {
		name := a.PlantID
		if p, ok := ctx.Store.Plant(a.PlantID); ok {
			name = p.Name
		}
		line := fmt.Sprintf("  %s  %-9s %s", a.Date, a.Type, name)
		if a.Note != "" {
			line += " - " + a.Note
		}
		ctx.println(line)
	}
	return nil
}

type DueCmd struct {
	Date string `short:"d" help:"Day to check (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *DueCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.parseDateArg(c.Date)
	if err != nil {
		return err
	}

	due, err := ctx.Store.DuePlants(date)
	if err != nil {
		return err
	}
	stats, err := ctx.Store.Stats(date)
	if err != nil {
		return err
	}
	ctx.printf("%d plants, %d due, %d overdue on %s\n", stats.Plants, stats.Due, stats.Overdue, date)
	if len(due) == 0 {
		return nil
	}

	ctx.println()
	for _, d := range due {
		status := "due today"
		if d.OverdueDays == 1 {
			status = "1 day overdue"
		} else if d.OverdueDays > 1 {
			status = fmt.Sprintf("%d days overdue", d.OverdueDays)
		}
		ctx.printf("  %s  %s (%s)\n", d.ID, d.Name, status)
	}
	return nil
}
