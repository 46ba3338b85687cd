package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/scheduler"
)

type PlantAddCmd struct {
	Name     string `arg:"" help:"Plant name."`
	Species  string `short:"s" help:"Botanical species."`
	Type     string `short:"t" help:"Category, e.g. cactus, succulent, foliage."`
	Location string `short:"l" help:"Where the plant lives."`
	Interval int    `short:"i" help:"Days between waterings." default:"14"`
	Watered  string `short:"w" help:"Last watered (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Repot    int    `short:"r" help:"Months between repotting (0 for none)." default:"12"`
	Repotted string `help:"Last repotted (YYYY-MM-DD)."`
	Tags     string `help:"Free-form tags."`
	Notes    string `short:"n" help:"Notes."`
}

func (c *PlantAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("plant name cannot be empty")
	}
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 day")
	}
	if c.Repot < 0 {
		return fmt.Errorf("repot interval cannot be negative")
	}
	return nil
}

func (c *PlantAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	watered, err := ctx.parseDateArg(c.Watered)
	if err != nil {
		return err
	}
	plant := models.Plant{
		Name:                c.Name,
		Species:             c.Species,
		Type:                strings.ToLower(strings.TrimSpace(c.Type)),
		Location:            c.Location,
		WaterIntervalDays:   c.Interval,
		LastWatered:         watered,
		RepotIntervalMonths: c.Repot,
		Tags:                c.Tags,
		Notes:               c.Notes,
	}
	if c.Repotted != "" {
		if plant.LastRepot, err = ctx.parseDateArg(c.Repotted); err != nil {
			return err
		}
	}

	saved, err := ctx.Store.UpsertPlant(plant)
	if err != nil {
		return err
	}
	ctx.printf("Added plant: %s (ID: %s), next watering %s\n", saved.Name, saved.ID, saved.NextWaterDate)
	return nil
}

// PlantEditCmd changes only the fields that were given.
type PlantEditCmd struct {
	Plant    string  `arg:"" help:"Plant ID or name."`
	Name     *string `help:"New name."`
	Species  *string `short:"s" help:"Botanical species."`
	Type     *string `short:"t" help:"Category."`
	Location *string `short:"l" help:"Location."`
	Interval *int    `short:"i" help:"Days between waterings."`
	Watered  *string `short:"w" help:"Last watered date."`
	Repot    *int    `short:"r" help:"Months between repotting."`
	Repotted *string `help:"Last repotted date."`
	Tags     *string `help:"Tags."`
	Notes    *string `short:"n" help:"Notes."`
}

func (c *PlantEditCmd) Validate() error {
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return fmt.Errorf("plant name cannot be empty")
	}
	if c.Interval != nil && *c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 day")
	}
	if c.Repot != nil && *c.Repot < 0 {
		return fmt.Errorf("repot interval cannot be negative")
	}
	return nil
}

func (c *PlantEditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	plant, err := ctx.resolvePlant(c.Plant)
	if err != nil {
		return err
	}

	updated := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = true
		}
	}
	set(&plant.Name, c.Name)
	set(&plant.Species, c.Species)
	set(&plant.Location, c.Location)
	set(&plant.Tags, c.Tags)
	set(&plant.Notes, c.Notes)
	if c.Type != nil {
		plant.Type = strings.ToLower(strings.TrimSpace(*c.Type))
		updated = true
	}
	if c.Interval != nil {
		plant.WaterIntervalDays = *c.Interval
		updated = true
	}
	if c.Repot != nil {
		plant.RepotIntervalMonths = *c.Repot
		updated = true
	}
	if c.Watered != nil {
		if plant.LastWatered, err = ctx.parseDateArg(*c.Watered); err != nil {
			return err
		}
		updated = true
	}
	if c.Repotted != nil {
		if *c.Repotted == "" {
			plant.LastRepot = ""
		} else if plant.LastRepot, err = ctx.parseDateArg(*c.Repotted); err != nil {
			return err
		}
		updated = true
	}

	if !updated {
		ctx.println("No changes specified. Use --help to see editable fields.")
		return nil
	}

	saved, err := ctx.Store.UpsertPlant(plant)
	if err != nil {
		return err
	}
	ctx.printf("Updated plant: %s (ID: %s), next watering %s\n", saved.Name, saved.ID, saved.NextWaterDate)
	return nil
}

type PlantDeleteCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *PlantDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	plant, err := ctx.resolvePlant(c.Plant)
	if err != nil {
		return err
	}

	activities, err := ctx.Store.ActivitiesForPlant(plant.ID)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %s and its %d activities?", plant.Name, len(activities)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeletePlant(plant.ID); err != nil {
		return err
	}
	ctx.printf("Deleted plant: %s (ID: %s) and %d activities\n", plant.Name, plant.ID, len(activities))
	return nil
}

type PlantListCmd struct {
	Search string `short:"q" help:"Filter by name, species or tags."`
	Type   string `short:"t" help:"Only plants of this type."`
	Sort   string `short:"s" help:"Sort key (name|species|type|location|next-water|created|updated)." default:"name" enum:"name,species,type,location,next-water,created,updated"`
}

func (c *PlantListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	plants := ctx.Store.ListPlants(models.PlantQuery{
		Search: c.Search,
		Type:   strings.ToLower(strings.TrimSpace(c.Type)),
		Sort:   models.PlantSort(c.Sort),
	})
	if len(plants) == 0 {
		ctx.println("No plants found")
		return nil
	}

	today := ctx.today()
	ctx.println("Plants:")
	for _, p := range plants {
		kind := p.Type
		if kind == "" {
			kind = "plant"
		}
		ctx.printf("  %s  %s (%s) - water every %dd, %s\n",
			p.ID, p.Name, kind, p.WaterIntervalDays, describeDue(today, p.NextWaterDate))
		if p.Location != "" {
			ctx.printf("      Location: %s\n", p.Location)
		}
	}
	return nil
}

type PlantShowCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
}

func (c *PlantShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	p, err := ctx.resolvePlant(c.Plant)
	if err != nil {
		return err
	}

	today := ctx.today()
	ctx.printf("%s (ID: %s)\n", p.Name, p.ID)
	if p.Species != "" {
		ctx.printf("  Species:      %s\n", p.Species)
	}
	if p.Type != "" {
		ctx.printf("  Type:         %s\n", p.Type)
	}
	if p.Location != "" {
		ctx.printf("  Location:     %s\n", p.Location)
	}
	ctx.printf("  Watering:     every %d days, last %s, next %s (%s)\n",
		p.WaterIntervalDays, p.LastWatered, p.NextWaterDate, describeDue(today, p.NextWaterDate))

	repotDue, err := scheduler.RepotDueDate(p)
	if err != nil {
		return err
	}
	switch {
	case repotDue != "":
		ctx.printf("  Repotting:    every %d months, last %s, next %s\n", p.RepotIntervalMonths, p.LastRepot, repotDue)
	case p.RepotIntervalMonths > 0:
		ctx.printf("  Repotting:    every %d months, never recorded\n", p.RepotIntervalMonths)
	}
	if p.Tags != "" {
		ctx.printf("  Tags:         %s\n", p.Tags)
	}
	if p.Notes != "" {
		ctx.printf("  Notes:        %s\n", p.Notes)
	}
	ctx.printf("  Added:        %s, updated %s\n", humanize.RelTime(p.CreatedAt, ctx.Now(), "ago", "from now"),
		humanize.RelTime(p.UpdatedAt, ctx.Now(), "ago", "from now"))

	activities, err := ctx.Store.ActivitiesForPlant(p.ID)
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		return nil
	}
	ctx.println("\nActivity:")
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		ctx.printf("  %s  %-9s %s\n", a.Date, a.Type, a.Note)
	}
	return nil
}

type PlantDuplicateCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
}

func (c *PlantDuplicateCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	src, err := ctx.resolvePlant(c.Plant)
	if err != nil {
		return err
	}
	dup, err := ctx.Store.DuplicatePlant(src.ID)
	if err != nil {
		return err
	}
	ctx.printf("Added plant: %s (ID: %s)\n", dup.Name, dup.ID)
	return nil
}
