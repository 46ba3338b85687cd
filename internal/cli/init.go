package cli

type InitCmd struct {
	Seed bool `help:"Add a few demo plants after initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	if _, err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.opened = true
	ctx.printf("Initialized cactolog storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Seed {
		seeded, err := ctx.Store.SeedDemo()
		if err != nil {
			return err
		}
		if seeded {
			ctx.println("Added demo plants.")
		}
	}
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	seeded, err := ctx.Store.SeedDemo()
	if err != nil {
		return err
	}
	if !seeded {
		ctx.println("Plants already exist, nothing seeded.")
		return nil
	}
	for _, p := range ctx.Store.Plants() {
		ctx.printf("Added plant: %s (ID: %s)\n", p.Name, p.ID)
	}
	return nil
}
