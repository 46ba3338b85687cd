package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/cactolog/internal/backup"
	"github.com/julianstephens/cactolog/internal/config"
	"github.com/julianstephens/cactolog/internal/logger"
	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/storage"
	"github.com/julianstephens/cactolog/internal/store"
	"github.com/julianstephens/cactolog/internal/utils"
)

// Context carries the open store and logger shared by every command.
type Context struct {
	Config   config.Config
	Provider storage.Provider
	Store    *store.Store
	Backups  *backup.Manager

	Now func() time.Time
	Out io.Writer
	In  io.Reader

	opened bool
}

// NewContext wires a provider into a fresh engine.
func NewContext(cfg config.Config, provider storage.Provider) *Context {
	return &Context{
		Config:   cfg,
		Provider: provider,
		Store:    store.New(provider, store.WithLogger(logger.Default())),
		Backups:  backup.NewManager(provider.GetConfigPath()),
		Now:      time.Now,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
}

// Open loads existing storage and the engine cache. Commands other than
// init call it first.
func (c *Context) Open() error {
	if c.opened {
		return nil
	}
	if err := c.Provider.Load(); err != nil {
		return err
	}
	if _, err := c.Store.Init(); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	c.opened = true
	return nil
}

// PerformAutomaticBackup writes an export and only logs a failure.
func (c *Context) PerformAutomaticBackup() {
	data, err := c.Store.ExportBackup()
	if err == nil {
		_, err = c.Backups.WriteExport(data)
	}
	if err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

func (c *Context) today() string {
	return utils.Today(c.Now())
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// confirm asks a yes/no question on In, defaulting to no.
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// resolvePlant finds a plant by id, or by name when the name is unambiguous.
func (c *Context) resolvePlant(ref string) (models.Plant, error) {
	if p, ok := c.Store.Plant(ref); ok {
		return p, nil
	}

	var matches []models.Plant
	for _, p := range c.Store.Plants() {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Plant{}, fmt.Errorf("plant not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Plant{}, fmt.Errorf("%d plants are named %q, use the id instead", len(matches), ref)
	}
}

// parseDateArg accepts YYYY-MM-DD, "today" and "yesterday". Empty means today.
func (c *Context) parseDateArg(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.today(), nil
	case "yesterday":
		return utils.AddDays(c.today(), -1)
	}
	date, err := utils.NormalizeISODate(s)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return date, nil
}

// describeDue renders how a next-water date relates to today.
func describeDue(today, next string) string {
	days, err := utils.DiffDays(next, today)
	if err != nil {
		return next
	}
	switch {
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -days)
	}
}
