package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cactolog/internal/models"
	"github.com/julianstephens/cactolog/internal/utils"
)

type CalendarCmd struct {
	Year  int `short:"y" help:"Year (defaults to the current year)."`
	Month int `short:"m" help:"Month 1-12 (defaults to the current month)."`
}

func (c *CalendarCmd) Validate() error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	return nil
}

func (c *CalendarCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	now := ctx.Now()
	year, month := now.Year(), now.Month()
	if c.Year != 0 {
		year = c.Year
	}
	if c.Month != 0 {
		month = time.Month(c.Month)
	}

	events, err := ctx.Store.CalendarEvents(year, month)
	if err != nil {
		return err
	}
	ctx.printf("%s", RenderMonth(year, month, events, ctx.today()))

	if len(events) == 0 {
		ctx.println("\nNo watering or repotting due this month.")
		return nil
	}
	ctx.println()
	for _, e := range events {
		ctx.printf("  %s  %s\n", e.Date, e.Label)
	}
	return nil
}

// RenderMonth draws a Monday-first month grid. Days with events carry a
// marker: * for watering, R for repotting, + for both. Today is bracketed.
func RenderMonth(year int, month time.Month, events []models.CalendarEvent, today string) string {
	marks := map[string]string{}
	for _, e := range events {
		mark := "*"
		if e.Type == models.ActivityRepot {
			mark = "R"
		}
		if prev, ok := marks[e.Date]; ok && prev != mark {
			mark = "+"
		}
		marks[e.Date] = mark
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %d", month, year)
	fmt.Fprintf(&b, "%*s\n", (35+len(title))/2, title)
	b.WriteString("  Mo   Tu   We   Th   Fr   Sa   Su\n")
	for _, week := range utils.MonthMatrix(year, month) {
		for _, day := range week {
			if !day.InMonth {
				b.WriteString("     ")
				continue
			}
			num := day.Date[8:]
			if num[0] == '0' {
				num = " " + num[1:]
			}
			left, right := " ", " "
			if day.Date == today {
				left, right = "[", "]"
			}
			mark := marks[day.Date]
			if mark == "" {
				mark = " "
			}
			fmt.Fprintf(&b, "%s%s%s%s", left, num, right, mark)
		}
		b.WriteString("\n")
	}
	return b.String()
}
