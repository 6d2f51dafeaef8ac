package cmd

import (
	"fmt"
	"time"

	"github.com/naka-gawa/github-activity/internal/domain"
)

const inputDateLayout = "2006/01/02"

// parseWindow builds the report window. RFC3339 start/end take precedence;
// otherwise from/to are whole UTC days, defaulting to the day before now.
func parseWindow(fromStr, toStr, startStr, endStr string, now time.Time) (domain.ActivityWindow, error) {
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return domain.ActivityWindow{}, fmt.Errorf("--start and --end must be given together")
		}
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return domain.ActivityWindow{}, fmt.Errorf("invalid --start, use RFC3339: %w", err)
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return domain.ActivityWindow{}, fmt.Errorf("invalid --end, use RFC3339: %w", err)
		}
		return domain.NewActivityWindow(start, end)
	}

	from := now.UTC().AddDate(0, 0, -1)
	if fromStr != "" {
		t, err := time.Parse(inputDateLayout, fromStr)
		if err != nil {
			return domain.ActivityWindow{}, fmt.Errorf("invalid --from date format, use YYYY/MM/DD: %w", err)
		}
		from = t
	}
	to := from
	if toStr != "" {
		t, err := time.Parse(inputDateLayout, toStr)
		if err != nil {
			return domain.ActivityWindow{}, fmt.Errorf("invalid --to date format, use YYYY/MM/DD: %w", err)
		}
		to = t
	}
	return domain.NewActivityWindow(domain.DayWindow(from).Start, domain.DayWindow(to).End)
}
