package action

import (
	"time"
)

// DaysParams configures AddDays.
type DaysParams struct {
	Days int `mapstructure:"days"`
}

// FormatParams configures FormatDate with a Go reference layout.
type FormatParams struct {
	Format string `mapstructure:"format"`
}

// now is replaced in tests.
var now = time.Now

func registerDateActions(b *Builder) {
	b.Register("CurrentDate", func(any) time.Time {
		t := now()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	})
	b.Register("CurrentDateTime", func(any) time.Time { return now() })
	b.Register("DayOfWeek", func(t time.Time) int { return int(t.Weekday()) })
	b.Register("DayOfYear", func(t time.Time) int { return t.YearDay() })
	b.Register("AddDays", func(p DaysParams, t time.Time) time.Time { return t.AddDate(0, 0, p.Days) })
	b.Register("FormatDate", func(p FormatParams, t time.Time) string {
		layout := p.Format
		if layout == "" {
			layout = time.RFC3339
		}

		return t.Format(layout)
	})
}
