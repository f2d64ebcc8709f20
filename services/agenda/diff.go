package agenda

import (
	"fmt"
	"strings"
	"time"

	"mechanio/models"
)

// diffAgendas compares two weekly templates field by field and reports which
// weekdays opened, closed, or changed hours or break.
func diffAgendas(old, updated *models.WorkshopAgenda) models.AgendaDiff {
	var d models.AgendaDiff
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		before := old.Day(wd)
		after := updated.Day(wd)

		switch {
		case !before.Open && after.Open:
			d.DaysOpened = append(d.DaysOpened, wd)
			continue
		case before.Open && !after.Open:
			d.DaysClosed = append(d.DaysClosed, wd)
			continue
		case !after.Open:
			continue
		}

		if before.StartTime != after.StartTime || before.ClosingTime != after.ClosingTime {
			d.HoursChanged = append(d.HoursChanged, wd)
		}
		if before.StartOfBreak != after.StartOfBreak || before.EndOfBreak != after.EndOfBreak {
			d.BreakChanged = append(d.BreakChanged, wd)
		}
	}
	return d
}

// describeDiff renders the diff as a short human sentence for the
// confirmation push.
func describeDiff(d models.AgendaDiff) string {
	var parts []string
	if len(d.DaysOpened) > 0 {
		parts = append(parts, fmt.Sprintf("opened %s", joinWeekdays(d.DaysOpened)))
	}
	if len(d.DaysClosed) > 0 {
		parts = append(parts, fmt.Sprintf("closed %s", joinWeekdays(d.DaysClosed)))
	}
	if len(d.HoursChanged) > 0 {
		parts = append(parts, fmt.Sprintf("new hours on %s", joinWeekdays(d.HoursChanged)))
	}
	if len(d.BreakChanged) > 0 {
		parts = append(parts, fmt.Sprintf("new break on %s", joinWeekdays(d.BreakChanged)))
	}
	if len(parts) == 0 {
		return "Your working hours are unchanged."
	}
	return "Schedule updated: " + strings.Join(parts, "; ") + "."
}

func joinWeekdays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ", ")
}
