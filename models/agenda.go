package models

import "time"

// DayAgenda holds one weekday of a workshop's recurring template. Times are
// civil "HH:MM" strings in the platform timezone.
type DayAgenda struct {
	Open         bool   `bson:"open" json:"open"`
	StartTime    string `bson:"start_time,omitempty" json:"start_time,omitempty"`
	ClosingTime  string `bson:"closing_time,omitempty" json:"closing_time,omitempty"`
	StartOfBreak string `bson:"start_of_break,omitempty" json:"start_of_break,omitempty"`
	EndOfBreak   string `bson:"end_of_break,omitempty" json:"end_of_break,omitempty"`
}

// WorkshopAgenda is a workshop's weekly working-hours template, one entry per
// weekday keyed by time.Weekday order (Sunday first). Written by the workshop,
// read-only to the availability calculator.
type WorkshopAgenda struct {
	ID         string       `bson:"id" json:"id"`
	WorkshopID string       `bson:"workshop_id" json:"workshop_id"`
	Days       [7]DayAgenda `bson:"days" json:"days"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updated_at"`
}

// Day returns the template entry for a weekday.
func (a *WorkshopAgenda) Day(wd time.Weekday) DayAgenda {
	return a.Days[int(wd)]
}

// BlockedSlot is an ad-hoc exclusion the workshop removed from availability,
// independent of the weekly template. Blocks are revocable and stale ones are
// pruned once their instant has passed.
type BlockedSlot struct {
	ID         string    `bson:"id" json:"id"`
	WorkshopID string    `bson:"workshop_id" json:"workshop_id"`
	Date       time.Time `bson:"date" json:"date"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// AgendaDiff is the explicit field-level comparison between an old and a new
// weekly template, produced at the update site for notification text.
type AgendaDiff struct {
	DaysOpened   []time.Weekday
	DaysClosed   []time.Weekday
	HoursChanged []time.Weekday
	BreakChanged []time.Weekday
}

// Empty reports whether nothing changed.
func (d AgendaDiff) Empty() bool {
	return len(d.DaysOpened) == 0 && len(d.DaysClosed) == 0 &&
		len(d.HoursChanged) == 0 && len(d.BreakChanged) == 0
}
