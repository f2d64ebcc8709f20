package scheduling

import (
	"time"

	"mechanio/models"
)

// DefaultSlotStride is the fixed interval between candidate slots.
const DefaultSlotStride = 30 * time.Minute

// Calculator turns a workshop's weekly template, existing bookings, blocked
// slots and requested services into bookable time slots for one date. It is a
// pure computation: all inputs, including the clock and the civil timezone,
// arrive through AvailabilityInput and the struct fields.
type Calculator struct {
	Loc    *time.Location
	Stride time.Duration
}

// AvailabilityInput gathers everything the calculator needs for one
// (workshop, date) pair.
type AvailabilityInput struct {
	Agenda   *models.WorkshopAgenda // nil means the workshop never configured one
	Bookings []models.Scheduling    // existing records for the workshop on the date
	Blocked  []models.BlockedSlot
	Services []models.WorkshopService // services requested for the booking
	Date     time.Time                // any instant within the target civil date
	Role     models.Role
	Now      time.Time
}

func (c Calculator) stride() time.Duration {
	if c.Stride <= 0 {
		return DefaultSlotStride
	}
	return c.Stride
}

// MinimumLeadTime is the maximum configured minimum-notice across the
// requested services; services without a value contribute zero.
func MinimumLeadTime(services []models.WorkshopService) time.Duration {
	var max int
	for _, s := range services {
		if s.MinNoticeHours > max {
			max = s.MinNoticeHours
		}
	}
	return time.Duration(max) * time.Hour
}

// DayAvailability computes the slot list for one date. A missing agenda is
// reported as ErrAgendaNotConfigured; a closed or malformed day yields an
// empty, unavailable result with no error.
func (c Calculator) DayAvailability(in AvailabilityInput) (models.DayAvailability, error) {
	if in.Agenda == nil {
		return models.DayAvailability{}, ErrAgendaNotConfigured
	}

	day := in.Date.In(c.Loc)
	now := in.Now.In(c.Loc)
	out := models.DayAvailability{Date: day.Format("2006-01-02")}

	tpl := in.Agenda.Day(day.Weekday())
	if !tpl.Open || tpl.StartTime == "" || tpl.ClosingTime == "" {
		return out, nil
	}

	start, ok := parseClock(tpl.StartTime)
	if !ok {
		return out, nil
	}
	closing, ok := parseClock(tpl.ClosingTime)
	if !ok || closing <= start {
		return out, nil
	}

	var breakStart, breakEnd time.Duration
	hasBreak := tpl.StartOfBreak != "" && tpl.EndOfBreak != ""
	if hasBreak {
		breakStart, ok = parseClock(tpl.StartOfBreak)
		if !ok {
			return out, nil
		}
		breakEnd, ok = parseClock(tpl.EndOfBreak)
		if !ok {
			return out, nil
		}
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.Loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Loc)
	if midnight.Before(today) {
		// Whole day in the past.
		return out, nil
	}

	// Earliest bookable instant applies on the current date only.
	var earliest time.Time
	if midnight.Equal(today) {
		earliest = now.Add(MinimumLeadTime(in.Services))
	}

	booked := make(map[int64]*models.Scheduling)
	for i := range in.Bookings {
		b := &in.Bookings[i]
		if b.Status.IsCommitted() {
			booked[b.Date.Unix()] = b
		}
	}
	blocked := make(map[int64]bool, len(in.Blocked))
	for _, bl := range in.Blocked {
		blocked[bl.Date.Unix()] = true
	}

	out.Open = true
	for t := start; t < closing; t += c.stride() {
		if hasBreak && t >= breakStart && t < breakEnd {
			continue
		}
		instant := midnight.Add(t)
		if !earliest.IsZero() && instant.Before(earliest) {
			continue
		}

		slot := models.DaySlot{
			Time:      instant.Format("15:04"),
			Timestamp: instant,
			Available: true,
		}
		if b, taken := booked[instant.Unix()]; taken {
			slot.Available = false
			slot.BookedBy = &models.SlotBooking{
				SchedulingID: b.ID,
				CustomerName: b.Profile.Name,
				VehiclePlate: b.Vehicle.Plate,
				VehicleModel: b.Vehicle.Model,
			}
		}
		if blocked[instant.Unix()] {
			slot.Available = false
		}

		if in.Role == models.RoleCustomer {
			if slot.Available {
				out.AvailableTimes = append(out.AvailableTimes, slot.Time)
			}
			continue
		}
		out.Slots = append(out.Slots, slot)
	}

	return out, nil
}

// SlotAvailable reports whether the exact instant is a bookable slot for the
// given inputs. Used by Register to validate the requested time.
func (c Calculator) SlotAvailable(in AvailabilityInput, instant time.Time) (bool, error) {
	in.Role = models.RoleWorkshop // need the full annotated list
	in.Date = instant
	day, err := c.DayAvailability(in)
	if err != nil {
		return false, err
	}
	for _, s := range day.Slots {
		if s.Timestamp.Equal(instant) {
			return s.Available, nil
		}
	}
	return false, nil
}

// parseClock parses a civil "HH:MM" string into a duration from midnight.
func parseClock(s string) (time.Duration, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}
