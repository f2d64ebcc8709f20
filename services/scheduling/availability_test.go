package scheduling

import (
	"errors"
	"testing"
	"time"

	"mechanio/models"
)

func calcInput(role models.Role, date time.Time) AvailabilityInput {
	return AvailabilityInput{
		Agenda:   testAgenda("w1"),
		Services: testWorkshop().Services,
		Date:     date,
		Role:     role,
		Now:      testClock,
	}
}

func TestDayAvailabilityWorkshopView(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, testLoc)

	day, err := calc.DayAvailability(calcInput(models.RoleWorkshop, monday))
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	if !day.Open {
		t.Fatal("expected an open day")
	}
	// 08:00 to 18:00 at 30 min is 20 slots; the 12:00 and 12:30 break
	// slots are skipped entirely.
	if len(day.Slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(day.Slots))
	}
	if day.Slots[0].Time != "08:00" {
		t.Errorf("first slot = %s, want 08:00", day.Slots[0].Time)
	}
	if day.Slots[len(day.Slots)-1].Time != "17:30" {
		t.Errorf("last slot = %s, want 17:30", day.Slots[len(day.Slots)-1].Time)
	}
	for _, s := range day.Slots {
		if s.Time == "12:00" || s.Time == "12:30" {
			t.Errorf("break slot %s should not be generated", s.Time)
		}
		if !s.Available {
			t.Errorf("slot %s should be available on an empty day", s.Time)
		}
	}
}

func TestDayAvailabilityBookedAndBlocked(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, testLoc)

	in := calcInput(models.RoleWorkshop, monday)
	in.Bookings = []models.Scheduling{
		{
			ID:      "s-booked",
			Status:  models.StatusScheduled,
			Date:    monday.Add(10 * time.Hour),
			Profile: models.ProfileSummary{Name: "Ana"},
			Vehicle: models.VehicleSummary{Plate: "ABC1D23", Model: "Onix"},
		},
		{
			// Not committed yet, must not occupy the slot.
			ID:     "s-pending",
			Status: models.StatusWaitingAppointment,
			Date:   monday.Add(11 * time.Hour),
		},
	}
	in.Blocked = []models.BlockedSlot{
		{ID: "b1", WorkshopID: "w1", Date: monday.Add(15 * time.Hour)},
	}

	day, err := calc.DayAvailability(in)
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}

	bySlot := map[string]models.DaySlot{}
	for _, s := range day.Slots {
		bySlot[s.Time] = s
	}

	booked := bySlot["10:00"]
	if booked.Available {
		t.Error("10:00 should be unavailable")
	}
	if booked.BookedBy == nil || booked.BookedBy.SchedulingID != "s-booked" {
		t.Errorf("10:00 should carry the booking annotation, got %+v", booked.BookedBy)
	}
	if booked.BookedBy != nil && booked.BookedBy.CustomerName != "Ana" {
		t.Errorf("booking annotation name = %q, want Ana", booked.BookedBy.CustomerName)
	}

	if !bySlot["11:00"].Available {
		t.Error("11:00 holds only an uncommitted record and should stay available")
	}

	blocked := bySlot["15:00"]
	if blocked.Available {
		t.Error("15:00 is blocked and should be unavailable")
	}
	if blocked.BookedBy != nil {
		t.Error("blocked slot must not carry a booking annotation")
	}
}

func TestDayAvailabilityCustomerView(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, testLoc)

	in := calcInput(models.RoleCustomer, monday)
	in.Bookings = []models.Scheduling{
		{ID: "s-booked", Status: models.StatusScheduled, Date: monday.Add(10 * time.Hour)},
	}

	day, err := calc.DayAvailability(in)
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	if len(day.Slots) != 0 {
		t.Fatalf("customer view must not expose annotated slots, got %d", len(day.Slots))
	}
	if len(day.AvailableTimes) != 17 {
		t.Fatalf("expected 17 free times, got %d", len(day.AvailableTimes))
	}
	for _, hhmm := range day.AvailableTimes {
		if hhmm == "10:00" {
			t.Error("10:00 is booked and must not be listed")
		}
	}
}

func TestDayAvailabilityClosedAndMalformedDays(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, testLoc)

	day, err := calc.DayAvailability(calcInput(models.RoleWorkshop, sunday))
	if err != nil {
		t.Fatalf("closed day: %v", err)
	}
	if day.Open || len(day.Slots) != 0 {
		t.Errorf("closed day should be empty, got open=%v slots=%d", day.Open, len(day.Slots))
	}

	in := calcInput(models.RoleWorkshop, time.Date(2026, 9, 7, 0, 0, 0, 0, testLoc))
	in.Agenda.Days[int(time.Monday)].StartTime = "8 o'clock"
	day, err = calc.DayAvailability(in)
	if err != nil {
		t.Fatalf("malformed day must not error, got %v", err)
	}
	if day.Open || len(day.Slots) != 0 {
		t.Errorf("malformed day should read as closed, got open=%v slots=%d", day.Open, len(day.Slots))
	}
}

func TestDayAvailabilityNilAgenda(t *testing.T) {
	calc := Calculator{Loc: testLoc}
	in := calcInput(models.RoleWorkshop, testClock)
	in.Agenda = nil
	if _, err := calc.DayAvailability(in); !errors.Is(err, ErrAgendaNotConfigured) {
		t.Fatalf("expected ErrAgendaNotConfigured, got %v", err)
	}
}

func TestDayAvailabilityPastDay(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	lastMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, testLoc)

	day, err := calc.DayAvailability(calcInput(models.RoleWorkshop, lastMonday))
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	if day.Open || len(day.Slots) != 0 {
		t.Errorf("past day should be empty, got open=%v slots=%d", day.Open, len(day.Slots))
	}
}

func TestDayAvailabilityLeadTimeAppliesOnlyToday(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}

	// The clock reads Tuesday 09:00 and the oil service needs 2h notice, so
	// today's slots start at 11:00.
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, testLoc)
	day, err := calc.DayAvailability(calcInput(models.RoleWorkshop, today))
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	if len(day.Slots) == 0 {
		t.Fatal("expected slots for today")
	}
	if day.Slots[0].Time != "11:00" {
		t.Errorf("first slot today = %s, want 11:00", day.Slots[0].Time)
	}

	// Tomorrow the lead time plays no role.
	tomorrow := today.AddDate(0, 0, 1)
	day, err = calc.DayAvailability(calcInput(models.RoleWorkshop, tomorrow))
	if err != nil {
		t.Fatalf("DayAvailability: %v", err)
	}
	if day.Slots[0].Time != "08:00" {
		t.Errorf("first slot tomorrow = %s, want 08:00", day.Slots[0].Time)
	}
}

func TestMinimumLeadTime(t *testing.T) {
	services := []models.WorkshopService{
		{ID: "a", MinNoticeHours: 2},
		{ID: "b"},
		{ID: "c", MinNoticeHours: 48},
	}
	if got := MinimumLeadTime(services); got != 48*time.Hour {
		t.Errorf("MinimumLeadTime = %v, want 48h", got)
	}
	if got := MinimumLeadTime(nil); got != 0 {
		t.Errorf("MinimumLeadTime(nil) = %v, want 0", got)
	}
}

func TestSlotAvailable(t *testing.T) {
	calc := Calculator{Loc: testLoc, Stride: 30 * time.Minute}
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, testLoc)

	in := calcInput(models.RoleCustomer, monday)
	ok, err := calc.SlotAvailable(in, monday.Add(10*time.Hour))
	if err != nil || !ok {
		t.Fatalf("free slot: ok=%v err=%v", ok, err)
	}

	// Break time is never a slot.
	ok, err = calc.SlotAvailable(in, monday.Add(12*time.Hour))
	if err != nil || ok {
		t.Fatalf("break slot: ok=%v err=%v", ok, err)
	}

	// Instants off the stride grid are not slots.
	ok, err = calc.SlotAvailable(in, monday.Add(10*time.Hour+15*time.Minute))
	if err != nil || ok {
		t.Fatalf("off-grid instant: ok=%v err=%v", ok, err)
	}
}
