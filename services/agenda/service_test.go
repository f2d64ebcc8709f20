package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	agendaRepo "mechanio/database/repository/agenda"
	schedulingRepo "mechanio/database/repository/scheduling"
	"mechanio/models"
	"mechanio/services/scheduling"
)

type fakeAgendaStore struct {
	agendas map[string]*models.WorkshopAgenda
	blocked []models.BlockedSlot
}

func newFakeAgendaStore() *fakeAgendaStore {
	return &fakeAgendaStore{agendas: make(map[string]*models.WorkshopAgenda)}
}

func (f *fakeAgendaStore) GetAgenda(_ context.Context, workshopID string) (*models.WorkshopAgenda, error) {
	a, ok := f.agendas[workshopID]
	if !ok {
		return nil, agendaRepo.ErrNotConfigured
	}
	out := *a
	return &out, nil
}

func (f *fakeAgendaStore) UpsertAgenda(_ context.Context, agenda *models.WorkshopAgenda) error {
	out := *agenda
	f.agendas[agenda.WorkshopID] = &out
	return nil
}

func (f *fakeAgendaStore) AddBlockedSlot(_ context.Context, slot *models.BlockedSlot) error {
	f.blocked = append(f.blocked, *slot)
	return nil
}

func (f *fakeAgendaStore) RemoveBlockedSlot(_ context.Context, workshopID string, date time.Time) error {
	kept := f.blocked[:0]
	for _, b := range f.blocked {
		if b.WorkshopID == workshopID && b.Date.Equal(date) {
			continue
		}
		kept = append(kept, b)
	}
	f.blocked = kept
	return nil
}

func (f *fakeAgendaStore) ListBlockedSlots(_ context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, b := range f.blocked {
		if b.WorkshopID == workshopID && !b.Date.Before(from) && b.Date.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAgendaStore) PruneBlockedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var pruned int64
	kept := f.blocked[:0]
	for _, b := range f.blocked {
		if b.Date.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, b)
	}
	f.blocked = kept
	return pruned, nil
}

// fakeBookingLookup answers FindOneBy only; the agenda service uses nothing
// else from the scheduling repository.
type fakeBookingLookup struct {
	committed map[time.Time]bool
}

func (f *fakeBookingLookup) FindOneBy(_ context.Context, filter schedulingRepo.Filter) (*models.Scheduling, error) {
	if filter.Date != nil && f.committed[filter.Date.UTC()] {
		return &models.Scheduling{ID: "busy", Date: *filter.Date}, nil
	}
	return nil, schedulingRepo.ErrNotFound
}

func (f *fakeBookingLookup) FindByID(context.Context, string) (*models.Scheduling, error) {
	return nil, schedulingRepo.ErrNotFound
}

func (f *fakeBookingLookup) FindBy(context.Context, schedulingRepo.Filter) ([]models.Scheduling, error) {
	return nil, nil
}

func (f *fakeBookingLookup) Create(context.Context, *models.Scheduling) error { return nil }
func (f *fakeBookingLookup) Update(context.Context, *models.Scheduling) error { return nil }
func (f *fakeBookingLookup) Delete(context.Context, string) error             { return nil }

type recordedPush struct {
	target string
	title  string
	body   string
}

type fakeNotifier struct {
	pushes []recordedPush
}

func (f *fakeNotifier) SendProfilePush(_ context.Context, profileID, title, body string, _ map[string]string) error {
	f.pushes = append(f.pushes, recordedPush{profileID, title, body})
	return nil
}

func (f *fakeNotifier) SendWorkshopPush(_ context.Context, workshopID, title, body string, _ map[string]string) error {
	f.pushes = append(f.pushes, recordedPush{workshopID, title, body})
	return nil
}

func (f *fakeNotifier) NotifyAdminPool(_ context.Context, title, body string, _ map[string]string) error {
	f.pushes = append(f.pushes, recordedPush{"admins", title, body})
	return nil
}

func (f *fakeNotifier) Dispatch(ctx context.Context, msg *models.PushMessage) error {
	if msg == nil {
		return nil
	}
	f.pushes = append(f.pushes, recordedPush{msg.TargetID, msg.Title, msg.Body})
	return nil
}

var (
	agendaLoc   = time.FixedZone("-03", -3*60*60)
	agendaClock = time.Date(2026, 9, 1, 9, 0, 0, 0, agendaLoc)
)

func newTestService() (*DefaultAgendaService, *fakeAgendaStore, *fakeBookingLookup, *fakeNotifier) {
	store := newFakeAgendaStore()
	bookings := &fakeBookingLookup{committed: make(map[time.Time]bool)}
	notifier := &fakeNotifier{}
	svc := &DefaultAgendaService{
		Store:       store,
		Schedulings: bookings,
		Notifier:    notifier,
		Loc:         agendaLoc,
		Now:         func() time.Time { return agendaClock },
	}
	return svc, store, bookings, notifier
}

func openDays() [7]models.DayAgenda {
	var days [7]models.DayAgenda
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[int(wd)] = models.DayAgenda{
			Open:         true,
			StartTime:    "08:00",
			ClosingTime:  "18:00",
			StartOfBreak: "12:00",
			EndOfBreak:   "13:00",
		}
	}
	return days
}

func TestSetWeeklyTemplateCreatesAgenda(t *testing.T) {
	svc, store, _, notifier := newTestService()

	a, diff, err := svc.SetWeeklyTemplate(context.Background(), "w1", openDays())
	if err != nil {
		t.Fatalf("SetWeeklyTemplate: %v", err)
	}
	if a.ID == "" {
		t.Error("new agenda should get an id")
	}
	if !a.CreatedAt.Equal(agendaClock) {
		t.Errorf("CreatedAt = %v, want clock", a.CreatedAt)
	}
	if len(diff.DaysOpened) != 5 {
		t.Errorf("DaysOpened = %v, want the five weekdays", diff.DaysOpened)
	}
	if _, ok := store.agendas["w1"]; !ok {
		t.Error("agenda not persisted")
	}
	if len(notifier.pushes) != 1 || notifier.pushes[0].target != "w1" {
		t.Errorf("expected one workshop push, got %v", notifier.pushes)
	}
}

func TestSetWeeklyTemplatePreservesIdentityOnUpdate(t *testing.T) {
	svc, store, _, notifier := newTestService()

	first, _, err := svc.SetWeeklyTemplate(context.Background(), "w1", openDays())
	if err != nil {
		t.Fatalf("initial template: %v", err)
	}
	notifier.pushes = nil

	days := openDays()
	days[int(time.Monday)].ClosingTime = "17:00"
	second, diff, err := svc.SetWeeklyTemplate(context.Background(), "w1", days)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("update changed agenda id: %s -> %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("update changed CreatedAt")
	}
	if len(diff.HoursChanged) != 1 || diff.HoursChanged[0] != time.Monday {
		t.Errorf("HoursChanged = %v, want [Monday]", diff.HoursChanged)
	}
	if got := store.agendas["w1"].Day(time.Monday).ClosingTime; got != "17:00" {
		t.Errorf("persisted closing time = %s", got)
	}
	if len(notifier.pushes) != 1 {
		t.Errorf("expected one push for a real change, got %d", len(notifier.pushes))
	}
}

func TestSetWeeklyTemplateNoOpSkipsPush(t *testing.T) {
	svc, _, _, notifier := newTestService()

	if _, _, err := svc.SetWeeklyTemplate(context.Background(), "w1", openDays()); err != nil {
		t.Fatalf("initial template: %v", err)
	}
	notifier.pushes = nil

	_, diff, err := svc.SetWeeklyTemplate(context.Background(), "w1", openDays())
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if !diff.Empty() {
		t.Errorf("no-op diff = %+v", diff)
	}
	if len(notifier.pushes) != 0 {
		t.Errorf("no-op update must not push, got %v", notifier.pushes)
	}
}

func TestSetWeeklyTemplateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(d *models.DayAgenda)
	}{
		{"bad start time", func(d *models.DayAgenda) { d.StartTime = "8am" }},
		{"closing before start", func(d *models.DayAgenda) { d.ClosingTime = "07:00" }},
		{"break start only", func(d *models.DayAgenda) { d.EndOfBreak = "" }},
		{"break outside hours", func(d *models.DayAgenda) { d.EndOfBreak = "19:00" }},
		{"break end before start", func(d *models.DayAgenda) { d.StartOfBreak = "14:00"; d.EndOfBreak = "13:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _, _ := newTestService()
			days := openDays()
			tc.mutate(&days[int(time.Wednesday)])

			_, _, err := svc.SetWeeklyTemplate(context.Background(), "w1", days)
			if !scheduling.IsRuleError(err) {
				t.Fatalf("expected rule error, got %v", err)
			}
			if len(store.agendas) != 0 {
				t.Error("invalid template must not be persisted")
			}
		})
	}
}

func TestSetWeeklyTemplateClosedDayNeedsNoHours(t *testing.T) {
	svc, _, _, _ := newTestService()

	var days [7]models.DayAgenda // every day closed, no times set
	if _, _, err := svc.SetWeeklyTemplate(context.Background(), "w1", days); err != nil {
		t.Fatalf("all-closed template should be valid: %v", err)
	}
}

func TestGetAgendaNotConfigured(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetAgenda(context.Background(), "w1")
	if !errors.Is(err, scheduling.ErrAgendaNotConfigured) {
		t.Fatalf("expected ErrAgendaNotConfigured, got %v", err)
	}
}

func TestBlockSlot(t *testing.T) {
	svc, store, _, _ := newTestService()
	slotAt := time.Date(2026, 9, 7, 10, 0, 0, 0, agendaLoc)

	slot, err := svc.BlockSlot(context.Background(), "w1", slotAt)
	if err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}
	if slot.ID == "" || !slot.Date.Equal(slotAt) {
		t.Errorf("unexpected slot %+v", slot)
	}
	if len(store.blocked) != 1 {
		t.Fatalf("blocked slots = %d, want 1", len(store.blocked))
	}

	// Blocking the same instant again hands back the existing block.
	again, err := svc.BlockSlot(context.Background(), "w1", slotAt)
	if err != nil {
		t.Fatalf("repeat BlockSlot: %v", err)
	}
	if again.ID != slot.ID {
		t.Errorf("repeat block created a new record: %s != %s", again.ID, slot.ID)
	}
	if len(store.blocked) != 1 {
		t.Errorf("blocked slots = %d after repeat, want 1", len(store.blocked))
	}
}

func TestBlockSlotRejectsPast(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.BlockSlot(context.Background(), "w1", agendaClock.Add(-time.Hour))
	if !errors.Is(err, scheduling.ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
}

func TestBlockSlotRejectsBookedInstant(t *testing.T) {
	svc, store, bookings, _ := newTestService()
	slotAt := time.Date(2026, 9, 7, 10, 0, 0, 0, agendaLoc)
	bookings.committed[slotAt.UTC()] = true

	_, err := svc.BlockSlot(context.Background(), "w1", slotAt)
	if !scheduling.IsRuleError(err) {
		t.Fatalf("expected rule error, got %v", err)
	}
	if len(store.blocked) != 0 {
		t.Error("booked instant must not be blocked")
	}
}

func TestUnblockSlot(t *testing.T) {
	svc, store, _, _ := newTestService()
	slotAt := time.Date(2026, 9, 7, 10, 0, 0, 0, agendaLoc)

	if _, err := svc.BlockSlot(context.Background(), "w1", slotAt); err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}
	if err := svc.UnblockSlot(context.Background(), "w1", slotAt); err != nil {
		t.Fatalf("UnblockSlot: %v", err)
	}
	if len(store.blocked) != 0 {
		t.Errorf("blocked slots = %d after unblock, want 0", len(store.blocked))
	}
}

func TestPruneBlockedBefore(t *testing.T) {
	_, store, _, _ := newTestService()
	past := time.Date(2026, 8, 30, 10, 0, 0, 0, agendaLoc)
	future := time.Date(2026, 9, 7, 10, 0, 0, 0, agendaLoc)
	store.blocked = []models.BlockedSlot{
		{ID: "old", WorkshopID: "w1", Date: past},
		{ID: "new", WorkshopID: "w1", Date: future},
	}

	pruned, err := store.PruneBlockedBefore(context.Background(), agendaClock)
	if err != nil {
		t.Fatalf("PruneBlockedBefore: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if len(store.blocked) != 1 || store.blocked[0].ID != "new" {
		t.Errorf("remaining blocks = %+v", store.blocked)
	}
}
