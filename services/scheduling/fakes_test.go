package scheduling

import (
	"context"
	"time"

	agendaRepo "mechanio/database/repository/agenda"
	profileRepo "mechanio/database/repository/profile"
	schedulingRepo "mechanio/database/repository/scheduling"
	workshopRepo "mechanio/database/repository/workshop"
	"mechanio/models"
)

// fakeScheduleRepo is an in-memory ScheduleRepository for workflow tests.
type fakeScheduleRepo struct {
	store   map[string]*models.Scheduling
	updates int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{store: map[string]*models.Scheduling{}}
}

func (r *fakeScheduleRepo) FindByID(_ context.Context, id string) (*models.Scheduling, error) {
	s, ok := r.store[id]
	if !ok {
		return nil, schedulingRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) matches(s *models.Scheduling, f schedulingRepo.Filter) bool {
	if f.WorkshopID != "" && s.WorkshopID != f.WorkshopID {
		return false
	}
	if f.ProfileID != "" && s.ProfileID != f.ProfileID {
		return false
	}
	if f.Date != nil && !s.Date.Equal(*f.Date) {
		return false
	}
	if f.From != nil && s.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.Date.Before(*f.To) {
		return false
	}
	if f.CommittedOnly && !s.Status.IsCommitted() {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if s.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeScheduleRepo) FindOneBy(_ context.Context, f schedulingRepo.Filter) (*models.Scheduling, error) {
	for _, s := range r.store {
		if r.matches(s, f) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, schedulingRepo.ErrNotFound
}

func (r *fakeScheduleRepo) FindBy(_ context.Context, f schedulingRepo.Filter) ([]models.Scheduling, error) {
	var out []models.Scheduling
	for _, s := range r.store {
		if r.matches(s, f) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *models.Scheduling) error {
	cp := *s
	r.store[s.ID] = &cp
	return nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, s *models.Scheduling) error {
	if _, ok := r.store[s.ID]; !ok {
		return schedulingRepo.ErrNotFound
	}
	cp := *s
	r.store[s.ID] = &cp
	r.updates++
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return schedulingRepo.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

// fakeAgendaStore serves one agenda and a blocked-slot list.
type fakeAgendaStore struct {
	agenda  *models.WorkshopAgenda
	blocked []models.BlockedSlot
}

func (a *fakeAgendaStore) GetAgenda(_ context.Context, workshopID string) (*models.WorkshopAgenda, error) {
	if a.agenda == nil || a.agenda.WorkshopID != workshopID {
		return nil, agendaRepo.ErrNotConfigured
	}
	return a.agenda, nil
}

func (a *fakeAgendaStore) UpsertAgenda(_ context.Context, agenda *models.WorkshopAgenda) error {
	a.agenda = agenda
	return nil
}

func (a *fakeAgendaStore) AddBlockedSlot(_ context.Context, slot *models.BlockedSlot) error {
	a.blocked = append(a.blocked, *slot)
	return nil
}

func (a *fakeAgendaStore) RemoveBlockedSlot(_ context.Context, workshopID string, date time.Time) error {
	kept := a.blocked[:0]
	for _, b := range a.blocked {
		if b.WorkshopID != workshopID || !b.Date.Equal(date) {
			kept = append(kept, b)
		}
	}
	a.blocked = kept
	return nil
}

func (a *fakeAgendaStore) ListBlockedSlots(_ context.Context, workshopID string, from, to time.Time) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, b := range a.blocked {
		if b.WorkshopID == workshopID && !b.Date.Before(from) && b.Date.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (a *fakeAgendaStore) PruneBlockedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	kept := a.blocked[:0]
	for _, b := range a.blocked {
		if b.Date.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	a.blocked = kept
	return removed, nil
}

type fakeWorkshopRepo struct {
	workshops map[string]*models.Workshop
}

func (r *fakeWorkshopRepo) GetByID(_ context.Context, id string) (*models.Workshop, error) {
	w, ok := r.workshops[id]
	if !ok {
		return nil, workshopRepo.ErrNotFound
	}
	return w, nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	admins   []models.Admin
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profileRepo.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) ListAdmins(_ context.Context) ([]models.Admin, error) {
	return r.admins, nil
}

// capturingPublisher collects events synchronously instead of enqueuing them.
type capturingPublisher struct {
	events []StatusEvent
}

func (p *capturingPublisher) PublishStatusEvent(_ context.Context, ev StatusEvent) error {
	p.events = append(p.events, ev)
	return nil
}

// testClock is a fixed Tuesday morning; testLoc avoids depending on the
// host's tz database.
var (
	testLoc   = time.FixedZone("-03", -3*60*60)
	testClock = time.Date(2026, 9, 1, 9, 0, 0, 0, testLoc)
)

// testAgenda opens Monday through Friday 08:00 to 18:00 with a lunch break.
func testAgenda(workshopID string) *models.WorkshopAgenda {
	a := &models.WorkshopAgenda{ID: "ag1", WorkshopID: workshopID}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		a.Days[int(wd)] = models.DayAgenda{
			Open:         true,
			StartTime:    "08:00",
			ClosingTime:  "18:00",
			StartOfBreak: "12:00",
			EndOfBreak:   "13:00",
		}
	}
	return a
}

func testWorkshop() *models.Workshop {
	return &models.Workshop{
		ID:      "w1",
		Name:    "Oficina Central",
		Address: "Rua das Flores 100",
		Services: []models.WorkshopService{
			{ID: "oil", Name: "Oil change", Value: 100, MinNoticeHours: 2},
			{ID: "brake", Name: "Brake inspection", Value: 150},
		},
		FCMToken: "w1-token",
	}
}

func testProfile() *models.Profile {
	return &models.Profile{
		ID:    "p1",
		Name:  "Ana",
		Phone: "+55 11 99999-0000",
		Vehicles: []models.Vehicle{
			{ID: "v1", Plate: "ABC1D23", Model: "Onix", Brand: "Chevrolet"},
		},
		FCMToken: "p1-token",
	}
}

type testEnv struct {
	svc     *DefaultSchedulingWorkflow
	repo    *fakeScheduleRepo
	agenda  *fakeAgendaStore
	events  *capturingPublisher
	profile *models.Profile
}

func newTestEnv() *testEnv {
	repo := newFakeScheduleRepo()
	agenda := &fakeAgendaStore{agenda: testAgenda("w1")}
	events := &capturingPublisher{}
	profile := testProfile()

	svc := &DefaultSchedulingWorkflow{
		Repo:      repo,
		Agenda:    agenda,
		Workshops: &fakeWorkshopRepo{workshops: map[string]*models.Workshop{"w1": testWorkshop()}},
		Profiles:  &fakeProfileRepo{profiles: map[string]*models.Profile{"p1": profile}},
		Events:    events,
		Calc:      Calculator{Loc: testLoc, Stride: 30 * time.Minute},
		Now:       func() time.Time { return testClock },
	}
	return &testEnv{svc: svc, repo: repo, agenda: agenda, events: events, profile: profile}
}

// seed stores a scheduling in the given status and clears captured events.
func (e *testEnv) seed(status models.Status, mutate func(*models.Scheduling)) *models.Scheduling {
	s := &models.Scheduling{
		ID:         "s1",
		ProfileID:  "p1",
		Profile:    models.ProfileSummary{Name: "Ana", Phone: "+55 11 99999-0000"},
		WorkshopID: "w1",
		Workshop:   models.WorkshopSummary{Name: "Oficina Central"},
		VehicleID:  "v1",
		Vehicle:    models.VehicleSummary{Plate: "ABC1D23", Model: "Onix", Brand: "Chevrolet"},
		ServiceIDs: []string{"oil"},
		Date:       time.Date(2026, 9, 7, 10, 0, 0, 0, testLoc),
		Status:     status,
		CreatedAt:  testClock,
		UpdatedAt:  testClock,
	}
	if mutate != nil {
		mutate(s)
	}
	e.repo.store[s.ID] = s
	e.events.events = nil
	return s
}

var (
	customer = Actor{ID: "p1", Role: models.RoleCustomer}
	workshop = Actor{ID: "w1", Role: models.RoleWorkshop}
	admin    = Actor{ID: "adm1", Role: models.RoleAdmin}
)
