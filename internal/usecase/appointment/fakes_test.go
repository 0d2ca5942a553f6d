package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

// ----------------------------------------------------
// Repositório em memória
// ----------------------------------------------------

type memRepo struct {
	mu     sync.Mutex
	types  map[uint]models.AppointmentType
	users  map[uint]models.User
	apps   map[uint]models.Appointment
	nextID uint
	seq    int64

	// listGate segura as listagens até todas as goroutines chegarem
	listGate *sync.WaitGroup

	failExpire bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		types: map[uint]models.AppointmentType{
			1: {ID: 1, Name: "Séance individuelle", DurationMinutes: 60, PriceCents: 12000, Participants: 1, Active: true},
		},
		users: map[uint]models.User{
			10: {ID: 10, Name: "Camille", Email: "camille@example.com", Role: models.RoleUser},
			11: {ID: 11, Name: "Sacha", Email: "sacha@example.com", Role: models.RoleUser},
		},
		apps:   map[uint]models.Appointment{},
		nextID: 100,
	}
}

func (r *memRepo) hydrate(ap models.Appointment) *models.Appointment {
	ap.AppointmentType = r.types[ap.AppointmentTypeID]
	ap.User = r.users[ap.UserID]
	return &ap
}

func (r *memRepo) put(ap models.Appointment) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == 0 {
		r.nextID++
		ap.ID = r.nextID
	}
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = time.Now()
	}
	r.apps[ap.ID] = ap
	return r.hydrate(ap)
}

func (r *memRepo) GetType(_ context.Context, id uint) (*models.AppointmentType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, httperr.ErrBusiness("type_not_found")
	}
	return &t, nil
}

func (r *memRepo) ListTypes(context.Context) ([]models.AppointmentType, error) {
	out := make([]models.AppointmentType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out, nil
}

func (r *memRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	return &u, nil
}

func (r *memRepo) HasConfirmedOfType(_ context.Context, userID, typeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.apps {
		if ap.UserID == userID && ap.AppointmentTypeID == typeID && ap.Status == string(domain.StatusConfirmed) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) conflictLocked(iv slot.Interval, buffer time.Duration, excludeID uint) bool {
	want := iv.Expand(buffer)
	for _, ap := range r.apps {
		if ap.ID == excludeID || !domain.BlocksCalendar(domain.Status(ap.Status)) {
			continue
		}
		if want.Overlaps(slot.Interval{Start: ap.StartAt, End: ap.EndAt}) {
			return true
		}
	}
	return false
}

func (r *memRepo) CreateIfFree(_ context.Context, ap *models.Appointment, buffer time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflictLocked(slot.Interval{Start: ap.StartAt, End: ap.EndAt}, buffer, 0) {
		return httperr.ErrBusiness("slot_taken")
	}

	r.nextID++
	ap.ID = r.nextID
	ap.CreatedAt = time.Now()
	r.apps[ap.ID] = *ap
	return nil
}

func (r *memRepo) MoveIfFree(_ context.Context, id uint, start, end time.Time, buffer time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.apps[id]
	if !ok {
		return httperr.ErrBusiness("appointment_not_found")
	}
	if r.conflictLocked(slot.Interval{Start: start, End: end}, buffer, id) {
		return httperr.ErrBusiness("slot_taken")
	}
	ap.StartAt, ap.EndAt = start, end
	r.apps[id] = ap
	return nil
}

func (r *memRepo) BlockingIntervals(_ context.Context, from, to time.Time) ([]slot.Interval, error) {
	if g := r.listGate; g != nil {
		g.Done()
		g.Wait()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []slot.Interval
	window := slot.Interval{Start: from, End: to}
	for _, ap := range r.apps {
		if !domain.BlocksCalendar(domain.Status(ap.Status)) {
			continue
		}
		iv := slot.Interval{Start: ap.StartAt, End: ap.EndAt}
		if iv.Overlaps(window) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.apps[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return r.hydrate(ap), nil
}

func (r *memRepo) UpdateLocked(_ context.Context, id uint, apply func(ap *models.Appointment) error) (*models.Appointment, error) {
	r.mu.Lock()
	stored, ok := r.apps[id]
	r.mu.Unlock()
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap := r.hydrate(stored)
	if err := apply(ap); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.apps[id] = *ap
	r.mu.Unlock()
	return ap, nil
}

func (r *memRepo) NextNumber(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.UserID == userID {
			out = append(out, *r.hydrate(ap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *memRepo) ListStalePending(_ context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.Status == string(domain.StatusPending) && !ap.CreatedAt.After(createdBefore) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) ExpirePending(_ context.Context, ids []uint, createdBefore, now time.Time) (int64, error) {
	if r.failExpire {
		return 0, context.DeadlineExceeded
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		ap := r.apps[id]
		if ap.Status != string(domain.StatusPending) || ap.CreatedAt.After(createdBefore) {
			continue
		}
		if err := domain.Expire(&ap, now); err != nil {
			continue
		}
		r.apps[id] = ap
		n++
	}
	return n, nil
}

func (r *memRepo) ListForReminder(_ context.Context, kind domain.ReminderKind, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		sent := ap.Reminder7SentAt
		if kind == domain.Reminder24Hours {
			sent = ap.Reminder24SentAt
		}
		if ap.Status != string(domain.StatusConfirmed) || sent != nil {
			continue
		}
		if !ap.StartAt.Before(from) && ap.StartAt.Before(to) {
			out = append(out, *r.hydrate(ap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) MarkReminderSent(_ context.Context, id uint, kind domain.ReminderKind, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap := r.apps[id]
	if kind == domain.Reminder7Days {
		ap.Reminder7SentAt = &at
	} else {
		ap.Reminder24SentAt = &at
	}
	r.apps[id] = ap
	return nil
}

func (r *memRepo) ListForCalendarExport(_ context.Context, includePending, onlyNotSent bool) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		switch domain.Status(ap.Status) {
		case domain.StatusConfirmed:
		case domain.StatusPending:
			if !includePending {
				continue
			}
		default:
			continue
		}
		if onlyNotSent && ap.IsSent {
			continue
		}
		out = append(out, *r.hydrate(ap))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) MarkAsSent(_ context.Context, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		ap := r.apps[id]
		ap.IsSent = true
		r.apps[id] = ap
	}
	return nil
}

func (r *memRepo) status(id uint) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id].Status
}

var _ domain.Repository = (*memRepo)(nil)
var _ slot.BookingSource = (*memRepo)(nil)

// ----------------------------------------------------
// Demais fakes
// ----------------------------------------------------

type noBlackouts struct{}

func (noBlackouts) IsDayBlocked(context.Context, time.Time) (bool, error) { return false, nil }

func (noBlackouts) IntervalsForDay(context.Context, time.Time) ([]slot.Interval, error) {
	return nil, nil
}

type memSettings map[string]string

func (m memSettings) All(context.Context) (map[string]string, error) {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp, nil
}

func (m memSettings) Upsert(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Dispatch(ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Name)
	}
	return out
}

type fakeGateway struct {
	payments map[int]payment.Payment
}

func (g *fakeGateway) CreateCheckout(_ context.Context, ap *models.Appointment) (*payment.Checkout, error) {
	return &payment.Checkout{
		PreferenceID: "pref-" + payment.ExternalReference(ap.ID),
		InitPoint:    "https://pay.example/checkout",
	}, nil
}

func (g *fakeGateway) FetchPayment(_ context.Context, id int) (*payment.Payment, error) {
	p, ok := g.payments[id]
	if !ok {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	return &p, nil
}

// ----------------------------------------------------
// Cenário
// ----------------------------------------------------

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, timezone.Location())
}

// quarta 05/03/2025 10:00; a barreira de 48h abre a sexta 07/03
var wednesday = local(2025, 3, 5, 10, 0)

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

type harness struct {
	repo     *memRepo
	settings schedule.Provider
	engine   *slot.Engine
	sink     *recordingSink
}

func newHarness(values map[string]string) *harness {
	repo := newMemRepo()
	if values == nil {
		values = map[string]string{}
	}
	return &harness{
		repo:     repo,
		settings: schedule.NewStoreProvider(memSettings(values)),
		engine:   slot.NewEngine(noBlackouts{}, repo),
		sink:     &recordingSink{},
	}
}

func person(first string) models.EvaluatedPerson {
	b := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	return models.EvaluatedPerson{
		Firstname: first,
		Lastname:  "Martin",
		Patronyms: "Martin Durand",
		Birthdate: &b,
	}
}

func (h *harness) confirmed(userID uint, start time.Time) *models.Appointment {
	t := h.repo.types[1]
	number := "2025-000001"
	return h.repo.put(models.Appointment{
		UserID:            userID,
		AppointmentTypeID: t.ID,
		StartAt:           start,
		EndAt:             start.Add(time.Duration(t.DurationMinutes) * time.Minute),
		Status:            string(domain.StatusConfirmed),
		Number:            &number,
		Principal:         person("Camille"),
	})
}
