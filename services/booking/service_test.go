package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mindwell/models"
	"mindwell/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailability struct {
	available bool
	err       error
}

func (f *fakeAvailability) CheckTimeSlotAvailability(string, string, string, string, string) (bool, error) {
	return f.available, f.err
}

func (f *fakeAvailability) BatchCheckAvailabilityForDate([]string, string, string, string, string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

type fakePsychologistDir struct {
	covering []models.Psychologist
}

func (f *fakePsychologistDir) GetByID(id string) (*models.Psychologist, error) {
	for _, p := range f.covering {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, utils.NewNotFoundError("psychologist", fmt.Sprintf("id %s", id))
}

func (f *fakePsychologistDir) ListByIDs(ids []string) ([]models.Psychologist, error) {
	return f.covering, nil
}

func (f *fakePsychologistDir) FindCoveringSlot(int, string, string) ([]models.Psychologist, error) {
	return f.covering, nil
}

type fakeScheduler struct {
	bookings  map[string]*models.Booking
	schedules []models.Schedule
	counts    map[string]int
	quotas    map[string]int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		bookings: map[string]*models.Booking{},
		counts:   map[string]int{},
		quotas:   map[string]int{},
	}
}

func (f *fakeScheduler) CountOverlappingBookings(id string, _, _ time.Time) (int, error) {
	return f.counts[id], nil
}

func (f *fakeScheduler) CountOverlappingBookingsBulk(ids []string, _, _ time.Time) (map[string]int, error) {
	out := map[string]int{}
	for _, id := range ids {
		if n := f.counts[id]; n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeScheduler) GetBookingByID(bookingID string) (*models.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
	}
	cp := *b
	return &cp, nil
}

func (f *fakeScheduler) CreateBookingWithSchedule(_ context.Context, booking *models.Booking, schedule *models.Schedule, orgID string) error {
	if orgID != "" {
		if f.quotas[orgID] < 1 {
			return fmt.Errorf("organization %s has no remaining session quota", orgID)
		}
		f.quotas[orgID]--
	}
	cp := *booking
	f.bookings[booking.ID] = &cp
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeScheduler) UpdateBookingStatus(bookingID, status string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
	}
	b.Status = status
	return nil
}

func (f *fakeScheduler) UpdateBookingTimes(bookingID string, start, end time.Time, timezone string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return utils.NewNotFoundError("booking", fmt.Sprintf("id %s", bookingID))
	}
	b.StartTime = start
	b.EndTime = end
	b.Timezone = timezone
	b.Status = models.BookingStatusRescheduled
	return nil
}

type fakeUserDir struct{}

func (fakeUserDir) GetByID(userID string) (*models.User, error) {
	return &models.User{ID: userID, FullName: "Dina"}, nil
}

// fakeLifecycle records the chat side effects the coordinator triggers.
type fakeLifecycle struct {
	createdFor   []string // booking ids handed to CreateForBooking
	cancelledFor []string // session ids handed to CancelSession
	createErr    error
}

func (f *fakeLifecycle) CreateForBooking(_ context.Context, booking *models.Booking, _ string) (*models.ChatSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdFor = append(f.createdFor, booking.ID)
	return &models.ChatSession{ID: "sess-" + booking.ID, BookingID: booking.ID}, nil
}

func (f *fakeLifecycle) ScheduleSessionJobs(*models.ChatSession, string) {}

func (f *fakeLifecycle) CancelSessionJobs(sessionID string) {}

func (f *fakeLifecycle) CancelSession(_ context.Context, sessionID string) error {
	f.cancelledFor = append(f.cancelledFor, sessionID)
	return nil
}

func (f *fakeLifecycle) SessionIDForBooking(_ context.Context, bookingID string) (string, error) {
	for _, id := range f.createdFor {
		if id == bookingID {
			return "sess-" + bookingID, nil
		}
	}
	return "", utils.NewNotFoundError("chat session", fmt.Sprintf("booking %s", bookingID))
}

func (f *fakeLifecycle) SendInitialMessage(context.Context, string, string) error { return nil }
func (f *fakeLifecycle) EnableChat(context.Context, string) error                 { return nil }
func (f *fakeLifecycle) AutoEndSession(context.Context, string) error             { return nil }

func (f *fakeLifecycle) EnsureActivated(context.Context, string) (*models.ChatSession, error) {
	return nil, nil
}

func (f *fakeLifecycle) ManualEnd(context.Context, string) error { return nil }

func (f *fakeLifecycle) RealtimeToken(context.Context, string, string) (string, *models.ChatSession, error) {
	return "", nil, nil
}

func (f *fakeLifecycle) CheckAndActivateOverdueSessions(context.Context) (int, error) {
	return 0, nil
}

type fakeNotifier struct {
	userPushes, psychologistPushes int
}

func (f *fakeNotifier) SendUserPush(context.Context, string, string, string, map[string]string) error {
	f.userPushes++
	return nil
}

func (f *fakeNotifier) SendPsychologistPush(context.Context, string, string, string, map[string]string) error {
	f.psychologistPushes++
	return nil
}

type bookingFixture struct {
	svc       *DefaultBookingService
	scheduler *fakeScheduler
	psychs    *fakePsychologistDir
	chat      *fakeLifecycle
	notifier  *fakeNotifier
	avail     *fakeAvailability
}

func newBookingFixture() *bookingFixture {
	scheduler := newFakeScheduler()
	psychs := &fakePsychologistDir{}
	lifecycle := &fakeLifecycle{}
	notifier := &fakeNotifier{}
	avail := &fakeAvailability{available: true}
	return &bookingFixture{
		svc: &DefaultBookingService{
			Scheduler:       scheduler,
			Psychologists:   psychs,
			Users:           fakeUserDir{},
			Availability:    avail,
			Chat:            lifecycle,
			Notification:    notifier,
			DefaultCapacity: 2,
		},
		scheduler: scheduler,
		psychs:    psychs,
		chat:      lifecycle,
		notifier:  notifier,
		avail:     avail,
	}
}

// 2025-09-15 is a Monday in Asia/Jakarta (UTC+7).
func onlineRequest() models.BookingRequest {
	return models.BookingRequest{
		UserID:         "u1",
		PsychologistID: "p1",
		Date:           "2025-09-15",
		StartTime:      "10:00",
		EndTime:        "11:00",
		Timezone:       "Asia/Jakarta",
		Method:         models.MethodOnline,
	}
}

func TestBookCounseling_PersistsBookingAndSchedule(t *testing.T) {
	f := newBookingFixture()

	booking, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusScheduled, booking.Status)
	assert.Equal(t, time.Date(2025, 9, 15, 3, 0, 0, 0, time.UTC), booking.StartTime)
	assert.Equal(t, time.Date(2025, 9, 15, 4, 0, 0, 0, time.UTC), booking.EndTime)
	assert.Equal(t, "Asia/Jakarta", booking.Timezone)

	stored, err := f.scheduler.GetBookingByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StartTime, stored.StartTime)

	require.Len(t, f.scheduler.schedules, 1)
	assert.Equal(t, booking.ID, f.scheduler.schedules[0].RefID)
	assert.Equal(t, models.ScheduleKindCounseling, f.scheduler.schedules[0].Kind)

	assert.Equal(t, 1, f.notifier.userPushes)
	assert.Equal(t, 1, f.notifier.psychologistPushes)
	assert.Empty(t, f.chat.createdFor, "non-chat bookings must not spawn chat sessions")
}

func TestBookCounseling_RejectsUnknownMethod(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.Method = "carrier-pigeon"

	_, err := f.svc.BookCounseling(context.Background(), req)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
	assert.Empty(t, f.scheduler.bookings)
}

func TestBookCounseling_RejectsInvertedWindow(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.StartTime, req.EndTime = "11:00", "10:00"

	_, err := f.svc.BookCounseling(context.Background(), req)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestBookCounseling_PsychologistUnavailable(t *testing.T) {
	f := newBookingFixture()
	f.avail.available = false

	_, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.ErrorIs(t, err, ErrPsychologistUnavailable)
	assert.True(t, utils.IsNotFound(err))
	assert.Empty(t, f.scheduler.bookings)
}

func TestBookCounseling_RequiresPsychologistOutsideOrganization(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.PsychologistID = ""

	_, err := f.svc.BookCounseling(context.Background(), req)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestBookCounseling_ChatBookingCreatesSession(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.Method = models.MethodChat

	booking, err := f.svc.BookCounseling(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{booking.ID}, f.chat.createdFor)
}

func TestBookCounseling_ChatSetupFailureIsBestEffort(t *testing.T) {
	f := newBookingFixture()
	f.chat.createErr = fmt.Errorf("redis unreachable")
	req := onlineRequest()
	req.Method = models.MethodChat

	booking, err := f.svc.BookCounseling(context.Background(), req)
	require.NoError(t, err, "booking stands even when chat automation fails")
	_, err = f.scheduler.GetBookingByID(booking.ID)
	assert.NoError(t, err)
}

func orgRequest() models.BookingRequest {
	return models.BookingRequest{
		UserID:         "u1",
		OrganizationID: "org-1",
		Date:           "2025-09-15",
		StartTime:      "10:00",
		EndTime:        "11:00",
		Timezone:       "Asia/Jakarta",
		Method:         models.MethodOrganization,
	}
}

func orgCandidate(id string, max int) models.Psychologist {
	return models.Psychologist{
		ID:                    id,
		IsActive:              true,
		HasAvailability:       true,
		MaxConcurrentSessions: max,
		WeeklyAvailability: []models.AvailabilitySlot{
			{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "17:00:00"},
		},
	}
}

func TestBookCounseling_AutoSelect_NoCandidates(t *testing.T) {
	f := newBookingFixture()
	f.scheduler.quotas["org-1"] = 5

	_, err := f.svc.BookCounseling(context.Background(), orgRequest())
	require.ErrorIs(t, err, ErrNoPsychologistsForSlot)
	assert.True(t, utils.IsNotFound(err))
}

func TestBookCounseling_AutoSelect_AllCandidatesBusy(t *testing.T) {
	f := newBookingFixture()
	f.scheduler.quotas["org-1"] = 5
	f.psychs.covering = []models.Psychologist{orgCandidate("p1", 1), orgCandidate("p2", 2)}
	f.scheduler.counts["p1"] = 1
	f.scheduler.counts["p2"] = 2

	_, err := f.svc.BookCounseling(context.Background(), orgRequest())
	require.ErrorIs(t, err, ErrAllCandidatesBusy)
	assert.True(t, utils.IsNotFound(err))
	assert.Equal(t, 5, f.scheduler.quotas["org-1"], "quota untouched when selection fails")
}

func TestBookCounseling_AutoSelect_SkipsInactiveProfiles(t *testing.T) {
	f := newBookingFixture()
	f.scheduler.quotas["org-1"] = 5
	inactive := orgCandidate("p1", 2)
	inactive.IsActive = false
	paused := orgCandidate("p2", 2)
	paused.HasAvailability = false
	f.psychs.covering = []models.Psychologist{inactive, paused}

	_, err := f.svc.BookCounseling(context.Background(), orgRequest())
	require.ErrorIs(t, err, ErrAllCandidatesBusy)
}

func TestBookCounseling_AutoSelect_PicksOpenCandidate(t *testing.T) {
	f := newBookingFixture()
	f.scheduler.quotas["org-1"] = 5
	f.psychs.covering = []models.Psychologist{orgCandidate("busy", 1), orgCandidate("free", 1)}
	f.scheduler.counts["busy"] = 1

	booking, err := f.svc.BookCounseling(context.Background(), orgRequest())
	require.NoError(t, err)
	assert.Equal(t, "free", booking.PsychologistID)
	assert.Equal(t, 4, f.scheduler.quotas["org-1"], "organization quota decremented")
}

func TestBookCounseling_OrganizationQuotaExhausted(t *testing.T) {
	f := newBookingFixture()
	f.scheduler.quotas["org-1"] = 0
	f.psychs.covering = []models.Psychologist{orgCandidate("p1", 2)}

	_, err := f.svc.BookCounseling(context.Background(), orgRequest())
	require.Error(t, err)
	assert.Empty(t, f.scheduler.bookings, "nothing persists when the quota commit aborts")
}

func TestRescheduleBooking(t *testing.T) {
	f := newBookingFixture()
	created, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.NoError(t, err)

	moved, err := f.svc.RescheduleBooking(context.Background(), created.ID, models.RescheduleRequest{
		Date:      "2025-09-15",
		StartTime: "14:00:00",
		EndTime:   "15:00:00",
		Timezone:  "Asia/Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRescheduled, moved.Status)
	assert.Equal(t, time.Date(2025, 9, 15, 7, 0, 0, 0, time.UTC), moved.StartTime)

	stored, err := f.scheduler.GetBookingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRescheduled, stored.Status)
	assert.Equal(t, moved.StartTime, stored.StartTime)
}

func TestRescheduleBooking_NewWindowUnavailable(t *testing.T) {
	f := newBookingFixture()
	created, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.NoError(t, err)

	f.avail.available = false
	_, err = f.svc.RescheduleBooking(context.Background(), created.ID, models.RescheduleRequest{
		Date:      "2025-09-15",
		StartTime: "14:00:00",
		EndTime:   "15:00:00",
		Timezone:  "Asia/Jakarta",
	})
	require.ErrorIs(t, err, ErrPsychologistUnavailable)

	stored, _ := f.scheduler.GetBookingByID(created.ID)
	assert.Equal(t, models.BookingStatusScheduled, stored.Status, "booking untouched when re-validation fails")
}

func TestRescheduleBooking_ChatSessionReanchored(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.Method = models.MethodChat
	created, err := f.svc.BookCounseling(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, f.chat.createdFor, 1)

	_, err = f.svc.RescheduleBooking(context.Background(), created.ID, models.RescheduleRequest{
		Date:      "2025-09-15",
		StartTime: "14:00:00",
		EndTime:   "15:00:00",
		Timezone:  "Asia/Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID, created.ID}, f.chat.createdFor,
		"moving a chat booking re-anchors its session")
}

func TestRescheduleBooking_ImmutableStatus(t *testing.T) {
	f := newBookingFixture()
	created, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.NoError(t, err)
	require.NoError(t, f.scheduler.UpdateBookingStatus(created.ID, models.BookingStatusCompleted))

	_, err = f.svc.RescheduleBooking(context.Background(), created.ID, models.RescheduleRequest{
		Date:      "2025-09-15",
		StartTime: "14:00:00",
		EndTime:   "15:00:00",
		Timezone:  "Asia/Jakarta",
	})
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture()
	req := onlineRequest()
	req.Method = models.MethodChat
	created, err := f.svc.BookCounseling(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), created.ID))

	stored, _ := f.scheduler.GetBookingByID(created.ID)
	assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	assert.Equal(t, []string{"sess-" + created.ID}, f.chat.cancelledFor,
		"cancelling a chat booking retires its session")
}

func TestCancelBooking_ImmutableStatus(t *testing.T) {
	f := newBookingFixture()
	created, err := f.svc.BookCounseling(context.Background(), onlineRequest())
	require.NoError(t, err)
	require.NoError(t, f.scheduler.UpdateBookingStatus(created.ID, models.BookingStatusCancelled))

	err = f.svc.CancelBooking(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newBookingFixture()
	err := f.svc.CancelBooking(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, utils.IsNotFound(err))
}
