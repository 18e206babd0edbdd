package booking

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	psychologistRepo "mindwell/database/repository/psychologist"
	schedulerRepo "mindwell/database/repository/scheduler"
	userRepo "mindwell/database/repository/user"
	"mindwell/models"
	"mindwell/services/availability"
	"mindwell/services/chat"
	"mindwell/services/notification"
	"mindwell/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService creates and mutates counseling bookings.
type BookingService interface {
	BookCounseling(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, bookingID string, req models.RescheduleRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// DefaultBookingService is the production coordinator: it validates the
// requested window, commits the booking transactionally, and hands chat
// bookings to the lifecycle scheduler.
type DefaultBookingService struct {
	Scheduler       schedulerRepo.SchedulerRepository
	Psychologists   psychologistRepo.PsychologistRepository
	Users           userRepo.UserRepository
	Availability    availability.AvailabilityEngine
	Chat            chat.LifecycleService
	Notification    notification.NotificationService
	DefaultCapacity int
}

var validMethods = map[string]bool{
	models.MethodOnline:       true,
	models.MethodChat:         true,
	models.MethodOffline:      true,
	models.MethodOrganization: true,
}

func (svc *DefaultBookingService) BookCounseling(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !validMethods[req.Method] {
		return nil, utils.NewValidationError("method", fmt.Sprintf("unknown booking method %q", req.Method))
	}

	start, err := utils.NormalizeClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := utils.NormalizeClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, utils.NewValidationError("time", fmt.Sprintf("start %s must be before end %s", start, end))
	}
	// Day of week comes from the LOCAL calendar date, never the UTC one.
	dayOfWeek, err := utils.LocalDayOfWeek(req.Date, req.Timezone)
	if err != nil {
		return nil, err
	}
	startUTC, err := utils.LocalToUTC(req.Date, start, req.Timezone)
	if err != nil {
		return nil, err
	}
	endUTC, err := utils.LocalToUTC(req.Date, end, req.Timezone)
	if err != nil {
		return nil, err
	}

	psychologistID := req.PsychologistID
	if psychologistID == "" {
		if req.Method != models.MethodOrganization {
			return nil, utils.NewValidationError("psychologistId", "psychologist is required")
		}
		psychologistID, err = svc.selectPsychologist(dayOfWeek, start, end, startUTC, endUTC)
		if err != nil {
			return nil, err
		}
	} else {
		available, err := svc.Availability.CheckTimeSlotAvailability(
			psychologistID, req.Date, start, end, req.Timezone)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrPsychologistUnavailable
		}
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		PsychologistID: psychologistID,
		OrganizationID: req.OrganizationID,
		StartTime:      startUTC,
		EndTime:        endUTC,
		Timezone:       req.Timezone,
		Status:         models.BookingStatusScheduled,
		Method:         req.Method,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	schedule := &models.Schedule{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		RefID:     booking.ID,
		Kind:      models.ScheduleKindCounseling,
		Date:      req.Date,
		StartTime: startUTC,
		EndTime:   endUTC,
		CreatedAt: now,
	}
	orgID := ""
	if req.Method == models.MethodOrganization {
		orgID = req.OrganizationID
	}
	if err := svc.Scheduler.CreateBookingWithSchedule(ctx, booking, schedule, orgID); err != nil {
		return nil, err
	}

	// Post-commit side effects are best effort: the booking stands even when
	// automation or pushes cannot be delivered.
	if booking.Method == models.MethodChat {
		if _, err := svc.Chat.CreateForBooking(ctx, booking, svc.userName(req.UserID)); err != nil {
			logger.Error("failed to set up chat session for booking",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	svc.notifyBooked(ctx, booking)

	return booking, nil
}

// selectPsychologist implements organization auto-selection: slot-covering
// candidates, narrowed to active profiles with open capacity, chosen
// uniformly at random.
func (svc *DefaultBookingService) selectPsychologist(dayOfWeek int, start, end string, startUTC, endUTC time.Time) (string, error) {
	candidates, err := svc.Psychologists.FindCoveringSlot(dayOfWeek, start, end)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoPsychologistsForSlot
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	counts, err := svc.Scheduler.CountOverlappingBookingsBulk(ids, startUTC, endUTC)
	if err != nil {
		return "", err
	}

	var survivors []string
	for i := range candidates {
		c := &candidates[i]
		if !c.IsActive || !c.HasAvailability {
			continue
		}
		if counts[c.ID] < c.CapacityOrDefault(svc.DefaultCapacity) {
			survivors = append(survivors, c.ID)
		}
	}
	if len(survivors) == 0 {
		return "", ErrAllCandidatesBusy
	}
	return survivors[rand.Intn(len(survivors))], nil
}

func (svc *DefaultBookingService) userName(userID string) string {
	u, err := svc.Users.GetByID(userID)
	if err != nil {
		return ""
	}
	return u.FullName
}

func (svc *DefaultBookingService) notifyBooked(ctx context.Context, booking *models.Booking) {
	logger := utils.GetLogger()
	data := map[string]string{"bookingId": booking.ID, "type": "booking-created"}

	if err := svc.Notification.SendUserPush(ctx, booking.UserID,
		"Counseling booked",
		fmt.Sprintf("Your counseling session is scheduled for %s.", booking.StartTime.Format(time.RFC1123)),
		data); err != nil {
		logger.Warn("failed to notify user of booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
	if err := svc.Notification.SendPsychologistPush(ctx, booking.PsychologistID,
		"New counseling booking",
		fmt.Sprintf("A session was booked for %s.", booking.StartTime.Format(time.RFC1123)),
		data); err != nil {
		logger.Warn("failed to notify psychologist of booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
}
