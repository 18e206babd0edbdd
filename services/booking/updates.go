package booking

import (
	"context"
	"fmt"

	"mindwell/models"
	"mindwell/utils"

	"go.uber.org/zap"
)

// RescheduleBooking moves a booking to a new window. Only scheduled or
// rescheduled bookings may move, and the new window is re-validated against
// slots and capacity before anything mutates.
func (svc *DefaultBookingService) RescheduleBooking(ctx context.Context, bookingID string, req models.RescheduleRequest) (*models.Booking, error) {
	booking, err := svc.Scheduler.GetBookingByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsMutable() {
		return nil, utils.NewValidationError("booking",
			fmt.Sprintf("cannot reschedule a booking with status %q", booking.Status))
	}

	available, err := svc.Availability.CheckTimeSlotAvailability(
		booking.PsychologistID, req.Date, req.StartTime, req.EndTime, req.Timezone)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrPsychologistUnavailable
	}

	startUTC, err := utils.LocalToUTC(req.Date, req.StartTime, req.Timezone)
	if err != nil {
		return nil, err
	}
	endUTC, err := utils.LocalToUTC(req.Date, req.EndTime, req.Timezone)
	if err != nil {
		return nil, err
	}

	if err := svc.Scheduler.UpdateBookingTimes(bookingID, startUTC, endUTC, req.Timezone); err != nil {
		return nil, err
	}
	booking.StartTime = startUTC
	booking.EndTime = endUTC
	booking.Timezone = req.Timezone
	booking.Status = models.BookingStatusRescheduled

	// Moving a chat booking re-anchors its session and replaces the three
	// lifecycle jobs under their keys.
	if booking.Method == models.MethodChat {
		if _, err := svc.Chat.CreateForBooking(ctx, booking, svc.userName(booking.UserID)); err != nil {
			utils.GetLogger().Error("failed to move chat session for rescheduled booking",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// CancelBooking cancels a scheduled or rescheduled booking and tears down
// any pending chat automation.
func (svc *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := svc.Scheduler.GetBookingByID(bookingID)
	if err != nil {
		return err
	}
	if !booking.IsMutable() {
		return utils.NewValidationError("booking",
			fmt.Sprintf("cannot cancel a booking with status %q", booking.Status))
	}

	if err := svc.Scheduler.UpdateBookingStatus(bookingID, models.BookingStatusCancelled); err != nil {
		return err
	}
	svc.cancelChatAutomation(ctx, booking)

	return nil
}

func (svc *DefaultBookingService) cancelChatAutomation(ctx context.Context, booking *models.Booking) {
	if booking.Method != models.MethodChat {
		return
	}
	// Best effort: the booking is already cancelled either way.
	sessionID, err := svc.Chat.SessionIDForBooking(ctx, booking.ID)
	if err != nil {
		utils.GetLogger().Warn("no chat session found for cancelled booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
		return
	}
	// Retire the session itself, not just its jobs: a session left pending
	// would be picked up by the reconciliation sweep and end up completing
	// the cancelled booking.
	if err := svc.Chat.CancelSession(ctx, sessionID); err != nil {
		utils.GetLogger().Warn("failed to cancel chat session for booking",
			zap.String("bookingID", booking.ID),
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}
