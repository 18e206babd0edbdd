package schedulerRepo

import (
	"context"
	"time"

	"mindwell/models"
)

// SchedulerRepository persists bookings and their generic schedule rows, and
// answers the overlap counts the capacity checks are built on.
type SchedulerRepository interface {
	// CountOverlappingBookings counts bookings of the psychologist whose
	// [start, end) interval overlaps the given window (half-open overlap).
	// Only scheduled and rescheduled bookings are counted.
	CountOverlappingBookings(psychologistID string, start, end time.Time) (int, error)
	// CountOverlappingBookingsBulk returns overlap counts for many
	// psychologists in a single aggregation. IDs absent from the result map
	// have zero overlapping bookings.
	CountOverlappingBookingsBulk(psychologistIDs []string, start, end time.Time) (map[string]int, error)
	GetBookingByID(bookingID string) (*models.Booking, error)
	// CreateBookingWithSchedule inserts the booking and its schedule row in
	// one transaction. When orgID is non-empty the organization's remaining
	// quota is decremented in the same transaction and the whole commit is
	// aborted if the quota would go negative.
	CreateBookingWithSchedule(ctx context.Context, booking *models.Booking, schedule *models.Schedule, orgID string) error
	UpdateBookingStatus(bookingID, status string) error
	// UpdateBookingTimes moves a booking to a new window, marking it rescheduled.
	UpdateBookingTimes(bookingID string, start, end time.Time, timezone string) error
}
