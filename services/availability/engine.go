package availability

import (
	"fmt"
	"time"

	psychologistRepo "mindwell/database/repository/psychologist"
	schedulerRepo "mindwell/database/repository/scheduler"
	"mindwell/models"
	"mindwell/utils"
)

// AvailabilityEngine decides whether a psychologist can take a requested
// window: weekly-slot coverage on the local wall clock, concurrency capacity
// on UTC instants.
type AvailabilityEngine interface {
	CheckTimeSlotAvailability(psychologistID, date, startTime, endTime, tz string) (bool, error)
	// BatchCheckAvailabilityForDate answers the same question as the single
	// path for every id, using exactly two bulk queries regardless of len(ids).
	BatchCheckAvailabilityForDate(psychologistIDs []string, date, startTime, endTime, tz string) (map[string]bool, error)
}

// DefaultAvailabilityEngine is the production implementation.
type DefaultAvailabilityEngine struct {
	Psychologists   psychologistRepo.PsychologistRepository
	Scheduler       schedulerRepo.SchedulerRepository
	DefaultCapacity int
}

// SlotCovers reports whether some weekly slot on the given day fully contains
// [start, end]. The window must fit a single slot; adjacent slots are never
// merged. Bounds are inclusive: a request exactly matching a slot is covered.
// Times are normalized "HH:MM:SS" strings, so plain comparison is correct.
func SlotCovers(slots []models.AvailabilitySlot, dayOfWeek int, start, end string) bool {
	for _, slot := range slots {
		if slot.DayOfWeek != dayOfWeek {
			continue
		}
		if slot.StartTime <= start && slot.EndTime >= end {
			return true
		}
	}
	return false
}

// window normalizes and converts a requested local window.
type window struct {
	dayOfWeek int
	start     string // "HH:MM:SS" local
	end       string
	startUTC  time.Time
	endUTC    time.Time
}

func resolveWindow(date, startTime, endTime, tz string) (*window, error) {
	start, err := utils.NormalizeClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := utils.NormalizeClock(endTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, utils.NewValidationError("time", fmt.Sprintf("start %s must be before end %s", start, end))
	}
	dayOfWeek, err := utils.LocalDayOfWeek(date, tz)
	if err != nil {
		return nil, err
	}
	startUTC, err := utils.LocalToUTC(date, start, tz)
	if err != nil {
		return nil, err
	}
	endUTC, err := utils.LocalToUTC(date, end, tz)
	if err != nil {
		return nil, err
	}
	return &window{dayOfWeek: dayOfWeek, start: start, end: end, startUTC: startUTC, endUTC: endUTC}, nil
}

func (eng *DefaultAvailabilityEngine) CheckTimeSlotAvailability(psychologistID, date, startTime, endTime, tz string) (bool, error) {
	w, err := resolveWindow(date, startTime, endTime, tz)
	if err != nil {
		return false, err
	}

	psychologist, err := eng.Psychologists.GetByID(psychologistID)
	if err != nil {
		return false, err
	}
	if !SlotCovers(psychologist.WeeklyAvailability, w.dayOfWeek, w.start, w.end) {
		return false, nil
	}

	count, err := eng.Scheduler.CountOverlappingBookings(psychologistID, w.startUTC, w.endUTC)
	if err != nil {
		return false, err
	}
	return count < psychologist.CapacityOrDefault(eng.DefaultCapacity), nil
}

// BatchCheckAvailabilityForDate fetches the psychologist documents (embedded
// slots plus capacity) in one query and the grouped overlap counts in a
// second. Unknown ids come back false.
func (eng *DefaultAvailabilityEngine) BatchCheckAvailabilityForDate(psychologistIDs []string, date, startTime, endTime, tz string) (map[string]bool, error) {
	w, err := resolveWindow(date, startTime, endTime, tz)
	if err != nil {
		return nil, err
	}

	psychologists, err := eng.Psychologists.ListByIDs(psychologistIDs)
	if err != nil {
		return nil, err
	}
	counts, err := eng.Scheduler.CountOverlappingBookingsBulk(psychologistIDs, w.startUTC, w.endUTC)
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool, len(psychologistIDs))
	for _, id := range psychologistIDs {
		result[id] = false
	}
	for i := range psychologists {
		p := &psychologists[i]
		if !SlotCovers(p.WeeklyAvailability, w.dayOfWeek, w.start, w.end) {
			continue
		}
		result[p.ID] = counts[p.ID] < p.CapacityOrDefault(eng.DefaultCapacity)
	}
	return result, nil
}
