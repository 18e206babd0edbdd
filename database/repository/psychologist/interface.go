package psychologistRepo

import "mindwell/models"

// PsychologistRepository exposes the read-only psychologist surface the
// booking core needs. Profiles (including weekly slots and the concurrency
// cap) are owned by profile management and never written here.
type PsychologistRepository interface {
	GetByID(psychologistID string) (*models.Psychologist, error)
	// ListByIDs fetches a batch of psychologist documents in one query.
	ListByIDs(psychologistIDs []string) ([]models.Psychologist, error)
	// FindCoveringSlot returns every psychologist holding a weekly slot that
	// fully contains [start, end] on the given day. Times are normalized
	// "HH:MM:SS" strings.
	FindCoveringSlot(dayOfWeek int, start, end string) ([]models.Psychologist, error)
}
