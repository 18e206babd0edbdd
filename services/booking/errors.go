package booking

import "mindwell/utils"

// Auto-selection failure kinds. Both surface as NotFound, distinguished by
// reason so callers can tell an empty roster from a fully booked one.
var (
	ErrNoPsychologistsForSlot = utils.NewNotFoundError("psychologist",
		"no psychologists available for the requested day and time")
	ErrAllCandidatesBusy = utils.NewNotFoundError("psychologist",
		"all candidate psychologists are busy at the requested time")
	ErrPsychologistUnavailable = utils.NewNotFoundError("psychologist",
		"not available at the requested time")
)
