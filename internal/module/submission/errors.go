package submission

import "errors"

// Module errors.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionFinal    = errors.New("submission has been finalized")
	ErrAlreadyFinal       = errors.New("submission is already final")
	ErrNotFinal           = errors.New("submission has not been finalized")
	ErrMissingLinks       = errors.New("at least one project link is required")
	ErrSubmissionsClosed  = errors.New("submission window is closed")
	ErrTeamIncomplete     = errors.New("team is below the minimum size")
	ErrNotInTeam          = errors.New("user does not belong to a team")
	ErrNotTeamLeader      = errors.New("only the team leader can do this")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")
	ErrResultNotFound     = errors.New("result not found")
	ErrResultExists       = errors.New("result already declared for this submission")
)
