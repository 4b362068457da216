package team

import "errors"

// Module errors.
var (
	// Team errors
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameTaken     = errors.New("team name already taken")
	ErrTeamFull          = errors.New("team is full")
	ErrTeamDisbanded     = errors.New("team has been disbanded")
	ErrTeamNotRecruiting = errors.New("team is not recruiting")
	ErrInvalidTeamSize   = errors.New("team size outside the allowed range")

	// Membership errors
	ErrAlreadyInTeam          = errors.New("user already belongs to a team")
	ErrNotInTeam              = errors.New("user does not belong to a team")
	ErrNotTeamMember          = errors.New("user is not a member of this team")
	ErrNotTeamLeader          = errors.New("only the team leader can do this")
	ErrLeaderCannotLeave      = errors.New("leader must transfer leadership or disband the team")
	ErrCannotRemoveLeader     = errors.New("cannot remove the team leader")
	ErrRegistrationIncomplete = errors.New("complete your participant profile first")

	// Invite errors
	ErrInviteNotFound   = errors.New("invite not found")
	ErrInviteExpired    = errors.New("invite has expired")
	ErrInviteConsumed   = errors.New("invite has already been used")
	ErrInviteNotForYou  = errors.New("invite was issued for a different email")

	// Join request errors
	ErrRequestNotFound     = errors.New("join request not found")
	ErrRequestAlreadyDecided = errors.New("join request has already been decided")

	// Submission interlock
	ErrTeamFinalized = errors.New("team has a finalized submission")
)
