package event

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hackfest/server/internal/shared/config"
)

// Info is the public event description.
type Info struct {
	Name               string    `json:"name"`
	Tagline            string    `json:"tagline,omitempty"`
	Venue              string    `json:"venue,omitempty"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	RegistrationOpens  time.Time `json:"registration_opens"`
	RegistrationCloses time.Time `json:"registration_closes"`
	SubmissionCloses   time.Time `json:"submission_closes"`
	MinTeamSize        int       `json:"min_team_size"`
	MaxTeamSize        int       `json:"max_team_size"`
	RegistrationOpen   bool      `json:"registration_open"`
	SubmissionOpen     bool      `json:"submission_open"`
}

// Handler serves public event information derived from configuration.
type Handler struct {
	event *config.EventConfig
}

// NewHandler creates a new event handler.
func NewHandler(event *config.EventConfig) *Handler {
	return &Handler{event: event}
}

// RegisterRoutes registers the public routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/event", h.GetInfo)
}

// GetInfo returns the event details and which windows are currently open.
//
//	@Summary		Event information
//	@Tags			Event
//	@Produce		json
//	@Success		200	{object}	Info
//	@Router			/event [get]
func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo(time.Now()))
}

func (h *Handler) buildInfo(now time.Time) *Info {
	return &Info{
		Name:               h.event.Name,
		Tagline:            h.event.Tagline,
		Venue:              h.event.Venue,
		StartsAt:           h.event.StartsAt,
		EndsAt:             h.event.EndsAt,
		RegistrationOpens:  h.event.RegistrationOpens,
		RegistrationCloses: h.event.RegistrationCloses,
		SubmissionCloses:   h.event.SubmissionCloses,
		MinTeamSize:        h.event.MinTeamSize,
		MaxTeamSize:        h.event.MaxTeamSize,
		RegistrationOpen:   h.registrationOpen(now),
		SubmissionOpen:     h.submissionOpen(now),
	}
}

// registrationOpen treats zero-valued bounds as unbounded.
func (h *Handler) registrationOpen(now time.Time) bool {
	if !h.event.RegistrationOpens.IsZero() && now.Before(h.event.RegistrationOpens) {
		return false
	}
	if !h.event.RegistrationCloses.IsZero() && now.After(h.event.RegistrationCloses) {
		return false
	}
	return true
}

func (h *Handler) submissionOpen(now time.Time) bool {
	if h.event.SubmissionCloses.IsZero() {
		return true
	}
	return !now.After(h.event.SubmissionCloses)
}
