package submission

import (
	"time"

	"github.com/google/uuid"
)

// SaveDraftRequest creates or updates a team's draft submission.
type SaveDraftRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description,omitempty" binding:"max=5000"`
	RepoURL     string `json:"repo_url,omitempty" binding:"omitempty,url"`
	DemoURL     string `json:"demo_url,omitempty" binding:"omitempty,url"`
	VideoURL    string `json:"video_url,omitempty" binding:"omitempty,url"`
}

// ScoreRequest is an admin's score for a submission.
type ScoreRequest struct {
	Score    int    `json:"score" binding:"min=0,max=100"`
	Feedback string `json:"feedback,omitempty" binding:"max=5000"`
}

// DeclareResultRequest declares a placement for a submission.
type DeclareResultRequest struct {
	Rank     int    `json:"rank" binding:"required,min=1"`
	Award    string `json:"award,omitempty" binding:"max=200"`
	Citation string `json:"citation,omitempty" binding:"max=2000"`
}

// SubmissionResponse represents a submission in API responses.
type SubmissionResponse struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	RepoURL     string     `json:"repo_url,omitempty"`
	DemoURL     string     `json:"demo_url,omitempty"`
	VideoURL    string     `json:"video_url,omitempty"`
	Status      Status     `json:"status"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	Rank        *int       `json:"rank,omitempty"`
	Award       string     `json:"award,omitempty"`
	Score       *float64   `json:"score,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse converts a Submission to SubmissionResponse.
func (s *Submission) ToResponse() *SubmissionResponse {
	return &SubmissionResponse{
		ID:          s.ID,
		TeamID:      s.TeamID,
		Title:       s.Title,
		Description: s.Description,
		RepoURL:     s.RepoURL,
		DemoURL:     s.DemoURL,
		VideoURL:    s.VideoURL,
		Status:      s.Status,
		FinalizedAt: s.FinalizedAt,
		Rank:        s.Rank,
		Award:       s.Award,
		Score:       s.Score,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// AdminSubmissionView adds review aggregates for the admin listing.
type AdminSubmissionView struct {
	*SubmissionResponse
	TeamName     string  `json:"team_name,omitempty"`
	ReviewCount  int     `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	AdminID      uuid.UUID `json:"admin_id"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts a Review to ReviewResponse.
func (r *Review) ToResponse() *ReviewResponse {
	return &ReviewResponse{
		ID:           r.ID,
		SubmissionID: r.SubmissionID,
		AdminID:      r.AdminID,
		Score:        r.Score,
		Feedback:     r.Feedback,
		UpdatedAt:    r.UpdatedAt,
	}
}

// PublicResult is the published view of a declared result.
type PublicResult struct {
	Rank      int       `json:"rank"`
	Award     string    `json:"award,omitempty"`
	Citation  string    `json:"citation,omitempty"`
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name"`
	Title     string    `json:"title"`
	RepoURL   string    `json:"repo_url,omitempty"`
	DemoURL   string    `json:"demo_url,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
