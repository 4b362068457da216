package submission

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle status of a submission.
type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// Submission represents a team's project submission. One per team.
type Submission struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID      uuid.UUID `json:"team_id" gorm:"type:uuid;uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	RepoURL     string    `json:"repo_url,omitempty" gorm:"column:repo_url"`
	DemoURL     string    `json:"demo_url,omitempty" gorm:"column:demo_url"`
	VideoURL    string    `json:"video_url,omitempty" gorm:"column:video_url"`
	Status      Status    `json:"status" gorm:"not null;default:draft"`

	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	FinalizedBy *uuid.UUID `json:"finalized_by,omitempty" gorm:"type:uuid"`
	UpdatedBy   uuid.UUID  `json:"updated_by" gorm:"type:uuid"`

	// Placement mirrored from the declared result, cleared when the
	// result is withdrawn.
	Rank  *int     `json:"rank,omitempty"`
	Award string   `json:"award,omitempty"`
	Score *float64 `json:"score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Submission) TableName() string {
	return "submissions"
}

// IsFinal returns true once the submission has been finalized.
func (s *Submission) IsFinal() bool {
	return s.Status == StatusFinal
}

// Review is an admin's score for a submission. One per admin per
// submission; re-scoring overwrites.
type Review struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubmissionID uuid.UUID `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_submission_admin"`
	AdminID      uuid.UUID `json:"admin_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_submission_admin"`
	Score        int       `json:"score" gorm:"not null"` // 0-100
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (Review) TableName() string {
	return "submission_reviews"
}

// Result is a declared placement for a team. Withdrawn results are
// kept with the Deleted flag set; the partial unique indexes only
// constrain live rows, so a placement can be re-declared.
type Result struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubmissionID uuid.UUID `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex:udx_results_submission,where:deleted = false"`
	TeamID       uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:udx_results_team_rank,where:deleted = false"`
	Rank         int       `json:"rank" gorm:"not null;uniqueIndex:udx_results_team_rank,where:deleted = false"` // 1 = winner
	Award        string    `json:"award,omitempty"`
	Citation     string    `json:"citation,omitempty"`
	DeclaredBy   uuid.UUID `json:"declared_by" gorm:"type:uuid;not null"`
	DeclaredAt   time.Time `json:"declared_at"`
	Deleted      bool      `json:"-" gorm:"not null;default:false"`
}

// TableName returns the database table name.
func (Result) TableName() string {
	return "results"
}
