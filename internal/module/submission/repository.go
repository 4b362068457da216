package submission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// member is a minimal view over the users table carrying the team
// stamp this module needs for authorization.
type member struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TeamID   *uuid.UUID `gorm:"type:uuid"`
	TeamRole string     `gorm:"column:team_role"`
}

func (member) TableName() string {
	return "users"
}

// adminListRow is the scan target for the admin listing query.
type adminListRow struct {
	Submission
	TeamName     string
	ReviewCount  int
	AverageScore float64
}

// resultRow is the scan target for the published results query.
type resultRow struct {
	Rank     int
	Award    string
	Citation string
	TeamID   uuid.UUID
	TeamName string
	Title    string
	RepoURL  string
	DemoURL  string
}

// Repository defines the interface for submission data access.
type Repository interface {
	Create(ctx context.Context, submission *Submission) error
	Update(ctx context.Context, submission *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByTeamID(ctx context.Context, teamID uuid.UUID) (*Submission, error)
	Finalize(ctx context.Context, id, userID uuid.UUID) error
	Reopen(ctx context.Context, id uuid.UUID) error
	HasFinalForTeam(ctx context.Context, teamID uuid.UUID) (bool, error)
	List(ctx context.Context, status *Status, offset, limit int) ([]*AdminSubmissionView, int64, error)

	GetMember(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int, error)

	UpsertReview(ctx context.Context, review *Review) error
	ListReviews(ctx context.Context, submissionID uuid.UUID) ([]*Review, error)

	ReviewAverage(ctx context.Context, submissionID uuid.UUID) (*float64, error)

	CreateResult(ctx context.Context, result *Result) error
	DeleteResult(ctx context.Context, submissionID uuid.UUID) error
	GetResultBySubmission(ctx context.Context, submissionID uuid.UUID) (*Result, error)
	SetPlacement(ctx context.Context, submissionID uuid.UUID, rank *int, award string, score *float64) error
	ListResults(ctx context.Context) ([]*PublicResult, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new submission repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, submission *Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *repository) Update(ctx context.Context, submission *Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var submission Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *repository) GetByTeamID(ctx context.Context, teamID uuid.UUID) (*Submission, error) {
	var submission Submission
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// Finalize flips a draft to final. The status guard means exactly one
// finalize wins under concurrent calls.
func (r *repository) Finalize(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id = ? AND status = ?", id, StatusDraft).
		Updates(map[string]interface{}{
			"status":       StatusFinal,
			"finalized_at": now,
			"finalized_by": userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyFinal
	}
	return nil
}

func (r *repository) Reopen(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id = ? AND status = ?", id, StatusFinal).
		Updates(map[string]interface{}{
			"status":       StatusDraft,
			"finalized_at": nil,
			"finalized_by": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (r *repository) HasFinalForTeam(ctx context.Context, teamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Submission{}).
		Where("team_id = ? AND status = ?", teamID, StatusFinal).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, status *Status, offset, limit int) ([]*AdminSubmissionView, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&Submission{})
	if status != nil {
		query = query.Where("submissions.status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*adminListRow
	err := query.
		Select("submissions.*, teams.name AS team_name, " +
			"(SELECT COUNT(*) FROM submission_reviews WHERE submission_reviews.submission_id = submissions.id) AS review_count, " +
			"COALESCE((SELECT AVG(score) FROM submission_reviews WHERE submission_reviews.submission_id = submissions.id), 0) AS average_score").
		Joins("JOIN teams ON teams.id = submissions.team_id").
		Order("submissions.updated_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]*AdminSubmissionView, len(rows))
	for i, row := range rows {
		views[i] = &AdminSubmissionView{
			SubmissionResponse: row.Submission.ToResponse(),
			TeamName:           row.TeamName,
			ReviewCount:        row.ReviewCount,
			AverageScore:       row.AverageScore,
		}
	}

	return views, total, nil
}

// GetMember returns the user's team ID and whether they lead it.
func (r *repository) GetMember(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	var m member
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, ErrNotInTeam
		}
		return uuid.Nil, false, err
	}
	if m.TeamID == nil {
		return uuid.Nil, false, ErrNotInTeam
	}
	return *m.TeamID, m.TeamRole == "leader", nil
}

func (r *repository) CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&member{}).
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Count(&count).Error
	return int(count), err
}

func (r *repository) UpsertReview(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "admin_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "feedback", "updated_at"}),
		}).
		Create(review).Error
}

func (r *repository) ListReviews(ctx context.Context, submissionID uuid.UUID) ([]*Review, error) {
	var reviews []*Review
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("updated_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ReviewAverage returns the mean review score, or nil when the
// submission has not been reviewed yet.
func (r *repository) ReviewAverage(ctx context.Context, submissionID uuid.UUID) (*float64, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS total").
		Where("submission_id = ?", submissionID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Total == 0 {
		return nil, nil
	}
	return &row.Avg, nil
}

func (r *repository) CreateResult(ctx context.Context, result *Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

// DeleteResult withdraws a result by flagging it deleted. The row is
// kept for the audit trail.
func (r *repository) DeleteResult(ctx context.Context, submissionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Result{}).
		Where("submission_id = ? AND deleted = false", submissionID).
		Update("deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResultNotFound
	}
	return nil
}

func (r *repository) GetResultBySubmission(ctx context.Context, submissionID uuid.UUID) (*Result, error) {
	var result Result
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND deleted = false", submissionID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

// SetPlacement mirrors a declared placement onto the submission row.
// Nil rank and score clear it.
func (r *repository) SetPlacement(ctx context.Context, submissionID uuid.UUID, rank *int, award string, score *float64) error {
	return r.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"rank":  rank,
			"award": award,
			"score": score,
		}).Error
}

func (r *repository) ListResults(ctx context.Context) ([]*PublicResult, error) {
	var rows []*resultRow
	err := r.db.WithContext(ctx).
		Model(&Result{}).
		Select("results.rank, results.award, results.citation, results.team_id, " +
			"teams.name AS team_name, submissions.title, submissions.repo_url, submissions.demo_url").
		Joins("JOIN submissions ON submissions.id = results.submission_id").
		Joins("JOIN teams ON teams.id = results.team_id").
		Where("results.deleted = false").
		Order("results.rank ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]*PublicResult, len(rows))
	for i, row := range rows {
		results[i] = &PublicResult{
			Rank:     row.Rank,
			Award:    row.Award,
			Citation: row.Citation,
			TeamID:   row.TeamID,
			TeamName: row.TeamName,
			Title:    row.Title,
			RepoURL:  row.RepoURL,
			DemoURL:  row.DemoURL,
		}
	}

	return results, nil
}
