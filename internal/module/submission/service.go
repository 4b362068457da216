package submission

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hackfest/server/internal/shared/config"
	"github.com/hackfest/server/internal/shared/metrics"
)

const (
	resultsCacheKey = "results:published"
	resultsCacheTTL = time.Minute
)

// Service provides submission, review and results business logic.
type Service struct {
	repo    Repository
	cache   redis.UniversalClient
	event   *config.EventConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new submission service.
func NewService(repo Repository, cache redis.UniversalClient, event *config.EventConfig, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		event:   event,
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) recordEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordSubmissionEvent(event)
	}
}

// HasFinalSubmission reports whether the team's submission is final.
// Used by the team module to lock membership.
func (s *Service) HasFinalSubmission(ctx context.Context, teamID uuid.UUID) (bool, error) {
	return s.repo.HasFinalForTeam(ctx, teamID)
}

// SaveDraft creates or updates the caller's team draft. Rejected once
// the submission is final or the window has closed.
func (s *Service) SaveDraft(ctx context.Context, userID uuid.UUID, req *SaveDraftRequest) (*Submission, error) {
	teamID, _, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.submissionsClosed(time.Now()) {
		return nil, ErrSubmissionsClosed
	}

	existing, err := s.repo.GetByTeamID(ctx, teamID)
	if err != nil && err != ErrSubmissionNotFound {
		return nil, err
	}

	if existing != nil {
		if existing.IsFinal() {
			return nil, ErrSubmissionFinal
		}
		existing.Title = req.Title
		existing.Description = req.Description
		existing.RepoURL = req.RepoURL
		existing.DemoURL = req.DemoURL
		existing.VideoURL = req.VideoURL
		existing.UpdatedBy = userID
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.recordEvent("draft_saved")
		return existing, nil
	}

	submission := &Submission{
		ID:          uuid.New(),
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		VideoURL:    req.VideoURL,
		Status:      StatusDraft,
		UpdatedBy:   userID,
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.recordEvent("draft_saved")
	s.logger.Info("submission draft created",
		zap.String("submission_id", submission.ID.String()),
		zap.String("team_id", teamID.String()),
	)

	return submission, nil
}

// GetMySubmission returns the caller's team submission.
func (s *Service) GetMySubmission(ctx context.Context, userID uuid.UUID) (*Submission, error) {
	teamID, _, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByTeamID(ctx, teamID)
}

// Finalize locks the submission. Leader only, team must be at the
// minimum size, and the window must still be open. The draft guard in
// the update makes finalization first-wins under concurrency.
func (s *Service) Finalize(ctx context.Context, userID uuid.UUID) (*Submission, error) {
	teamID, isLeader, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isLeader {
		return nil, ErrNotTeamLeader
	}

	if s.submissionsClosed(time.Now()) {
		return nil, ErrSubmissionsClosed
	}

	count, err := s.repo.CountTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if count < s.minTeamSize() {
		return nil, ErrTeamIncomplete
	}

	submission, err := s.repo.GetByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if submission.RepoURL == "" && submission.DemoURL == "" && submission.VideoURL == "" {
		return nil, ErrMissingLinks
	}

	if err := s.repo.Finalize(ctx, submission.ID, userID); err != nil {
		return nil, err
	}

	s.recordEvent("finalized")
	s.logger.Info("submission finalized",
		zap.String("submission_id", submission.ID.String()),
		zap.String("team_id", teamID.String()),
	)

	return s.repo.GetByID(ctx, submission.ID)
}

// ========== Admin operations ==========

// ListSubmissions lists submissions with review aggregates (admin).
func (s *Service) ListSubmissions(ctx context.Context, status *Status, page, pageSize int) ([]*AdminSubmissionView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(ctx, status, (page-1)*pageSize, pageSize)
}

// GetSubmission returns a submission by ID (admin).
func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// Score records an admin's score for a finalized submission.
// Re-scoring by the same admin overwrites the previous review.
func (s *Service) Score(ctx context.Context, submissionID, adminID uuid.UUID, req *ScoreRequest) (*Review, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, ErrInvalidScore
	}

	submission, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !submission.IsFinal() {
		return nil, ErrNotFinal
	}

	review := &Review{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		AdminID:      adminID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}

	if err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}

	s.recordEvent("scored")
	s.logger.Info("submission scored",
		zap.String("submission_id", submissionID.String()),
		zap.String("admin_id", adminID.String()),
		zap.Int("score", req.Score),
	)

	return review, nil
}

// ListReviews lists reviews for a submission (admin).
func (s *Service) ListReviews(ctx context.Context, submissionID uuid.UUID) ([]*Review, error) {
	return s.repo.ListReviews(ctx, submissionID)
}

// Reopen reverts a final submission to draft (admin).
func (s *Service) Reopen(ctx context.Context, submissionID uuid.UUID) (*Submission, error) {
	if err := s.repo.Reopen(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, submissionID)
}

// DeclareResult declares a placement for a submission (admin).
func (s *Service) DeclareResult(ctx context.Context, submissionID, adminID uuid.UUID, req *DeclareResultRequest) (*Result, error) {
	submission, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetResultBySubmission(ctx, submissionID); err == nil {
		return nil, ErrResultExists
	} else if err != ErrResultNotFound {
		return nil, err
	}

	result := &Result{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		TeamID:       submission.TeamID,
		Rank:         req.Rank,
		Award:        req.Award,
		Citation:     req.Citation,
		DeclaredBy:   adminID,
		DeclaredAt:   time.Now(),
	}

	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, err
	}

	avg, err := s.repo.ReviewAverage(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	rank := req.Rank
	if err := s.repo.SetPlacement(ctx, submissionID, &rank, req.Award, avg); err != nil {
		return nil, err
	}

	s.invalidateResultsCache(ctx)

	s.recordEvent("result_declared")
	s.logger.Info("result declared",
		zap.String("submission_id", submissionID.String()),
		zap.Int("rank", req.Rank),
	)

	return result, nil
}

// RemoveResult withdraws a declared result (admin).
func (s *Service) RemoveResult(ctx context.Context, submissionID uuid.UUID) error {
	if err := s.repo.DeleteResult(ctx, submissionID); err != nil {
		return err
	}

	if err := s.repo.SetPlacement(ctx, submissionID, nil, "", nil); err != nil {
		return err
	}

	s.invalidateResultsCache(ctx)

	s.logger.Info("result removed",
		zap.String("submission_id", submissionID.String()),
	)

	return nil
}

// PublishedResults returns the declared results, cached briefly in
// Redis to absorb the results-day traffic spike.
func (s *Service) PublishedResults(ctx context.Context) ([]*PublicResult, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, resultsCacheKey).Bytes(); err == nil {
			var cached []*PublicResult
			if err := json.Unmarshal(data, &cached); err == nil {
				if s.metrics != nil {
					s.metrics.RecordCacheHit("results")
				}
				return cached, nil
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("results")
		}
	}

	results, err := s.repo.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(ctx, resultsCacheKey, data, resultsCacheTTL).Err(); err != nil {
				s.logger.Warn("results cache write failed", zap.Error(err))
			}
		}
	}

	return results, nil
}

func (s *Service) invalidateResultsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsCacheKey).Err(); err != nil {
		s.logger.Warn("results cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) submissionsClosed(now time.Time) bool {
	if s.event == nil || s.event.SubmissionCloses.IsZero() {
		return false
	}
	return now.After(s.event.SubmissionCloses)
}

func (s *Service) minTeamSize() int {
	if s.event != nil && s.event.MinTeamSize > 0 {
		return s.event.MinTeamSize
	}
	return 3
}
