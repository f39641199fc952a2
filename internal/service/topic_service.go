package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/dto"
	"github.com/noah-isme/thesis-api/internal/models"
	"github.com/noah-isme/thesis-api/internal/workflow"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/logger"
)

// txRunner runs fn inside one database transaction.
type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type topicRepository interface {
	List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)
	ListPending(ctx context.Context) ([]models.PendingTopicRow, error)
	FindByID(ctx context.Context, id int64) (*models.Topic, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	UpdateWorkflow(ctx context.Context, topic *models.Topic) error
	BulkApprove(ctx context.Context, ids []int64) (int64, error)
}

type topicTeacherRepository interface {
	FindProfileByAccountID(ctx context.Context, accountID int64) (*models.TeacherProfile, error)
	ListProfilesByIDs(ctx context.Context, ids []int64) (map[int64]models.TeacherProfile, error)
}

type topicTeamRepository interface {
	ListTeamsByTopicIDs(ctx context.Context, topicIDs []int64) (map[int64][]models.TeamMember, error)
}

// TopicService serves topic reads and the committee decisions on topics.
type TopicService struct {
	tx        txRunner
	topics    topicRepository
	teachers  topicTeacherRepository
	students  topicTeamRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTopicService constructs a TopicService. cache and metrics may be nil.
func NewTopicService(tx txRunner, topics topicRepository, teachers topicTeacherRepository, students topicTeamRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TopicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{
		tx:        tx,
		topics:    topics,
		teachers:  teachers,
		students:  students,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// List returns topics, optionally only those supervised by one teacher.
// An unknown supervisor yields an empty list.
func (s *TopicService) List(ctx context.Context, supervisorID *int64) ([]dto.TopicResponse, error) {
	key := topicListCacheKey(supervisorID)
	var cached []dto.TopicResponse
	slot, hit := s.cache.Get(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	topics, err := s.topics.List(ctx, models.TopicFilter{TeacherID: supervisorID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list topics")
	}
	result, err := s.hydrate(ctx, topics)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, slot, result)
	return result, nil
}

// Get returns a single topic with supervisor and team.
func (s *TopicService) Get(ctx context.Context, id int64) (*dto.TopicResponse, error) {
	key := topicDetailCacheKey(id)
	var cached dto.TopicResponse
	slot, hit := s.cache.Get(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	topic, err := s.topics.FindByID(ctx, id)
	if err != nil {
		return nil, topicLoadError(err)
	}
	result, err := s.hydrate(ctx, []models.Topic{*topic})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, slot, result[0])
	return &result[0], nil
}

// ListPending returns the committee's queue of pending topics.
func (s *TopicService) ListPending(ctx context.Context) (*dto.PendingTopicsResponse, error) {
	key := pendingTopicsCacheKey()
	var cached dto.PendingTopicsResponse
	slot, hit := s.cache.Get(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	rows, err := s.topics.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch pending topics")
	}
	resp := &dto.PendingTopicsResponse{Count: len(rows), Topics: make([]dto.PendingTopic, 0, len(rows))}
	for _, row := range rows {
		resp.Topics = append(resp.Topics, dto.NewPendingTopic(row))
	}
	s.cache.Set(ctx, slot, resp)
	return resp, nil
}

// Supervisor returns the teacher profile of the calling account.
func (s *TopicService) Supervisor(ctx context.Context, accountID int64) (*dto.Supervisor, error) {
	profile, err := s.teachers.FindProfileByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No teacher found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supervisor")
	}
	supervisor := dto.NewSupervisor(*profile)
	return &supervisor, nil
}

// Create stores a new pending topic owned by the caller's teacher profile,
// or by nobody when the caller is not a teacher or unknown.
func (s *TopicService) Create(ctx context.Context, accountID *int64, req dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}

	topic := &models.Topic{
		Title:              req.Title,
		Description:        req.Description,
		TopicJustification: normalizeOptional(req.TopicJustification),
		IsStandard:         true,
	}
	if req.IsStandard != nil {
		topic.IsStandard = *req.IsStandard
	}
	if req.MaxMembers != nil {
		topic.MaxMembers = *req.MaxMembers
	}
	workflow.NewTopic(topic)

	var owner *models.TeacherProfile
	if accountID != nil {
		profile, err := s.teachers.FindProfileByAccountID(ctx, *accountID)
		switch {
		case err == nil:
			owner = profile
			topic.TeacherID = &profile.ID
		case !errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve topic owner")
		}
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrOperationFailed.Code, appErrors.ErrOperationFailed.Status, "failed to create topic")
	}
	s.cache.InvalidateTopics(ctx)
	s.metrics.RecordTransition("topic", "", string(topic.Status))
	logger.FromContext(ctx, s.logger).Info("topic created", zap.Int64("topic_id", topic.ID), zap.Bool("has_owner", owner != nil))

	resp := dto.NewTopicResponse(*topic, owner, nil)
	return &resp, nil
}

// Approve moves a topic to APPROVED from any state.
func (s *TopicService) Approve(ctx context.Context, id int64) (*dto.TopicResponse, error) {
	return s.decide(ctx, id, func(topic *models.Topic) (workflow.Transition, error) {
		return workflow.ApproveTopic(topic), nil
	})
}

// Reject moves a topic to REJECTED with a reason.
func (s *TopicService) Reject(ctx context.Context, id int64, reason string) (*dto.TopicResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Rejection reason is required")
	}
	return s.decide(ctx, id, func(topic *models.Topic) (workflow.Transition, error) {
		return workflow.RejectTopic(topic, reason)
	})
}

func (s *TopicService) decide(ctx context.Context, id int64, apply func(*models.Topic) (workflow.Transition, error)) (*dto.TopicResponse, error) {
	var (
		updated *models.Topic
		tr      workflow.Transition
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		topic, err := s.topics.FindByIDForUpdate(ctx, id)
		if err != nil {
			return topicLoadError(err)
		}
		if tr, err = apply(topic); err != nil {
			return err
		}
		if err := s.topics.UpdateWorkflow(ctx, topic); err != nil {
			return appErrors.Wrap(err, appErrors.ErrOperationFailed.Code, appErrors.ErrOperationFailed.Status, "failed to update topic")
		}
		updated = topic
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateTopics(ctx)
	s.metrics.RecordTransition("topic", string(tr.From), string(tr.To))
	logger.FromContext(ctx, s.logger).Info("topic status changed",
		zap.Int64("topic_id", id),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
	)

	result, err := s.hydrate(ctx, []models.Topic{*updated})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

// BulkApprove approves every listed topic in one statement.
func (s *TopicService) BulkApprove(ctx context.Context, ids []int64) (int64, error) {
	valid, err := workflow.BulkApprovalIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(valid) == 0 {
		return 0, nil
	}

	var count int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.topics.BulkApprove(ctx, valid)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrOperationFailed.Code, appErrors.ErrOperationFailed.Status, "failed to approve topics")
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cache.InvalidateTopics(ctx)
	s.metrics.RecordTransitions("topic", "*", string(models.TopicApproved), count)
	logger.FromContext(ctx, s.logger).Info("topics approved in bulk",
		zap.Int64s("topic_ids", valid),
		zap.Int("requested", len(valid)),
		zap.Int64("updated", count),
	)
	return count, nil
}

// hydrate attaches supervisors and teams to topics with two batched queries.
func (s *TopicService) hydrate(ctx context.Context, topics []models.Topic) ([]dto.TopicResponse, error) {
	result := make([]dto.TopicResponse, 0, len(topics))
	if len(topics) == 0 {
		return result, nil
	}

	topicIDs := make([]int64, 0, len(topics))
	var teacherIDs []int64
	seen := make(map[int64]struct{})
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
		if t.TeacherID == nil {
			continue
		}
		if _, ok := seen[*t.TeacherID]; !ok {
			seen[*t.TeacherID] = struct{}{}
			teacherIDs = append(teacherIDs, *t.TeacherID)
		}
	}

	profiles, err := s.teachers.ListProfilesByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supervisors")
	}
	teams, err := s.students.ListTeamsByTopicIDs(ctx, topicIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic teams")
	}

	for _, t := range topics {
		var supervisor *models.TeacherProfile
		if t.TeacherID != nil {
			if p, ok := profiles[*t.TeacherID]; ok {
				supervisor = &p
			}
		}
		result = append(result, dto.NewTopicResponse(t, supervisor, teams[t.ID]))
	}
	return result, nil
}

func topicLoadError(err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "topic not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
