package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/dto"
	"github.com/noah-isme/thesis-api/internal/models"
	"github.com/noah-isme/thesis-api/internal/workflow"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/logger"
)

type declarationTopicRepository interface {
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Topic, error)
	UpdateWorkflow(ctx context.Context, topic *models.Topic) error
}

type declarationStudentRepository interface {
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Student, error)
	FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Student, error)
	ListByTopicForUpdate(ctx context.Context, topicID int64) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
}

type declarationTeacherRepository interface {
	FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Teacher, error)
	SetDeclarationApproved(ctx context.Context, id int64, approved bool) error
}

type declarationRepository interface {
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Declaration, error)
	Save(ctx context.Context, decl *models.Declaration) error
}

type accountLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Account, error)
}

// DeclarationService runs the declaration workflows. Every call is one
// transaction; nothing is written unless the whole call succeeds.
type DeclarationService struct {
	tx           txRunner
	accounts     accountLookup
	topics       declarationTopicRepository
	students     declarationStudentRepository
	teachers     declarationTeacherRepository
	declarations declarationRepository
	cache        *CacheService
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// DeclarationServiceParams groups the collaborators of DeclarationService.
type DeclarationServiceParams struct {
	Tx           txRunner
	Accounts     accountLookup
	Topics       declarationTopicRepository
	Students     declarationStudentRepository
	Teachers     declarationTeacherRepository
	Declarations declarationRepository
	Cache        *CacheService
	Metrics      *MetricsService
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewDeclarationService constructs a DeclarationService.
func NewDeclarationService(p DeclarationServiceParams) *DeclarationService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	return &DeclarationService{
		tx:           p.Tx,
		accounts:     p.Accounts,
		topics:       p.Topics,
		students:     p.Students,
		teachers:     p.Teachers,
		declarations: p.Declarations,
		cache:        p.Cache,
		metrics:      p.Metrics,
		logger:       p.Logger,
		now:          p.Now,
	}
}

// Submit submits the topic-level declaration and optionally puts a student
// on the topic. A topic whose declaration is already submitted is refused.
func (s *DeclarationService) Submit(ctx context.Context, topicID int64, studentID *int64) (*dto.DeclarationResult, error) {
	var result *dto.DeclarationResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		topic, err := s.topics.FindByIDForUpdate(ctx, topicID)
		if err != nil {
			return notFoundOr(err, "topic not found")
		}

		current, err := s.loadDeclaration(ctx, topic.DeclarationID)
		if err != nil {
			return err
		}
		previous := declarationStatus(current)
		decl, err := workflow.SubmitTopicDeclaration(topic, current, s.now())
		if err != nil {
			return err
		}

		var student *models.Student
		if studentID != nil {
			if student, err = s.students.FindByIDForUpdate(ctx, *studentID); err != nil {
				return notFoundOr(err, "student not found")
			}
		}

		if err := s.declarations.Save(ctx, decl); err != nil {
			return err
		}
		topic.DeclarationID = &decl.ID
		if err := s.topics.UpdateWorkflow(ctx, topic); err != nil {
			return err
		}
		if student != nil && workflow.AssignStudent(student, topic.ID) {
			if err := s.students.Update(ctx, student); err != nil {
				return err
			}
		}

		s.metrics.RecordTransition("declaration", previous, string(decl.Status))
		result = &dto.DeclarationResult{
			Message:           "Declaration submitted successfully",
			DeclarationID:     decl.ID,
			DeclarationStatus: decl.Status,
			SubmissionDate:    decl.SubmissionDate,
			TopicID:           topic.ID,
			StudentID:         studentID,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(err, "submit declaration", topicID)
	}
	s.cache.InvalidateTopics(ctx)
	return result, nil
}

// Handle confirms a topic on behalf of an account. Students confirm their
// own participation; teachers confirm the whole topic, approving it along
// with everyone assigned to it.
func (s *DeclarationService) Handle(ctx context.Context, accountID, topicID int64) (*dto.DeclarationResult, error) {
	var result *dto.DeclarationResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, accountID)
		if err != nil {
			return notFoundOr(err, "user not found")
		}
		topic, err := s.topics.FindByIDForUpdate(ctx, topicID)
		if err != nil {
			return notFoundOr(err, "topic not found")
		}

		actor, err := s.resolveActor(ctx, *account)
		if err != nil {
			return err
		}

		switch actor.Kind {
		case workflow.ActorStudent:
			result, err = s.handleStudent(ctx, actor.Student, topic)
		case workflow.ActorTeacher:
			result, err = s.handleTeacher(ctx, actor.Teacher, topic)
		default:
			err = appErrors.Clone(appErrors.ErrInvalidRole, "User is neither a student nor a teacher")
		}
		return err
	})
	if err != nil {
		return nil, s.fail(err, "handle declaration", topicID)
	}
	s.cache.InvalidateTopics(ctx)
	return result, nil
}

// resolveActor loads only the profile the account role calls for.
func (s *DeclarationService) resolveActor(ctx context.Context, account models.Account) (workflow.Actor, error) {
	var (
		student *models.Student
		teacher *models.Teacher
		err     error
	)
	switch {
	case account.Role == models.RoleStudent:
		student, err = s.students.FindByAccountIDForUpdate(ctx, account.ID)
	case account.Role.HoldsTeacherProfile():
		teacher, err = s.teachers.FindByAccountIDForUpdate(ctx, account.ID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return workflow.Actor{}, err
	}
	return workflow.ResolveActor(account, student, teacher), nil
}

func (s *DeclarationService) handleStudent(ctx context.Context, student *models.Student, topic *models.Topic) (*dto.DeclarationResult, error) {
	current, err := s.loadDeclaration(ctx, student.DeclarationID)
	if err != nil {
		return nil, err
	}
	previous := declarationStatus(current)

	plan := workflow.PlanStudentDeclaration(student, topic, current, s.now())
	if err := s.declarations.Save(ctx, plan.Declaration); err != nil {
		return nil, err
	}
	student.DeclarationID = &plan.Declaration.ID
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("declaration", previous, string(plan.Declaration.Status))
	logger.FromContext(ctx, s.logger).Info("student declaration approved",
		zap.Int64("student_id", student.ID),
		zap.Int64("topic_id", topic.ID),
		zap.Int64("declaration_id", plan.Declaration.ID),
	)
	studentID := student.ID
	return &dto.DeclarationResult{
		Message:           "Student declaration approved",
		DeclarationID:     plan.Declaration.ID,
		DeclarationStatus: plan.Declaration.Status,
		SubmissionDate:    plan.Declaration.SubmissionDate,
		TopicID:           topic.ID,
		StudentID:         &studentID,
		Role:              workflow.ActorStudent.String(),
	}, nil
}

func (s *DeclarationService) handleTeacher(ctx context.Context, teacher *models.Teacher, topic *models.Topic) (*dto.DeclarationResult, error) {
	current, err := s.loadDeclaration(ctx, topic.DeclarationID)
	if err != nil {
		return nil, err
	}
	previous := declarationStatus(current)

	assigned, err := s.students.ListByTopicForUpdate(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	team := make([]*models.Student, len(assigned))
	for i := range assigned {
		team[i] = &assigned[i]
	}

	plan := workflow.PlanTeacherDeclaration(teacher, topic, current, team, s.now())
	if err := s.declarations.Save(ctx, plan.Declaration); err != nil {
		return nil, err
	}
	topic.DeclarationID = &plan.Declaration.ID
	if err := s.topics.UpdateWorkflow(ctx, topic); err != nil {
		return nil, err
	}
	for _, student := range plan.Students {
		if err := s.students.Update(ctx, student); err != nil {
			return nil, err
		}
	}
	if err := s.teachers.SetDeclarationApproved(ctx, teacher.ID, true); err != nil {
		return nil, err
	}

	s.metrics.RecordTransition("declaration", previous, string(plan.Declaration.Status))
	s.metrics.RecordTransition("topic", string(plan.Transition.From), string(plan.Transition.To))
	logger.FromContext(ctx, s.logger).Info("teacher declaration approved",
		zap.Int64("teacher_id", teacher.ID),
		zap.Int64("topic_id", topic.ID),
		zap.Int("students", len(plan.Students)),
		zap.Int64("declaration_id", plan.Declaration.ID),
	)
	return &dto.DeclarationResult{
		Message:           "Teacher declaration approved",
		DeclarationID:     plan.Declaration.ID,
		DeclarationStatus: plan.Declaration.Status,
		SubmissionDate:    plan.Declaration.SubmissionDate,
		TopicID:           topic.ID,
		Role:              workflow.ActorTeacher.String(),
	}, nil
}

func (s *DeclarationService) loadDeclaration(ctx context.Context, id *int64) (*models.Declaration, error) {
	if id == nil {
		return nil, nil
	}
	decl, err := s.declarations.FindByIDForUpdate(ctx, *id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decl, nil
}

// fail keeps domain errors and reports everything else as OperationFailed
// carrying the underlying message.
func (s *DeclarationService) fail(err error, op string, topicID int64) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(op+" failed", zap.Int64("topic_id", topicID), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrOperationFailed.Code, appErrors.ErrOperationFailed.Status, "Operation failed")
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return err
}

func declarationStatus(decl *models.Declaration) string {
	if decl == nil {
		return ""
	}
	return string(decl.Status)
}
