package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/models"
	"github.com/noah-isme/thesis-api/internal/workflow"
	"github.com/noah-isme/thesis-api/pkg/password"
)

type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type accountStore interface {
	FindByLogin(ctx context.Context, login string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}

type teacherStore interface {
	FindProfileByAccountID(ctx context.Context, accountID int64) (*models.TeacherProfile, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
}

type topicStore interface {
	Count(ctx context.Context) (int, error)
	CountByTeacher(ctx context.Context, teacherID int64) (int, error)
	Create(ctx context.Context, topic *models.Topic) error
}

type seedAccount struct {
	Login    string
	FullName string
	Password string
}

type seedSupervisor struct {
	seedAccount
	Title    models.AcademicTitle
	Position models.Position
}

type seedStudent struct {
	seedAccount
	IndexNumber string
}

type seedTopic struct {
	Title       string
	Description string
	Status      models.TopicStatus
	IsStandard  bool
	MaxMembers  int
}

type seedPlan struct {
	Supervisor seedSupervisor
	Students   []seedStudent
	Topics     []seedTopic
}

func defaultPlan() seedPlan {
	return seedPlan{
		Supervisor: seedSupervisor{
			seedAccount: seedAccount{Login: "supervisor", FullName: "Michał Ślimak", Password: "password"},
			Title:       models.TitleDrHab,
			Position:    models.PositionAssistantProfessor,
		},
		Students: []seedStudent{
			{seedAccount: seedAccount{Login: "student1", FullName: "Jan Kowalski", Password: "password"}, IndexNumber: "250001"},
			{seedAccount: seedAccount{Login: "student2", FullName: "Anna Wiśniewska", Password: "password"}, IndexNumber: "250002"},
		},
		Topics: []seedTopic{
			{
				Title:       "Watchout - system rejestracji zdarzeń zagrażających bezpieczeństwu",
				Description: "System do zgłaszania i monitorowania zagrożeń w czasie rzeczywistym.",
				Status:      models.TopicPending,
				IsStandard:  false,
				MaxMembers:  5,
			},
			{
				Title:       "Rozproszony system zarządzania personelem średnich przedsiębiorstw",
				Description: "Aplikacja webowa do zarządzania HR w firmach distributed-first.",
				Status:      models.TopicApproved,
				IsStandard:  true,
				MaxMembers:  4,
			},
		},
	}
}

// seeder fills an empty database with demo data. Running it twice is a no-op.
type seeder struct {
	tx       txRunner
	accounts accountStore
	teachers teacherStore
	students studentStore
	topics   topicStore
	logger   *zap.Logger
}

func (s *seeder) Run(ctx context.Context, plan seedPlan) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		teacher, err := s.ensureSupervisor(ctx, plan.Supervisor)
		if err != nil {
			return err
		}
		for _, st := range plan.Students {
			if err := s.ensureStudent(ctx, st); err != nil {
				return err
			}
		}
		return s.seedTopics(ctx, teacher, plan.Topics)
	})
}

func (s *seeder) ensureAccount(ctx context.Context, spec seedAccount, role models.UserRole) (*models.Account, bool, error) {
	account, err := s.accounts.FindByLogin(ctx, spec.Login)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find account %s: %w", spec.Login, err)
	}

	hash, err := password.Hash(spec.Password)
	if err != nil {
		return nil, false, err
	}
	account = &models.Account{FullName: spec.FullName, Login: spec.Login, PasswordHash: hash, Role: role}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, false, err
	}
	s.logger.Info("account created", zap.String("login", spec.Login), zap.String("role", string(role)))
	return account, true, nil
}

func (s *seeder) ensureSupervisor(ctx context.Context, spec seedSupervisor) (*models.Teacher, error) {
	account, _, err := s.ensureAccount(ctx, spec.seedAccount, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	profile, err := s.teachers.FindProfileByAccountID(ctx, account.ID)
	if err == nil {
		return &profile.Teacher, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find teacher profile: %w", err)
	}

	teacher := &models.Teacher{AccountID: account.ID, Title: spec.Title, Position: spec.Position}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, err
	}
	s.logger.Info("teacher profile created", zap.Int64("teacher_id", teacher.ID), zap.String("position", string(spec.Position)))
	return teacher, nil
}

func (s *seeder) ensureStudent(ctx context.Context, spec seedStudent) error {
	account, created, err := s.ensureAccount(ctx, spec.seedAccount, models.RoleStudent)
	if err != nil || !created {
		return err
	}
	return s.students.Create(ctx, &models.Student{AccountID: account.ID, IndexNumber: spec.IndexNumber})
}

// seedTopics only runs against an empty topic table and stops at the
// supervisor's position capacity.
func (s *seeder) seedTopics(ctx context.Context, teacher *models.Teacher, topics []seedTopic) error {
	total, err := s.topics.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.Info("topics already present, skipping", zap.Int("count", total))
		return nil
	}

	owned, err := s.topics.CountByTeacher(ctx, teacher.ID)
	if err != nil {
		return err
	}
	capacity := teacher.Position.TopicCapacity()

	for _, spec := range topics {
		if owned >= capacity {
			s.logger.Warn("supervisor at capacity, remaining topics skipped",
				zap.Int64("teacher_id", teacher.ID),
				zap.Int("capacity", capacity),
			)
			break
		}
		description := spec.Description
		teacherID := teacher.ID
		topic := &models.Topic{
			Title:       spec.Title,
			Description: &description,
			IsStandard:  spec.IsStandard,
			MaxMembers:  spec.MaxMembers,
			TeacherID:   &teacherID,
		}
		workflow.NewTopic(topic)
		if spec.Status == models.TopicApproved {
			workflow.ApproveTopic(topic)
		}
		if err := s.topics.Create(ctx, topic); err != nil {
			return err
		}
		owned++
	}
	return nil
}
