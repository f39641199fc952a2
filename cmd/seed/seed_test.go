package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/models"
	"github.com/noah-isme/thesis-api/pkg/password"
)

type seedStore struct {
	accounts map[string]*models.Account
	teachers map[int64]*models.Teacher
	students []models.Student
	topics   []models.Topic
	nextID   int64
}

func newSeedStore() *seedStore {
	return &seedStore{accounts: map[string]*models.Account{}, teachers: map[int64]*models.Teacher{}}
}

func (s *seedStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *seedStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seedAccounts struct{ *seedStore }

func (a seedAccounts) FindByLogin(_ context.Context, login string) (*models.Account, error) {
	acc, ok := a.accounts[login]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return acc, nil
}

func (a seedAccounts) Create(_ context.Context, account *models.Account) error {
	account.ID = a.id()
	a.accounts[account.Login] = account
	return nil
}

type seedTeachers struct{ *seedStore }

func (t seedTeachers) FindProfileByAccountID(_ context.Context, accountID int64) (*models.TeacherProfile, error) {
	teacher, ok := t.teachers[accountID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.TeacherProfile{Teacher: *teacher}, nil
}

func (t seedTeachers) Create(_ context.Context, teacher *models.Teacher) error {
	teacher.ID = t.id()
	t.teachers[teacher.AccountID] = teacher
	return nil
}

type seedStudents struct{ *seedStore }

func (s seedStudents) Create(_ context.Context, student *models.Student) error {
	student.ID = s.id()
	s.students = append(s.students, *student)
	return nil
}

type seedTopics struct{ *seedStore }

func (t seedTopics) Count(context.Context) (int, error) {
	return len(t.topics), nil
}

func (t seedTopics) CountByTeacher(_ context.Context, teacherID int64) (int, error) {
	n := 0
	for _, topic := range t.topics {
		if topic.TeacherID != nil && *topic.TeacherID == teacherID {
			n++
		}
	}
	return n, nil
}

func (t seedTopics) Create(_ context.Context, topic *models.Topic) error {
	topic.ID = t.id()
	t.topics = append(t.topics, *topic)
	return nil
}

func newTestSeeder(store *seedStore) *seeder {
	return &seeder{
		tx:       store,
		accounts: seedAccounts{store},
		teachers: seedTeachers{store},
		students: seedStudents{store},
		topics:   seedTopics{store},
		logger:   zap.NewNop(),
	}
}

func TestSeederCreatesDefaultData(t *testing.T) {
	store := newSeedStore()
	require.NoError(t, newTestSeeder(store).Run(context.Background(), defaultPlan()))

	supervisor := store.accounts["supervisor"]
	require.NotNil(t, supervisor)
	assert.Equal(t, models.RoleTeacher, supervisor.Role)
	assert.True(t, password.Check(supervisor.PasswordHash, "password"))

	teacher := store.teachers[supervisor.ID]
	require.NotNil(t, teacher)
	assert.Equal(t, models.TitleDrHab, teacher.Title)

	assert.Len(t, store.students, 2)
	require.Len(t, store.topics, 2)
	assert.Equal(t, models.TopicPending, store.topics[0].Status)
	assert.Equal(t, models.TopicApproved, store.topics[1].Status)
	assert.Nil(t, store.topics[1].RejectionReason)
	assert.Equal(t, teacher.ID, *store.topics[0].TeacherID)
}

func TestSeederIsIdempotent(t *testing.T) {
	store := newSeedStore()
	s := newTestSeeder(store)
	require.NoError(t, s.Run(context.Background(), defaultPlan()))
	require.NoError(t, s.Run(context.Background(), defaultPlan()))

	assert.Len(t, store.accounts, 3)
	assert.Len(t, store.teachers, 1)
	assert.Len(t, store.students, 2)
	assert.Len(t, store.topics, 2)
}

func TestSeederHonoursPositionCapacity(t *testing.T) {
	plan := defaultPlan()
	plan.Supervisor.Position = models.PositionAssistant
	plan.Topics = append(plan.Topics, seedTopic{Title: "Third", Status: models.TopicPending, MaxMembers: 3})

	store := newSeedStore()
	require.NoError(t, newTestSeeder(store).Run(context.Background(), plan))

	assert.Len(t, store.topics, models.PositionAssistant.TopicCapacity())
}
