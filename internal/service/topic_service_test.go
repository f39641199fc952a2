package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/dto"
	"github.com/noah-isme/thesis-api/internal/models"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func newTopicServiceWithStore(m *memStore) *TopicService {
	return NewTopicService(m, topicView{m}, teacherView{m}, studentView{m}, nil, NewMetricsService(), nil, zap.NewNop())
}

func seedSupervisor(m *memStore) {
	m.addAccount(1, "Michal Slimak", models.RoleTeacher)
	m.addTeacher(10, 1, models.TitleDrHab)
}

func TestTopicServiceListBySupervisor(t *testing.T) {
	m := newMemStore()
	seedSupervisor(m)
	m.addAccount(2, "Anna Nowak", models.RoleStudent)
	m.addTopic(models.Topic{ID: 1, Title: "Scheduling", TeacherID: int64Ptr(10), IsOpen: true, MaxMembers: 4})
	m.addTopic(models.Topic{ID: 2, Title: "Orphan"})
	m.addStudent(20, 2, "100001", int64Ptr(1))
	svc := newTopicServiceWithStore(m)

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].Supervisor)
	assert.Equal(t, "Michal", all[0].Supervisor.FirstName)
	assert.Equal(t, "dr hab", all[0].Supervisor.Title)
	require.Len(t, all[0].Team, 1)
	assert.Equal(t, "100001", all[0].Team[0].IndexNumber)
	assert.Nil(t, all[1].Supervisor)
	assert.NotNil(t, all[1].Team)

	mine, err := svc.List(context.Background(), int64Ptr(10))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(1), mine[0].ID)
}

func TestTopicServiceListUnknownSupervisorIsEmpty(t *testing.T) {
	m := newMemStore()
	seedSupervisor(m)
	m.addTopic(models.Topic{ID: 1, Title: "Scheduling", TeacherID: int64Ptr(10)})
	svc := newTopicServiceWithStore(m)

	topics, err := svc.List(context.Background(), int64Ptr(999))
	require.NoError(t, err)
	require.NotNil(t, topics)
	assert.Empty(t, topics)
}

func TestTopicServiceGetNotFound(t *testing.T) {
	svc := newTopicServiceWithStore(newMemStore())
	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestTopicServiceCreate(t *testing.T) {
	m := newMemStore()
	seedSupervisor(m)
	svc := newTopicServiceWithStore(m)

	resp, err := svc.Create(context.Background(), int64Ptr(1), dto.CreateTopicRequest{
		Title:              "  Distributed HR system ",
		TopicJustification: strPtr("   "),
		IsStandard:         boolPtr(false),
		MaxMembers:         intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Distributed HR system", resp.Title)
	assert.Equal(t, models.TopicPending, resp.Status)
	assert.True(t, resp.IsOpen)
	assert.False(t, resp.IsStandard)
	assert.Equal(t, 5, resp.MaxMembers)
	assert.Nil(t, resp.TopicJustification)
	assert.Nil(t, resp.RejectionReason)
	assert.Equal(t, "2024-03-01", resp.CreationDate)
	require.NotNil(t, resp.Supervisor)
	assert.Equal(t, int64(10), resp.Supervisor.ID)

	stored := m.topics[resp.ID]
	require.NotNil(t, stored.TeacherID)
	assert.Equal(t, int64(10), *stored.TeacherID)
}

func TestTopicServiceCreateWithoutTeacherProfile(t *testing.T) {
	m := newMemStore()
	m.addAccount(2, "Anna Nowak", models.RoleStudent)
	svc := newTopicServiceWithStore(m)

	resp, err := svc.Create(context.Background(), int64Ptr(2), dto.CreateTopicRequest{Title: "Scheduling"})
	require.NoError(t, err)
	assert.Nil(t, resp.Supervisor)
	assert.True(t, resp.IsStandard)
	assert.Equal(t, models.DefaultMaxMembers, resp.MaxMembers)

	resp, err = svc.Create(context.Background(), nil, dto.CreateTopicRequest{Title: "Anonymous"})
	require.NoError(t, err)
	assert.Nil(t, m.topics[resp.ID].TeacherID)
}

func TestTopicServiceCreateValidation(t *testing.T) {
	svc := newTopicServiceWithStore(newMemStore())
	_, err := svc.Create(context.Background(), nil, dto.CreateTopicRequest{Title: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTopicServiceRejectThenApprove(t *testing.T) {
	m := newMemStore()
	m.addTopic(models.Topic{ID: 1, Title: "Scheduling"})
	svc := newTopicServiceWithStore(m)
	ctx := context.Background()

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TopicPending, got.Status)
	assert.Nil(t, got.RejectionReason)

	rejected, err := svc.Reject(ctx, 1, "too simple")
	require.NoError(t, err)
	assert.Equal(t, models.TopicRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "too simple", *rejected.RejectionReason)

	got, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "too simple", *got.RejectionReason)

	approved, err := svc.Approve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TopicApproved, approved.Status)
	assert.Nil(t, approved.RejectionReason)
	assert.Nil(t, m.topics[1].RejectionReason)
}

func TestTopicServiceRejectRequiresReason(t *testing.T) {
	m := newMemStore()
	m.addTopic(models.Topic{ID: 1, Title: "Scheduling", Status: models.TopicApproved})
	svc := newTopicServiceWithStore(m)

	_, err := svc.Reject(context.Background(), 1, " ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Rejection reason is required", err.Error())
	assert.Equal(t, models.TopicApproved, m.topics[1].Status)
	assert.Zero(t, m.txCount)
}

func TestTopicServiceApproveMissingTopic(t *testing.T) {
	m := newMemStore()
	svc := newTopicServiceWithStore(m)
	_, err := svc.Approve(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, m.rollbacks)
}

func TestTopicServiceApproveRollsBackOnWriteFailure(t *testing.T) {
	m := newMemStore()
	m.addTopic(models.Topic{ID: 1, Title: "Scheduling", Status: models.TopicRejected, RejectionReason: strPtr("scope")})
	m.fail["topics.UpdateWorkflow"] = errors.New("connection reset")
	svc := newTopicServiceWithStore(m)

	_, err := svc.Approve(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrOperationFailed))
	assert.Equal(t, models.TopicRejected, m.topics[1].Status)
}

func TestTopicServiceBulkApprove(t *testing.T) {
	m := newMemStore()
	m.addTopic(models.Topic{ID: 1, Title: "A"})
	m.addTopic(models.Topic{ID: 2, Title: "B", Status: models.TopicRejected, RejectionReason: strPtr("scope")})
	m.addTopic(models.Topic{ID: 3, Title: "C"})
	svc := newTopicServiceWithStore(m)

	count, err := svc.BulkApprove(context.Background(), []int64{1, 2, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, models.TopicApproved, m.topics[2].Status)
	assert.Nil(t, m.topics[2].RejectionReason)
	assert.Equal(t, models.TopicPending, m.topics[3].Status)
}

func TestTopicServiceBulkApproveRecordsTransitions(t *testing.T) {
	m := newMemStore()
	m.addTopic(models.Topic{ID: 1, Title: "A"})
	m.addTopic(models.Topic{ID: 2, Title: "B"})
	metrics := NewMetricsService()
	svc := NewTopicService(m, topicView{m}, teacherView{m}, studentView{m}, nil, metrics, nil, nil)

	_, err := svc.BulkApprove(context.Background(), []int64{1, 2, 404})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `workflow_transitions_total{entity="topic",from="*",to="APPROVED"} 2`)
}

func TestTopicServiceBulkApproveEmpty(t *testing.T) {
	m := newMemStore()
	svc := newTopicServiceWithStore(m)

	_, err := svc.BulkApprove(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "No topics provided", err.Error())
	assert.Zero(t, m.txCount)
}

func TestTopicServiceListPending(t *testing.T) {
	m := newMemStore()
	seedSupervisor(m)
	m.addAccount(2, "Anna Nowak", models.RoleStudent)
	m.addTopic(models.Topic{ID: 1, Title: "Machine Learning in Healthcare", TeacherID: int64Ptr(10)})
	m.addTopic(models.Topic{ID: 2, Title: "Blockchain", Status: models.TopicApproved})
	m.addStudent(20, 2, "100001", int64Ptr(1))
	svc := newTopicServiceWithStore(m)

	resp, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Topics, 1)
	assert.Equal(t, "dr hab", *resp.Topics[0].TeacherTitle)
	assert.Equal(t, "Michal Slimak", *resp.Topics[0].TeacherFullName)
	assert.Equal(t, 1, resp.Topics[0].StudentCount)
	assert.Equal(t, "2024-01-15", resp.Topics[0].CreationDate)
}

func TestTopicServiceListPendingFailure(t *testing.T) {
	m := newMemStore()
	m.fail["topics.ListPending"] = errors.New("database connection error")
	svc := newTopicServiceWithStore(m)

	_, err := svc.ListPending(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Failed to fetch pending topics", appErr.Message)
	assert.Equal(t, "database connection error", appErr.Detail())
	assert.Equal(t, 500, appErr.Status)
}

func TestTopicServiceSupervisor(t *testing.T) {
	m := newMemStore()
	seedSupervisor(m)
	svc := newTopicServiceWithStore(m)

	sup, err := svc.Supervisor(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sup.ID)
	assert.Equal(t, "Slimak", sup.LastName)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Michal+Slimak&background=random", sup.Avatar)

	_, err = svc.Supervisor(context.Background(), 77)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
