package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/noah-isme/thesis-api/internal/models"
)

// memStore is an in-memory stand-in for the repositories. Its WithinTx
// snapshots state and restores it when fn fails, mirroring a rollback.
type memStore struct {
	accounts     map[int64]models.Account
	teachers     map[int64]models.Teacher
	students     map[int64]models.Student
	topics       map[int64]models.Topic
	declarations map[int64]models.Declaration
	names        map[int64]string
	nextID       int64
	fail         map[string]error
	txCount      int
	rollbacks    int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     map[int64]models.Account{},
		teachers:     map[int64]models.Teacher{},
		students:     map[int64]models.Student{},
		topics:       map[int64]models.Topic{},
		declarations: map[int64]models.Declaration{},
		names:        map[int64]string{},
		nextID:       100,
		fail:         map[string]error{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addAccount(id int64, name string, role models.UserRole) {
	m.accounts[id] = models.Account{ID: id, FullName: name, Login: name, Role: role}
	m.names[id] = name
}

func (m *memStore) addTeacher(id, accountID int64, title models.AcademicTitle) {
	m.teachers[id] = models.Teacher{ID: id, AccountID: accountID, Title: title, Position: models.PositionAssistantProfessor}
}

func (m *memStore) addStudent(id, accountID int64, index string, topicID *int64) {
	m.students[id] = models.Student{ID: id, AccountID: accountID, IndexNumber: index, TopicID: topicID}
}

func (m *memStore) addTopic(t models.Topic) {
	if t.Status == "" {
		t.Status = models.TopicPending
	}
	if t.CreationDate.IsZero() {
		t.CreationDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	}
	m.topics[t.ID] = t
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txCount++
	snapshot := m.clone()
	if err := fn(ctx); err != nil {
		m.restore(snapshot)
		m.rollbacks++
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := &memStore{
		accounts:     map[int64]models.Account{},
		teachers:     map[int64]models.Teacher{},
		students:     map[int64]models.Student{},
		topics:       map[int64]models.Topic{},
		declarations: map[int64]models.Declaration{},
		nextID:       m.nextID,
	}
	for k, v := range m.accounts {
		c.accounts[k] = v
	}
	for k, v := range m.teachers {
		c.teachers[k] = v
	}
	for k, v := range m.students {
		c.students[k] = v
	}
	for k, v := range m.topics {
		c.topics[k] = v
	}
	for k, v := range m.declarations {
		c.declarations[k] = v
	}
	return c
}

func (m *memStore) restore(c *memStore) {
	m.accounts, m.teachers, m.students = c.accounts, c.teachers, c.students
	m.topics, m.declarations, m.nextID = c.topics, c.declarations, c.nextID
}

type accountView struct{ m *memStore }

func (v accountView) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	if err := v.m.fail["accounts.FindByID"]; err != nil {
		return nil, err
	}
	a, ok := v.m.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (v accountView) List(ctx context.Context) ([]models.Account, error) {
	if err := v.m.fail["accounts.List"]; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(v.m.accounts))
	for id := range v.m.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		result = append(result, v.m.accounts[id])
	}
	return result, nil
}

type topicView struct{ m *memStore }

func (v topicView) List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	if err := v.m.fail["topics.List"]; err != nil {
		return nil, err
	}
	var result []models.Topic
	for _, t := range v.m.topics {
		if filter.TeacherID != nil && (t.TeacherID == nil || *t.TeacherID != *filter.TeacherID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (v topicView) ListPending(ctx context.Context) ([]models.PendingTopicRow, error) {
	if err := v.m.fail["topics.ListPending"]; err != nil {
		return nil, err
	}
	pending := models.TopicPending
	topics, _ := v.List(ctx, models.TopicFilter{Status: &pending})
	rows := make([]models.PendingTopicRow, 0, len(topics))
	for _, t := range topics {
		row := models.PendingTopicRow{ID: t.ID, Title: t.Title, Description: t.Description, Status: t.Status, CreationDate: t.CreationDate}
		if t.TeacherID != nil {
			teacher := v.m.teachers[*t.TeacherID]
			title := teacher.Title
			name := v.m.names[teacher.AccountID]
			row.TeacherTitle, row.TeacherFullName = &title, &name
		}
		for _, s := range v.m.students {
			if s.TopicID != nil && *s.TopicID == t.ID {
				row.StudentCount++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (v topicView) FindByID(ctx context.Context, id int64) (*models.Topic, error) {
	t, ok := v.m.topics[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (v topicView) FindByIDForUpdate(ctx context.Context, id int64) (*models.Topic, error) {
	return v.FindByID(ctx, id)
}

func (v topicView) Create(ctx context.Context, topic *models.Topic) error {
	if err := v.m.fail["topics.Create"]; err != nil {
		return err
	}
	topic.ID = v.m.id()
	topic.CreationDate = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	v.m.topics[topic.ID] = *topic
	return nil
}

func (v topicView) UpdateWorkflow(ctx context.Context, topic *models.Topic) error {
	if err := v.m.fail["topics.UpdateWorkflow"]; err != nil {
		return err
	}
	stored, ok := v.m.topics[topic.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = topic.Status
	stored.RejectionReason = topic.RejectionReason
	stored.DeclarationID = topic.DeclarationID
	v.m.topics[topic.ID] = stored
	return nil
}

func (v topicView) BulkApprove(ctx context.Context, ids []int64) (int64, error) {
	if err := v.m.fail["topics.BulkApprove"]; err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		t, ok := v.m.topics[id]
		if !ok {
			continue
		}
		t.Status = models.TopicApproved
		t.RejectionReason = nil
		v.m.topics[id] = t
		n++
	}
	return n, nil
}

type teacherView struct{ m *memStore }

func (v teacherView) profile(t models.Teacher) models.TeacherProfile {
	return models.TeacherProfile{Teacher: t, FullName: v.m.names[t.AccountID]}
}

func (v teacherView) FindProfileByAccountID(ctx context.Context, accountID int64) (*models.TeacherProfile, error) {
	for _, t := range v.m.teachers {
		if t.AccountID == accountID {
			p := v.profile(t)
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (v teacherView) ListProfilesByIDs(ctx context.Context, ids []int64) (map[int64]models.TeacherProfile, error) {
	result := map[int64]models.TeacherProfile{}
	for _, id := range ids {
		if t, ok := v.m.teachers[id]; ok {
			result[id] = v.profile(t)
		}
	}
	return result, nil
}

func (v teacherView) FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Teacher, error) {
	for _, t := range v.m.teachers {
		if t.AccountID == accountID {
			teacher := t
			return &teacher, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (v teacherView) SetDeclarationApproved(ctx context.Context, id int64, approved bool) error {
	if err := v.m.fail["teachers.SetDeclarationApproved"]; err != nil {
		return err
	}
	t := v.m.teachers[id]
	t.IsDeclarationApproved = approved
	v.m.teachers[id] = t
	return nil
}

type studentView struct{ m *memStore }

func (v studentView) FindByIDForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := v.m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (v studentView) FindByAccountIDForUpdate(ctx context.Context, accountID int64) (*models.Student, error) {
	for _, s := range v.m.students {
		if s.AccountID == accountID {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (v studentView) ListByTopicForUpdate(ctx context.Context, topicID int64) ([]models.Student, error) {
	var result []models.Student
	for _, s := range v.m.students {
		if s.TopicID != nil && *s.TopicID == topicID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (v studentView) ListTeamsByTopicIDs(ctx context.Context, topicIDs []int64) (map[int64][]models.TeamMember, error) {
	result := map[int64][]models.TeamMember{}
	for _, topicID := range topicIDs {
		students, _ := v.ListByTopicForUpdate(ctx, topicID)
		for _, s := range students {
			result[topicID] = append(result[topicID], models.TeamMember{
				StudentID:   s.ID,
				TopicID:     topicID,
				IndexNumber: s.IndexNumber,
				FullName:    v.m.names[s.AccountID],
			})
		}
	}
	return result, nil
}

func (v studentView) Update(ctx context.Context, student *models.Student) error {
	if err := v.m.fail["students.Update"]; err != nil {
		return err
	}
	if _, ok := v.m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	v.m.students[student.ID] = *student
	return nil
}

type declarationView struct{ m *memStore }

func (v declarationView) FindByIDForUpdate(ctx context.Context, id int64) (*models.Declaration, error) {
	d, ok := v.m.declarations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (v declarationView) Save(ctx context.Context, decl *models.Declaration) error {
	if err := v.m.fail["declarations.Save"]; err != nil {
		return err
	}
	if decl.ID == 0 {
		decl.ID = v.m.id()
	}
	v.m.declarations[decl.ID] = *decl
	return nil
}
