package workflow

import (
	"fmt"
	"time"

	"github.com/noah-isme/thesis-api/internal/models"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
)

// MarkSubmitted returns current moved to SUBMITTED, or a new SUBMITTED
// declaration (ID 0) when current is nil. A declaration that is already
// submitted keeps its original submission moment.
func MarkSubmitted(current *models.Declaration, now time.Time) *models.Declaration {
	if current == nil {
		return &models.Declaration{Status: models.DeclarationSubmitted, SubmissionDate: now}
	}
	if current.Status != models.DeclarationSubmitted {
		current.Status = models.DeclarationSubmitted
		current.SubmissionDate = now
	}
	return current
}

// SubmitTopicDeclaration is the plain submission path: it refuses a topic
// whose declaration is already submitted.
func SubmitTopicDeclaration(topic *models.Topic, current *models.Declaration, now time.Time) (*models.Declaration, error) {
	if current.Submitted() {
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, fmt.Sprintf("declaration for topic %d already submitted", topic.ID))
	}
	return MarkSubmitted(current, now), nil
}

// AssignStudent puts the student on the topic. It reports whether anything changed.
func AssignStudent(s *models.Student, topicID int64) bool {
	if s.TopicID != nil && *s.TopicID == topicID {
		return false
	}
	id := topicID
	s.TopicID = &id
	return true
}

// StudentDeclarationPlan is the outcome of a student confirming a topic.
type StudentDeclarationPlan struct {
	Declaration *models.Declaration
	Student     *models.Student
}

// PlanStudentDeclaration submits the student's own declaration, assigns the
// student to the topic and sets the student's approval flag. The topic-level
// declaration and other students are left alone.
func PlanStudentDeclaration(student *models.Student, topic *models.Topic, current *models.Declaration, now time.Time) StudentDeclarationPlan {
	decl := MarkSubmitted(current, now)
	AssignStudent(student, topic.ID)
	student.IsDeclarationApproved = true
	return StudentDeclarationPlan{Declaration: decl, Student: student}
}

// TeacherDeclarationPlan is the outcome of a teacher confirming a topic.
type TeacherDeclarationPlan struct {
	Declaration *models.Declaration
	Topic       *models.Topic
	Teacher     *models.Teacher
	Students    []*models.Student
	Transition  Transition
}

// PlanTeacherDeclaration submits the topic-level declaration, approves every
// student currently on the topic, sets the teacher's own flag and approves
// the topic.
func PlanTeacherDeclaration(teacher *models.Teacher, topic *models.Topic, current *models.Declaration, team []*models.Student, now time.Time) TeacherDeclarationPlan {
	decl := MarkSubmitted(current, now)
	for _, s := range team {
		s.IsDeclarationApproved = true
	}
	teacher.IsDeclarationApproved = true
	tr := ApproveTopic(topic)
	return TeacherDeclarationPlan{
		Declaration: decl,
		Topic:       topic,
		Teacher:     teacher,
		Students:    team,
		Transition:  tr,
	}
}
