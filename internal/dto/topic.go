package dto

import (
	"net/url"
	"strings"

	"github.com/noah-isme/thesis-api/internal/models"
)

const avatarBaseURL = "https://ui-avatars.com/api/"

// TopicResponse is the topic detail consumed by the frontend.
type TopicResponse struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title"`
	Description        *string            `json:"description"`
	IsOpen             bool               `json:"isOpen"`
	IsStandard         bool               `json:"isStandard"`
	MaxMembers         int                `json:"maxMembers"`
	Status             models.TopicStatus `json:"status"`
	CreationDate       string             `json:"creationDate"`
	TopicJustification *string            `json:"topicJustification"`
	RejectionReason    *string            `json:"rejectionReason"`
	Supervisor         *Supervisor        `json:"supervisor"`
	Team               []TeamMember       `json:"team"`
}

// Supervisor describes the teacher owning a topic.
type Supervisor struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title"`
	Avatar    string `json:"avatar"`
}

// TeamMember is a student assigned to a topic.
type TeamMember struct {
	ID          int64  `json:"id"`
	IndexNumber string `json:"indexNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// PendingTopic is a row of the committee's pending list.
type PendingTopic struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title"`
	Description        *string            `json:"description"`
	Status             models.TopicStatus `json:"status"`
	TopicJustification *string            `json:"topic_justification"`
	CreationDate       string             `json:"creation_date"`
	TeacherTitle       *string            `json:"teacher_title"`
	TeacherFullName    *string            `json:"teacher_full_name"`
	StudentCount       int                `json:"student_count"`
}

// PendingTopicsResponse wraps the pending list with its size.
type PendingTopicsResponse struct {
	Count  int            `json:"count"`
	Topics []PendingTopic `json:"topics"`
}

// TopicActionResponse is returned by single topic approve and reject.
type TopicActionResponse struct {
	Message string        `json:"message"`
	Topic   TopicResponse `json:"topic"`
}

// BulkApproveResponse reports how many topics a bulk approval changed.
type BulkApproveResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// CreateTopicRequest is the payload for proposing a topic.
type CreateTopicRequest struct {
	Title              string  `json:"title" validate:"required,max=200"`
	Description        *string `json:"description"`
	TopicJustification *string `json:"topicJustification"`
	IsStandard         *bool   `json:"isStandard"`
	MaxMembers         *int    `json:"maxMembers" validate:"omitempty,min=1"`
}

// RejectTopicRequest carries the committee's reason.
type RejectTopicRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

// BulkApproveRequest lists the topics to approve.
type BulkApproveRequest struct {
	TopicIDs []int64 `json:"topic_ids"`
}

// SplitName splits a full name at the first whitespace run.
func SplitName(fullName string) (first, last string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// AvatarURL builds the generated avatar link for a person.
func AvatarURL(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	return avatarBaseURL + "?name=" + url.QueryEscape(name) + "&background=random"
}

// NewSupervisor maps a teacher profile to its public shape.
func NewSupervisor(profile models.TeacherProfile) Supervisor {
	first, last := SplitName(profile.FullName)
	return Supervisor{
		ID:        profile.ID,
		FirstName: first,
		LastName:  last,
		Title:     string(profile.Title),
		Avatar:    AvatarURL(first, last),
	}
}

// NewTopicResponse maps a topic with its supervisor and team. A nil
// supervisor renders as null and a nil team as an empty array.
func NewTopicResponse(topic models.Topic, supervisor *models.TeacherProfile, team []models.TeamMember) TopicResponse {
	resp := TopicResponse{
		ID:                 topic.ID,
		Title:              topic.Title,
		Description:        topic.Description,
		IsOpen:             topic.IsOpen,
		IsStandard:         topic.IsStandard,
		MaxMembers:         topic.MaxMembers,
		Status:             topic.Status,
		CreationDate:       topic.CreationDate.Format("2006-01-02"),
		TopicJustification: topic.TopicJustification,
		RejectionReason:    topic.RejectionReason,
		Team:               make([]TeamMember, 0, len(team)),
	}
	if supervisor != nil {
		s := NewSupervisor(*supervisor)
		resp.Supervisor = &s
	}
	for _, m := range team {
		first, last := SplitName(m.FullName)
		resp.Team = append(resp.Team, TeamMember{
			ID:          m.StudentID,
			IndexNumber: m.IndexNumber,
			FirstName:   first,
			LastName:    last,
		})
	}
	return resp
}

// NewPendingTopic maps a pending listing row.
func NewPendingTopic(row models.PendingTopicRow) PendingTopic {
	var title *string
	if row.TeacherTitle != nil {
		t := string(*row.TeacherTitle)
		title = &t
	}
	return PendingTopic{
		ID:                 row.ID,
		Title:              row.Title,
		Description:        row.Description,
		Status:             row.Status,
		TopicJustification: row.TopicJustification,
		CreationDate:       row.CreationDate.Format("2006-01-02"),
		TeacherTitle:       title,
		TeacherFullName:    row.TeacherFullName,
		StudentCount:       row.StudentCount,
	}
}
