package models

import "time"

// TopicStatus is the committee decision on a topic.
type TopicStatus string

const (
	TopicPending  TopicStatus = "PENDING"
	TopicApproved TopicStatus = "APPROVED"
	TopicRejected TopicStatus = "REJECTED"
)

const (
	DefaultMaxMembers = 4
	MaxTitleLength    = 200
)

// Topic is a thesis project proposal. DeclarationID is the teacher-level
// declaration track and is unique across topics.
type Topic struct {
	ID                 int64       `db:"id" json:"id"`
	Title              string      `db:"title" json:"title"`
	Description        *string     `db:"description" json:"description"`
	IsOpen             bool        `db:"is_open" json:"is_open"`
	IsStandard         bool        `db:"is_standard" json:"is_standard"`
	MaxMembers         int         `db:"max_members" json:"max_members"`
	CreationDate       time.Time   `db:"creation_date" json:"creation_date"`
	Status             TopicStatus `db:"status" json:"status"`
	TopicJustification *string     `db:"topic_justification" json:"topic_justification"`
	RejectionReason    *string     `db:"rejection_reason" json:"rejection_reason"`
	TeacherID          *int64      `db:"teacher_id" json:"teacher_id"`
	DeclarationID      *int64      `db:"declaration_id" json:"declaration_id"`
}

// TopicFilter narrows topic listings.
type TopicFilter struct {
	TeacherID *int64
	Status    *TopicStatus
}

// TeamMember is a student assigned to a topic, with the display name.
type TeamMember struct {
	StudentID   int64  `db:"student_id"`
	TopicID     int64  `db:"topic_id"`
	IndexNumber string `db:"index_number"`
	FullName    string `db:"full_name"`
}

// PendingTopicRow is the committee listing projection of a pending topic.
type PendingTopicRow struct {
	ID                 int64          `db:"id"`
	Title              string         `db:"title"`
	Description        *string        `db:"description"`
	Status             TopicStatus    `db:"status"`
	TopicJustification *string        `db:"topic_justification"`
	CreationDate       time.Time      `db:"creation_date"`
	TeacherTitle       *AcademicTitle `db:"teacher_title"`
	TeacherFullName    *string        `db:"teacher_full_name"`
	StudentCount       int            `db:"student_count"`
}
