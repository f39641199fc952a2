package models

// Student is the learner profile attached to an account. DeclarationID is
// the student-level declaration track, independent of the topic's own.
type Student struct {
	ID                    int64  `db:"id" json:"id"`
	AccountID             int64  `db:"account_id" json:"account_id"`
	IndexNumber           string `db:"index_number" json:"index_number"`
	TopicID               *int64 `db:"topic_id" json:"topic_id"`
	DeclarationID         *int64 `db:"declaration_id" json:"declaration_id"`
	IsDeclarationApproved bool   `db:"is_declaration_approved" json:"is_declaration_approved"`
}

// StudentProfile joins a student with its account name.
type StudentProfile struct {
	Student
	FullName string `db:"full_name" json:"full_name"`
}

// StudentTopicRow is the flattened projection used by the export.
type StudentTopicRow struct {
	StudentID       int64        `db:"student_id"`
	IndexNumber     string       `db:"index_number"`
	FullName        string       `db:"full_name"`
	StudentApproved bool         `db:"student_approved"`
	TopicID         *int64       `db:"topic_id"`
	TopicTitle      *string      `db:"topic_title"`
	TopicStatus     *TopicStatus `db:"topic_status"`
	TeacherApproved *bool        `db:"teacher_approved"`
}
