package models

import "time"

// DeclarationStatus tracks the declaration sub-workflow.
type DeclarationStatus string

const (
	DeclarationInPreparation DeclarationStatus = "IN_PREPARATION"
	DeclarationSubmitted     DeclarationStatus = "SUBMITTED"
)

// Declaration is a formal commitment to a topic, either at topic level
// (referenced by Topic.DeclarationID) or per student (Student.DeclarationID).
type Declaration struct {
	ID             int64             `db:"id" json:"id"`
	Status         DeclarationStatus `db:"status" json:"status"`
	SubmissionDate time.Time         `db:"submission_date" json:"submission_date"`
}

// Submitted reports whether the declaration already reached its final state.
func (d *Declaration) Submitted() bool {
	return d != nil && d.Status == DeclarationSubmitted
}
