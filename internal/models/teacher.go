package models

// AcademicTitle is the degree prefix printed before a supervisor's name.
type AcademicTitle string

const (
	TitleMgrInz    AcademicTitle = "mgr inz"
	TitleMgr       AcademicTitle = "mgr"
	TitleDr        AcademicTitle = "dr"
	TitleDrInz     AcademicTitle = "dr inz"
	TitleDrHab     AcademicTitle = "dr hab"
	TitleDrHabInz  AcademicTitle = "dr hab inz"
	TitleProfessor AcademicTitle = "prof"
)

// Position is the employment grade of a teacher.
type Position string

const (
	PositionAssistant           Position = "ASYSTENT"
	PositionAssistantProfessor  Position = "ADIUNKT"
	PositionUniversityProfessor Position = "PROFESOR_UCZELNI"
)

// TopicCapacity is the number of concurrent topics a position may supervise.
// Only the seeder consults it.
func (p Position) TopicCapacity() int {
	switch p {
	case PositionAssistant:
		return 2
	case PositionAssistantProfessor:
		return 4
	case PositionUniversityProfessor:
		return 6
	}
	return 0
}

// Teacher is the academic profile attached to an account.
type Teacher struct {
	ID                    int64         `db:"id" json:"id"`
	AccountID             int64         `db:"account_id" json:"account_id"`
	Title                 AcademicTitle `db:"title" json:"title"`
	Position              Position      `db:"position" json:"position"`
	IsDeclarationApproved bool          `db:"is_declaration_approved" json:"is_declaration_approved"`
}

// TeacherProfile joins a teacher with its account name.
type TeacherProfile struct {
	Teacher
	FullName string `db:"full_name" json:"full_name"`
}
