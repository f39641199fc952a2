package models

// UserRole represents the account type stored on every account.
type UserRole string

const (
	RoleStudent           UserRole = "STUDENT"
	RoleTeacher           UserRole = "TEACHER"
	RoleKPKMember         UserRole = "KPK_MEMBER"
	RoleCoordinator       UserRole = "COORDINATOR"
	RoleProgramSupervisor UserRole = "PROGRAM_SUPERVISOR"
	RoleAdmin             UserRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleKPKMember, RoleCoordinator, RoleProgramSupervisor, RoleAdmin:
		return true
	}
	return false
}

// HoldsTeacherProfile reports whether accounts of this role act through a
// teacher profile. Committee members, coordinators and program supervisors
// are academic staff.
func (r UserRole) HoldsTeacherProfile() bool {
	switch r {
	case RoleTeacher, RoleKPKMember, RoleCoordinator, RoleProgramSupervisor:
		return true
	}
	return false
}

// Account is the identity record every student or teacher profile hangs off.
type Account struct {
	ID           int64    `db:"id" json:"id"`
	FullName     string   `db:"full_name" json:"full_name"`
	Login        string   `db:"login" json:"login"`
	PasswordHash string   `db:"password" json:"-"`
	Role         UserRole `db:"role" json:"role"`
}
