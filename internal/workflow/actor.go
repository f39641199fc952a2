package workflow

import "github.com/noah-isme/thesis-api/internal/models"

// ActorKind is the variant an account resolves to when acting on a topic.
type ActorKind int

const (
	ActorOther ActorKind = iota
	ActorStudent
	ActorTeacher
)

func (k ActorKind) String() string {
	switch k {
	case ActorStudent:
		return "student"
	case ActorTeacher:
		return "teacher"
	}
	return "other"
}

// Actor is an account resolved once, from its role, into the profile it acts
// through. Exactly one of Student and Teacher is set unless Kind is ActorOther.
type Actor struct {
	Kind    ActorKind
	Account models.Account
	Student *models.Student
	Teacher *models.Teacher
}

// ResolveActor picks the variant from the account role. A profile that does
// not match the role is ignored, and a role without its profile resolves to
// ActorOther.
func ResolveActor(account models.Account, student *models.Student, teacher *models.Teacher) Actor {
	actor := Actor{Kind: ActorOther, Account: account}
	switch {
	case account.Role == models.RoleStudent && student != nil:
		actor.Kind = ActorStudent
		actor.Student = student
	case account.Role.HoldsTeacherProfile() && teacher != nil:
		actor.Kind = ActorTeacher
		actor.Teacher = teacher
	}
	return actor
}
