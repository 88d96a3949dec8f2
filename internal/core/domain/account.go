package domain

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// EnvironmentDescriptor is a named sandbox workspace owned by a user. Names
// are unique within the owning account's environment list.
type EnvironmentDescriptor struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	InstanceID  string `json:"instance_id" bson:"instance_id"`
}

// UserAccount models a platform user: credentials, group membership, course
// references, and the ordered list of sandbox environments.
//
// Courses holds course-id references only (set semantics); course documents
// are stored independently, which is why membership changes need coordinated
// multi-document updates.
type UserAccount struct {
	ID           string                  `json:"id"`
	Username     string                  `json:"username"`
	PasswordHash string                  `json:"-"`
	GroupNumber  int                     `json:"group_number"`
	Role         string                  `json:"role"`
	Courses      []string                `json:"courses"`
	Environments []EnvironmentDescriptor `json:"environments"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
