package domain

import "time"

// AssignmentDescriptor describes one assignment within a course.
type AssignmentDescriptor struct {
	Name     string    `json:"name" bson:"name"`
	Deadline time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
}

// CourseRecord is an independently stored course aggregate. Users reference
// courses by ID from UserAccount.Courses; nothing is embedded in either
// direction.
type CourseRecord struct {
	ID          string                 `json:"id" bson:"_id,omitempty"`
	Name        string                 `json:"name" bson:"name"`
	Assignments []AssignmentDescriptor `json:"assignments" bson:"assignments"`
}
