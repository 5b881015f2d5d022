// Package storage defines the Storage interface, the contract any
// database backend must satisfy to serve the students REST API.
//
// Handlers depend only on this interface, so tests can pass a fake and
// the SQLite implementation can be swapped without touching them.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-hub/internal/types"
)

var (
	// ErrNotFound is returned when no student has the requested id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateEmail is returned when another student already uses the
	// email being written.
	ErrDuplicateEmail = errors.New("email already exists")
)

// SortColumns lists the fields a paged listing may be ordered by.
var SortColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"email": "email",
	"batch": "batch",
	"gpa":   "gpa",
}

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new student record and returns the auto-
	// generated primary-key ID.
	CreateStudent(student types.StudentInput) (int64, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if absent.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student in the database.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// GetStudentsPaged returns one page of students ordered as requested.
	GetStudentsPaged(req types.PageRequest) (types.Page, error)

	// UpdateStudentByID replaces the fields of an existing student.
	// Returns the updated student record.
	UpdateStudentByID(id int64, student types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	DeleteStudentByID(id int64) error
}
