// Package types holds the shared data structures used across the
// application. Handlers, storage, the API client and the admin panel all
// import types without depending on each other.
package types

import "strings"

// Student represents a student record as exchanged with the REST API.
//
// The validate tags are checked by the go-playground/validator package on
// create and update. GPA has no "required" rule because 0.00 is a valid GPA.
type Student struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"  validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Batch string  `json:"batch" validate:"required"`
	GPA   float64 `json:"gpa"   validate:"gte=0,lte=4"`
}

// StudentInput is the body of a create or update request. The identifier
// never travels in the body: it is server-assigned on create and carried in
// the URL on update.
type StudentInput struct {
	Name  string  `json:"name"  validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Batch string  `json:"batch" validate:"required"`
	GPA   float64 `json:"gpa"   validate:"gte=0,lte=4"`
}

// WithID returns the input as a Student carrying the given identifier.
func (in StudentInput) WithID(id int64) Student {
	return Student{ID: id, Name: in.Name, Email: in.Email, Batch: in.Batch, GPA: in.GPA}
}

// Page is one window of students plus the metadata needed to paginate.
// The JSON shape mirrors what the admin panel expects from
// GET /api/students/paged.
type Page struct {
	Content       []Student `json:"content"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	First         bool      `json:"first"`
	Last          bool      `json:"last"`
}

// NewPage builds the page metadata for a slice fetched with the given
// index and size out of total records.
func NewPage(content []Student, number, size int, total int64) Page {
	if content == nil {
		content = make([]Student, 0)
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page{
		Content:       content,
		Number:        number,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: total,
		First:         number == 0,
		Last:          number >= totalPages-1,
	}
}

// SortDirection orders a paged listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts "asc" or "desc" in any case. Anything else
// falls back to ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// PageRequest describes which page of students to fetch.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction SortDirection
}
