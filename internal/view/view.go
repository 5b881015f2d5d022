// Package view maps student pages and session state to view models. The
// functions here are pure: they never touch the network, so the render
// layer can be tested without a backend or a browser.
package view

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aanand-mishra/students-hub/internal/types"
)

const (
	// TableColumns is the number of columns in the students table.
	TableColumns = 6

	EmptyTableMessage = "No students found. Add one!"
)

// RowView is one rendered student row.
type RowView struct {
	ID        int64
	IDLabel   string
	Initial   string
	Name      string
	Email     string
	Batch     string
	GPA       string
	EditURL   string
	DeleteURL string
}

// TableView is the rendered students table body. When Empty is set Rows is
// empty and the body is a single informational row spanning Colspan
// columns.
type TableView struct {
	Rows         []RowView
	Empty        bool
	EmptyMessage string
	Colspan      int
}

// PageButton is one pagination control.
type PageButton struct {
	Label    string
	Page     int
	URL      string
	Disabled bool
	Current  bool
}

// Interactive reports whether activating the control navigates.
func (b PageButton) Interactive() bool {
	return !b.Disabled && !b.Current
}

// PaginationView holds the Prev, numbered and Next controls. Hidden pages
// render nothing at all.
type PaginationView struct {
	Hidden bool
	Prev   PageButton
	Pages  []PageButton
	Next   PageButton
}

// FormView mirrors the modal form fields as display strings.
type FormView struct {
	ID    string
	Name  string
	Email string
	Batch string
	GPA   string
}

// AlertView is the inline message shown inside the modal.
type AlertView struct {
	Visible bool
	Message string
	Detail  string
}

// ModalView describes the create/edit dialog.
type ModalView struct {
	Open    bool
	Title   string
	Editing bool
	Form    FormView
	Alert   AlertView
}

// PanelView is everything inside the students panel: an optional notice,
// the table and the pagination controls.
type PanelView struct {
	Notice     string
	Table      TableView
	Pagination PaginationView
}

// RenderTable emits one row per student, in the given order.
func RenderTable(students []types.Student) TableView {
	if len(students) == 0 {
		return TableView{
			Rows:         []RowView{},
			Empty:        true,
			EmptyMessage: EmptyTableMessage,
			Colspan:      TableColumns,
		}
	}

	rows := make([]RowView, 0, len(students))
	for _, s := range students {
		rows = append(rows, RowView{
			ID:        s.ID,
			IDLabel:   "#" + strconv.FormatInt(s.ID, 10),
			Initial:   AvatarInitial(s.Name),
			Name:      s.Name,
			Email:     s.Email,
			Batch:     s.Batch,
			GPA:       FormatGPA(s.GPA),
			EditURL:   EditURL(s.ID),
			DeleteURL: StudentURL(s.ID),
		})
	}
	return TableView{Rows: rows, Colspan: TableColumns}
}

// RenderPagination builds the controls for page, with current as the index
// of the page being shown.
func RenderPagination(page types.Page, current int) PaginationView {
	if page.TotalPages <= 1 {
		return PaginationView{Hidden: true}
	}

	v := PaginationView{
		Prev: PageButton{
			Label:    "Prev",
			Page:     current - 1,
			URL:      PageURL(current - 1),
			Disabled: page.First,
		},
		Next: PageButton{
			Label:    "Next",
			Page:     current + 1,
			URL:      PageURL(current + 1),
			Disabled: page.Last,
		},
		Pages: make([]PageButton, 0, page.TotalPages),
	}
	for i := 0; i < page.TotalPages; i++ {
		b := PageButton{
			Label:   strconv.Itoa(i + 1),
			Page:    i,
			Current: i == current,
		}
		if !b.Current {
			b.URL = PageURL(i)
		}
		v.Pages = append(v.Pages, b)
	}
	return v
}

// FormatGPA renders a GPA with exactly two decimals: 3.5 → "3.50".
func FormatGPA(gpa float64) string {
	return strconv.FormatFloat(gpa, 'f', 2, 64)
}

// AvatarInitial is the upper-cased first letter of name, or "?" when name
// is blank.
func AvatarInitial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// FormFromStudent fills the form from a fetched student.
func FormFromStudent(s types.Student) FormView {
	return FormView{
		ID:    strconv.FormatInt(s.ID, 10),
		Name:  s.Name,
		Email: s.Email,
		Batch: s.Batch,
		GPA:   strconv.FormatFloat(s.GPA, 'f', -1, 64),
	}
}

// PageURL is the panel fragment URL for page.
func PageURL(page int) string {
	return "/students?page=" + strconv.Itoa(page)
}

// StudentURL is the admin URL of one student; DELETE on it removes the
// student.
func StudentURL(id int64) string {
	return "/students/" + strconv.FormatInt(id, 10)
}

// EditURL opens the edit dialog for one student.
func EditURL(id int64) string {
	return StudentURL(id) + "/edit"
}
