// Package admin is the admin list controller: it keeps one browser's view
// of the students list and modal, and moves it through fetch, edit, save
// and delete operations against the students API.
package admin

import (
	"sync"

	"github.com/aanand-mishra/students-hub/internal/view"
)

const (
	TitleCreate = "Add New Student"
	TitleEdit   = "Edit Student"

	MsgSaveFailed   = "Failed to save student. Email might be duplicate."
	MsgSaveError    = "An error occurred. Please try again."
	MsgDeleteFailed = "Failed to delete student"
	MsgLoadFailed   = "Could not load students. Please try again."
)

// Session is the UI state of one admin browser session. All fields are
// guarded by mu; callers read it through Snapshot.
//
// Editing is true exactly when Form.ID holds the id of the student being
// edited.
type Session struct {
	mu sync.Mutex

	pageSize    int
	currentPage int
	editing     bool
	modalOpen   bool
	modalTitle  string
	form        view.FormView
	alert       view.AlertView
	notice      string
	loaded      bool
	table       view.TableView
	pagination  view.PaginationView

	// fetchSeq is the token of the most recently issued list fetch. Only
	// the response carrying the current token may be applied.
	fetchSeq uint64
}

// NewSession returns a session showing page 0 with the given page size.
func NewSession(pageSize int) *Session {
	return &Session{
		pageSize:   pageSize,
		modalTitle: TitleCreate,
		table:      view.RenderTable(nil),
		pagination: view.PaginationView{Hidden: true},
	}
}

// State is a consistent copy of a Session.
type State struct {
	PageSize    int
	CurrentPage int
	Editing     bool
	Loaded      bool
	Panel       view.PanelView
	Modal       view.ModalView
}

// Snapshot copies the session under its lock.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	rows := make([]view.RowView, len(s.table.Rows))
	copy(rows, s.table.Rows)
	table := s.table
	table.Rows = rows

	pagination := s.pagination
	pagination.Pages = append([]view.PageButton(nil), s.pagination.Pages...)

	return State{
		PageSize:    s.pageSize,
		CurrentPage: s.currentPage,
		Editing:     s.editing,
		Loaded:      s.loaded,
		Panel: view.PanelView{
			Notice:     s.notice,
			Table:      table,
			Pagination: pagination,
		},
		Modal: view.ModalView{
			Open:    s.modalOpen,
			Title:   s.modalTitle,
			Editing: s.editing,
			Form:    s.form,
			Alert:   s.alert,
		},
	}
}

// nextFetch issues a new list-fetch token.
func (s *Session) nextFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq
}
