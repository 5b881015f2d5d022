package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-hub/internal/client"
	"github.com/aanand-mishra/students-hub/internal/types"
	"github.com/aanand-mishra/students-hub/internal/view"
)

// ErrStale is returned by FetchStudents when a newer fetch was issued for
// the same session before this one's response arrived. The response is
// discarded.
var ErrStale = errors.New("admin: fetch superseded by a newer request")

var errNotFinite = errors.New("not a finite number")

// StudentsAPI is the subset of the students REST API the controller needs.
// *client.Client satisfies it.
type StudentsAPI interface {
	ListPaged(ctx context.Context, req types.PageRequest) (types.Page, error)
	Get(ctx context.Context, id int64) (types.Student, error)
	Create(ctx context.Context, in types.StudentInput) (types.Student, error)
	Update(ctx context.Context, id int64, in types.StudentInput) (types.Student, error)
	Delete(ctx context.Context, id int64) error
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Result tells the transport what to do beyond re-rendering the session.
type Result struct {
	// RedirectTo is set when the browser must leave the panel, e.g. for
	// the login page after a 401/403.
	RedirectTo string

	// Cancelled is set when the user declined a confirmation.
	Cancelled bool
}

// FormInput is the raw modal form submission.
type FormInput struct {
	ID    string
	Name  string
	Email string
	Batch string
	GPA   string
}

// Controller drives Sessions against the students API.
type Controller struct {
	api      StudentsAPI
	loginURL string
	log      *slog.Logger
}

// NewController returns a Controller. log may be nil, in which case the
// slog default is used.
func NewController(api StudentsAPI, loginURL string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{api: api, loginURL: loginURL, log: log}
}

// FetchStudents loads page (zero-based) sorted by id descending and, if no
// newer fetch has been issued meanwhile, replaces the session's table and
// pagination and makes page current. A page past the end is replaced by
// the last page, e.g. after the last row of the last page was deleted.
//
// A 401/403 yields a Result redirecting to the login page. Any other
// failure is logged and returned with the session left unchanged.
func (c *Controller) FetchStudents(ctx context.Context, s *Session, page int) (Result, error) {
	_, res, err := c.fetch(ctx, s, page)
	return res, err
}

// FetchCurrent is FetchStudents for the session's current page.
func (c *Controller) FetchCurrent(ctx context.Context, s *Session) (Result, error) {
	return c.FetchStudents(ctx, s, s.Snapshot().CurrentPage)
}

func (c *Controller) fetch(ctx context.Context, s *Session, page int) (types.Page, Result, error) {
	if page < 0 {
		page = 0
	}
	token := s.nextFetch()

	s.mu.Lock()
	size := s.pageSize
	s.mu.Unlock()

	p, err := c.api.ListPaged(ctx, types.PageRequest{
		Page:      page,
		Size:      size,
		SortBy:    "id",
		Direction: types.SortDesc,
	})
	if err != nil {
		if client.IsUnauthorized(err) {
			c.log.Info("students list rejected, redirecting to login",
				slog.Int("page", page),
				slog.String("login_url", c.loginURL))
			return types.Page{}, Result{RedirectTo: c.loginURL}, nil
		}
		c.log.Error("failed to fetch students",
			slog.Int("page", page),
			slog.String("error", err.Error()))
		return types.Page{}, Result{}, fmt.Errorf("fetch students page %d: %w", page, err)
	}
	if len(p.Content) == 0 && p.TotalPages > 0 && page >= p.TotalPages {
		c.log.Debug("students page past the end, showing the last page",
			slog.Int("page", page),
			slog.Int("total_pages", p.TotalPages))
		return c.fetch(ctx, s, p.TotalPages-1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchSeq {
		c.log.Debug("discarding stale students page",
			slog.Int("page", page),
			slog.Uint64("token", token),
			slog.Uint64("latest", s.fetchSeq))
		return types.Page{}, Result{}, ErrStale
	}
	s.table = view.RenderTable(p.Content)
	s.pagination = view.RenderPagination(p, page)
	s.currentPage = page
	s.loaded = true
	s.notice = ""
	return p, Result{}, nil
}

// refresh refetches the current page after a write.
func (c *Controller) refresh(ctx context.Context, s *Session) Result {
	res, _ := c.FetchCurrent(ctx, s)
	return res
}

// OpenModal resets the form and opens the dialog in create mode.
func (c *Controller) OpenModal(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	s.form = view.FormView{}
	s.alert = view.AlertView{}
	s.modalTitle = TitleCreate
	s.modalOpen = true
}

// EditStudent loads one student and opens the dialog in edit mode. On
// failure the error is logged and returned; the session is unchanged and
// the dialog stays as it was.
func (c *Controller) EditStudent(ctx context.Context, s *Session, id int64) error {
	student, err := c.api.Get(ctx, id)
	if err != nil {
		c.log.Error("failed to fetch student details",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return fmt.Errorf("fetch student %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = view.FormFromStudent(student)
	s.editing = true
	s.alert = view.AlertView{}
	s.modalTitle = TitleEdit
	s.modalOpen = true
	return nil
}

// CloseModal hides the dialog. Unsaved values are abandoned: the next
// OpenModal or EditStudent replaces them.
func (c *Controller) CloseModal(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = false
}

// SubmitForm creates (create mode) or updates (edit mode) a student from
// the submitted form. On success the dialog closes and the current page is
// refetched. On failure the dialog stays open with the submitted values
// and an inline alert; the editing flag is unchanged.
func (c *Controller) SubmitForm(ctx context.Context, s *Session, in FormInput) (Result, error) {
	s.mu.Lock()
	editing := s.editing
	form := view.FormView{
		Name:  in.Name,
		Email: in.Email,
		Batch: in.Batch,
		GPA:   in.GPA,
	}
	if editing {
		form.ID = strings.TrimSpace(in.ID)
		if form.ID == "" {
			form.ID = s.form.ID
		}
	}
	s.form = form
	s.mu.Unlock()

	gpa, err := strconv.ParseFloat(strings.TrimSpace(in.GPA), 64)
	if err == nil && (math.IsNaN(gpa) || math.IsInf(gpa, 0)) {
		err = errNotFinite
	}
	if err != nil {
		c.setAlert(s, MsgSaveFailed, "field GPA must be a number")
		return Result{}, fmt.Errorf("parse gpa %q: %w", in.GPA, err)
	}
	input := types.StudentInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Batch: strings.TrimSpace(in.Batch),
		GPA:   gpa,
	}

	if editing {
		var id int64
		id, err = strconv.ParseInt(form.ID, 10, 64)
		if err != nil {
			c.setAlert(s, MsgSaveError, "")
			return Result{}, fmt.Errorf("parse student id %q: %w", form.ID, err)
		}
		_, err = c.api.Update(ctx, id, input)
	} else {
		_, err = c.api.Create(ctx, input)
	}

	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			c.setAlert(s, MsgSaveFailed, se.Message)
		} else {
			c.setAlert(s, MsgSaveError, "")
		}
		c.log.Error("failed to save student",
			slog.Bool("editing", editing),
			slog.String("error", err.Error()))
		return Result{}, fmt.Errorf("save student: %w", err)
	}

	c.log.Info("student saved", slog.Bool("editing", editing), slog.String("email", input.Email))

	s.mu.Lock()
	s.modalOpen = false
	s.alert = view.AlertView{}
	s.mu.Unlock()

	return c.refresh(ctx, s), nil
}

// DeleteStudent asks for confirmation and, if given, deletes the student
// and refetches the current page. A failed delete sets the panel notice.
func (c *Controller) DeleteStudent(ctx context.Context, s *Session, id int64, confirm Confirmer) (Result, error) {
	if confirm == nil || !confirm.Confirm(view.DeletePrompt) {
		return Result{Cancelled: true}, nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.log.Error("failed to delete student",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		s.mu.Lock()
		s.notice = MsgDeleteFailed
		s.mu.Unlock()
		return Result{}, fmt.Errorf("delete student %d: %w", id, err)
	}

	c.log.Info("student deleted", slog.Int64("id", id))
	return c.refresh(ctx, s), nil
}

func (c *Controller) setAlert(s *Session, msg, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert = view.AlertView{Visible: true, Message: msg, Detail: detail}
}
