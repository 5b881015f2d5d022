// Package panel serves the admin panel: the HTML page, the htmx fragments
// behind every table, pagination and modal action, and the per-browser
// session that ties them to an admin.Session.
package panel

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aanand-mishra/students-hub/internal/admin"
	"github.com/aanand-mishra/students-hub/internal/http/htmx"
	"github.com/aanand-mishra/students-hub/internal/http/middleware"
	"github.com/aanand-mishra/students-hub/internal/view"
)

// viewKey is the session key holding the browser's view id.
const viewKey = "view_id"

// Handler serves the admin panel.
type Handler struct {
	ctrl     *admin.Controller
	sessions *scs.SessionManager
	registry *Registry
	log      *slog.Logger
}

// New returns a Handler. sessions supplies the cookie that identifies a
// browser; registry holds the admin.Session behind it.
func New(ctrl *admin.Controller, sessions *scs.SessionManager, registry *Registry, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{ctrl: ctrl, sessions: sessions, registry: registry, log: log}
}

// Routes returns the panel router.
//
//	GET    /                     → full page
//	GET    /students?page=n      → students panel fragment
//	GET    /students/new         → create dialog
//	GET    /students/{id}/edit   → edit dialog
//	POST   /students/modal/close → close dialog
//	POST   /students             → save dialog
//	DELETE /students/{id}        → delete (confirmed by hx-confirm)
//	GET    /healthz              → liveness
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(h.log))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.LoadAndSave)

		r.Get("/", h.index)
		r.Get("/students", h.list)
		r.Post("/students", h.save)
		r.Get("/students/new", h.openModal)
		r.Post("/students/modal/close", h.closeModal)
		r.Get("/students/{id}/edit", h.edit)
		r.Delete("/students/{id}", h.delete)
	})

	return r
}

// session resolves the admin.Session of the calling browser, issuing a new
// view id on first contact.
func (h *Handler) session(r *http.Request) *admin.Session {
	id := h.sessions.GetString(r.Context(), viewKey)
	if id == "" {
		id = uuid.NewString()
		h.sessions.Put(r.Context(), viewKey, id)
	}
	return h.registry.Get(id)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	h.ctrl.CloseModal(s)

	res, err := h.ctrl.FetchCurrent(r.Context(), s)
	if res.RedirectTo != "" {
		htmx.Redirect(w, r, res.RedirectTo)
		return
	}

	st := s.Snapshot()
	if err != nil && !errors.Is(err, admin.ErrStale) {
		st.Panel.Notice = admin.MsgLoadFailed
	}
	h.render(w, r, http.StatusOK, view.Page(st.Panel, st.Modal))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)

	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}

	res, err := h.ctrl.FetchStudents(r.Context(), s, page)
	if res.RedirectTo != "" {
		htmx.Redirect(w, r, res.RedirectTo)
		return
	}
	if err != nil && htmx.IsRequest(r) {
		htmx.NoSwap(w)
		return
	}
	h.renderPanel(w, r, s)
}

func (h *Handler) openModal(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	h.ctrl.OpenModal(s)
	h.render(w, r, http.StatusOK, view.Modal(s.Snapshot().Modal))
}

func (h *Handler) closeModal(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	h.ctrl.CloseModal(s)
	h.render(w, r, http.StatusOK, view.Modal(s.Snapshot().Modal))
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.session(r)

	if err := h.ctrl.EditStudent(r.Context(), s, id); err != nil {
		htmx.NoSwap(w)
		return
	}
	h.render(w, r, http.StatusOK, view.Modal(s.Snapshot().Modal))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s := h.session(r)

	res, err := h.ctrl.SubmitForm(r.Context(), s, admin.FormInput{
		ID:    r.PostForm.Get("id"),
		Name:  r.PostForm.Get("name"),
		Email: r.PostForm.Get("email"),
		Batch: r.PostForm.Get("batch"),
		GPA:   r.PostForm.Get("gpa"),
	})
	if res.RedirectTo != "" {
		htmx.Redirect(w, r, res.RedirectTo)
		return
	}

	st := s.Snapshot()
	if err != nil {
		h.render(w, r, http.StatusOK, view.Modal(st.Modal))
		return
	}
	if !htmx.IsRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, view.Modal(st.Modal), view.PanelOOB(st.Panel))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.session(r)

	// htmx only issues the request once the user accepted hx-confirm.
	// Other clients confirm explicitly with ?confirm=yes.
	confirmed := admin.ConfirmFunc(func(string) bool {
		return htmx.IsRequest(r) || r.URL.Query().Get("confirm") == "yes"
	})

	res, _ := h.ctrl.DeleteStudent(r.Context(), s, id, confirmed)
	switch {
	case res.RedirectTo != "":
		htmx.Redirect(w, r, res.RedirectTo)
	case res.Cancelled:
		htmx.NoSwap(w)
	default:
		h.renderPanel(w, r, s)
	}
}

// renderPanel answers htmx with the panel fragment and everything else
// with the full page.
func (h *Handler) renderPanel(w http.ResponseWriter, r *http.Request, s *admin.Session) {
	st := s.Snapshot()
	if htmx.IsRequest(r) {
		h.render(w, r, http.StatusOK, view.Panel(st.Panel))
		return
	}
	h.render(w, r, http.StatusOK, view.Page(st.Panel, st.Modal))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, components ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, c := range components {
		if err := c.Render(r.Context(), w); err != nil {
			h.log.Error("render failed",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			return
		}
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id: must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
