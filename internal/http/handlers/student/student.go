// Package student contains the HTTP handlers of the students REST API.
//
// Handlers are built by factory functions that close over their
// dependencies:
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//
// New(storage) runs once at startup; the returned func runs per request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-hub/internal/storage"
	"github.com/aanand-mishra/students-hub/internal/types"
	"github.com/aanand-mishra/students-hub/internal/utils/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var validate = validator.New()

// New handles POST /api/students.
//
// Request body:
//
//	{ "name": "Kasun", "email": "kasun@nsbm.lk", "batch": "21.1", "gpa": 3.4 }
//
// Responses: 201 with the created student, 400 on a bad body or failed
// validation, 409 when the email is taken, 500 on database errors.
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		input, ok := decodeInput(w, r)
		if !ok {
			return
		}

		lastID, err := storage.CreateStudent(input)
		if err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", lastID))
		response.WriteJSON(w, http.StatusCreated, input.WithID(lastID))
	}
}

// GetByID handles GET /api/students/{id}.
//
// Responses: 200 with the student, 400 for a non-integer id, 404 when no
// such student exists.
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students and returns every student.
// An empty table encodes as [] rather than null.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetPaged handles GET /api/students/paged?page=0&size=5&sortBy=id&direction=desc.
//
// page is zero-based. size defaults to 10 and is capped at 100. sortBy
// must be one of storage.SortColumns and defaults to id. direction is asc
// or desc and defaults to asc.
//
// Success response (200 OK):
//
//	{ "content": [...], "number": 0, "size": 5, "totalPages": 2,
//	  "totalElements": 7, "first": true, "last": false }
func GetPaged(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parsePageRequest(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting a page of students",
			slog.Int("page", req.Page),
			slog.Int("size", req.Size),
			slog.String("sort_by", req.SortBy),
			slog.String("direction", string(req.Direction)))

		page, err := storage.GetStudentsPaged(req)
		if err != nil {
			slog.Error("error getting students page", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, page)
	}
}

// Update handles PUT /api/students/{id} and replaces all fields of an
// existing student.
//
// Responses: 200 with the updated student, 400 on a bad id/body or failed
// validation, 404 when absent, 409 when the email is taken.
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		input, ok := decodeInput(w, r)
		if !ok {
			return
		}

		updated, err := storage.UpdateStudentByID(id, input)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}.
//
// Responses: 204 with no body, 400 for a non-integer id, 404 when absent.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeStorageError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var input types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&input)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return input, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return input, false
	}

	if err := validate.Struct(input); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return input, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return input, false
	}

	return input, true
}

func parsePageRequest(r *http.Request) (types.PageRequest, error) {
	q := r.URL.Query()
	req := types.PageRequest{
		Size:      defaultPageSize,
		SortBy:    "id",
		Direction: types.ParseSortDirection(q.Get("direction")),
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return req, errors.New("invalid page: must be a non-negative integer")
		}
		req.Page = page
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return req, errors.New("invalid size: must be a positive integer")
		}
		req.Size = min(size, maxPageSize)
	}
	if v := q.Get("sortBy"); v != "" {
		if _, ok := storage.SortColumns[v]; !ok {
			return req, errors.New("invalid sortBy: " + v)
		}
		req.SortBy = v
	}

	return req, nil
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(storage.ErrNotFound))
	case errors.Is(err, storage.ErrDuplicateEmail):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(storage.ErrDuplicateEmail))
	default:
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
