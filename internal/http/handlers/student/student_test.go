package student

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-hub/internal/storage/sqlite"
	"github.com/aanand-mishra/students-hub/internal/types"
	"github.com/aanand-mishra/students-hub/internal/utils/response"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return Routes(db)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreate_Success(t *testing.T) {
	h := newRouter(t)

	w := do(t, h, http.MethodPost, "/api/students", `{"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got types.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, types.Student{ID: 1, Name: "A", Email: "a@x.com", Batch: "B1", GPA: 3.5}, got)
}

func TestCreate_EmptyBody(t *testing.T) {
	h := newRouter(t)

	w := do(t, h, http.MethodPost, "/api/students", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body is empty")
}

func TestCreate_ValidationError(t *testing.T) {
	h := newRouter(t)

	w := do(t, h, http.MethodPost, "/api/students", `{"name":"","email":"nope","batch":"B1","gpa":5}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var got response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, response.StatusError, got.Status)
	assert.Contains(t, got.Error, "field Name is required")
	assert.Contains(t, got.Error, "field Email must be a valid email address")
	assert.Contains(t, got.Error, "field GPA must be at most 4")
}

func TestCreate_DuplicateEmail(t *testing.T) {
	h := newRouter(t)
	body := `{"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/students", body).Code)
	w := do(t, h, http.MethodPost, "/api/students", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already exists")
}

func TestGetByID(t *testing.T) {
	h := newRouter(t)
	do(t, h, http.MethodPost, "/api/students", `{"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`)

	w := do(t, h, http.MethodGet, "/api/students/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/students/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/students/abc", "").Code)
}

func TestGetPaged(t *testing.T) {
	h := newRouter(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com", "f@x.com", "g@x.com"} {
		require.Equal(t, http.StatusCreated,
			do(t, h, http.MethodPost, "/api/students", `{"name":"S","email":"`+email+`","batch":"B1","gpa":3}`).Code)
	}

	w := do(t, h, http.MethodGet, "/api/students/paged?page=0&size=5&sortBy=id&direction=desc", "")

	require.Equal(t, http.StatusOK, w.Code)
	var page types.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 5)
	assert.EqualValues(t, 7, page.Content[0].ID)
	assert.EqualValues(t, 3, page.Content[4].ID)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
}

func TestGetPaged_BadParams(t *testing.T) {
	h := newRouter(t)

	for _, target := range []string{
		"/api/students/paged?page=-1",
		"/api/students/paged?size=0",
		"/api/students/paged?sortBy=password",
	} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, target, "").Code, target)
	}
}

func TestUpdate(t *testing.T) {
	h := newRouter(t)
	do(t, h, http.MethodPost, "/api/students", `{"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`)
	do(t, h, http.MethodPost, "/api/students", `{"name":"B","email":"b@x.com","batch":"B1","gpa":3.5}`)

	w := do(t, h, http.MethodPut, "/api/students/1", `{"name":"A2","email":"a2@x.com","batch":"B2","gpa":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"A2","email":"a2@x.com","batch":"B2","gpa":2}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/api/students/1", `{"name":"A2","email":"b@x.com","batch":"B2","gpa":2}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPut, "/api/students/9", `{"name":"A2","email":"z@x.com","batch":"B2","gpa":2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	h := newRouter(t)
	do(t, h, http.MethodPost, "/api/students", `{"name":"A","email":"a@x.com","batch":"B1","gpa":3.5}`)

	w := do(t, h, http.MethodDelete, "/api/students/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/students/1", "").Code)
}
