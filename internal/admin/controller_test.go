package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-hub/internal/client"
	"github.com/aanand-mishra/students-hub/internal/types"
)

// fakeAPI is an in-memory StudentsAPI that records the calls it receives.
type fakeAPI struct {
	mu       sync.Mutex
	students map[int64]types.Student
	nextID   int64
	calls    []string

	listErr   error
	getErr    error
	saveErr   error
	deleteErr error

	// listHook, when set, runs before a list call returns; tests use it to
	// hold a response back.
	listHook func(req types.PageRequest)
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{students: map[int64]types.Student{}}
	for i := 1; i <= n; i++ {
		f.nextID++
		f.students[f.nextID] = types.Student{
			ID:    f.nextID,
			Name:  "student",
			Email: "s" + string(rune('a'+i)) + "@x.com",
			Batch: "B1",
			GPA:   3,
		}
	}
	return f
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListPaged(_ context.Context, req types.PageRequest) (types.Page, error) {
	f.record("list")
	if f.listHook != nil {
		f.listHook(req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return types.Page{}, f.listErr
	}
	ids := make([]int64, 0, len(f.students))
	for id := range f.students {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	content := make([]types.Student, 0)
	for i := req.Page * req.Size; i < len(ids) && i < (req.Page+1)*req.Size; i++ {
		content = append(content, f.students[ids[i]])
	}
	return types.NewPage(content, req.Page, req.Size, int64(len(ids))), nil
}

func (f *fakeAPI) Get(_ context.Context, id int64) (types.Student, error) {
	f.record("get")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return types.Student{}, f.getErr
	}
	s, ok := f.students[id]
	if !ok {
		return types.Student{}, &client.StatusError{Op: "get student", Code: http.StatusNotFound, Message: "student not found"}
	}
	return s, nil
}

func (f *fakeAPI) Create(_ context.Context, in types.StudentInput) (types.Student, error) {
	f.record("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return types.Student{}, f.saveErr
	}
	f.nextID++
	s := in.WithID(f.nextID)
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, in types.StudentInput) (types.Student, error) {
	f.record("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return types.Student{}, f.saveErr
	}
	s := in.WithID(id)
	f.students[id] = s
	return s, nil
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	f.record("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.students, id)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(api StudentsAPI) *Controller {
	return NewController(api, "/login.html", quietLogger())
}

func TestFetchStudents_FirstPageOfSeven(t *testing.T) {
	api := newFakeAPI(7)
	c := newController(api)
	s := NewSession(5)

	res, err := c.FetchStudents(context.Background(), s, 0)

	require.NoError(t, err)
	assert.Empty(t, res.RedirectTo)
	st := s.Snapshot()
	assert.Equal(t, 0, st.CurrentPage)
	assert.True(t, st.Loaded)

	ids := make([]int64, 0)
	for _, r := range st.Panel.Table.Rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{7, 6, 5, 4, 3}, ids)

	p := st.Panel.Pagination
	assert.False(t, p.Hidden)
	assert.True(t, p.Prev.Disabled)
	assert.False(t, p.Next.Disabled)
	require.Len(t, p.Pages, 2)
	assert.True(t, p.Pages[0].Current)
}

func TestFetchStudents_SetsCurrentPage(t *testing.T) {
	api := newFakeAPI(7)
	c := newController(api)
	s := NewSession(5)

	_, err := c.FetchStudents(context.Background(), s, 1)

	require.NoError(t, err)
	st := s.Snapshot()
	assert.Equal(t, 1, st.CurrentPage)
	require.Len(t, st.Panel.Table.Rows, 2)
	assert.EqualValues(t, 2, st.Panel.Table.Rows[0].ID)
	assert.False(t, st.Panel.Pagination.Prev.Disabled)
	assert.True(t, st.Panel.Pagination.Next.Disabled)
	assert.True(t, st.Panel.Pagination.Pages[1].Current)
}

func TestFetchStudents_PastTheEndShowsLastPage(t *testing.T) {
	api := newFakeAPI(7)
	c := newController(api)
	s := NewSession(5)

	_, err := c.FetchStudents(context.Background(), s, 9)

	require.NoError(t, err)
	assert.Equal(t, []string{"list", "list"}, api.Calls())
	st := s.Snapshot()
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.Panel.Table.Empty)
	require.Len(t, st.Panel.Table.Rows, 2)

	current := 0
	for _, b := range st.Panel.Pagination.Pages {
		if b.Current {
			current++
		}
	}
	assert.Equal(t, 1, current)
	assert.True(t, st.Panel.Pagination.Pages[1].Current)
	assert.True(t, st.Panel.Pagination.Next.Disabled)
}

func TestFetchStudents_PastTheEndOfNothing(t *testing.T) {
	api := newFakeAPI(0)
	c := newController(api)
	s := NewSession(5)

	_, err := c.FetchStudents(context.Background(), s, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"list"}, api.Calls())
	st := s.Snapshot()
	assert.True(t, st.Panel.Table.Empty)
	assert.True(t, st.Panel.Pagination.Hidden)
}

func TestFetchStudents_Empty(t *testing.T) {
	c := newController(newFakeAPI(0))
	s := NewSession(5)

	_, err := c.FetchStudents(context.Background(), s, 0)

	require.NoError(t, err)
	st := s.Snapshot()
	assert.True(t, st.Panel.Table.Empty)
	assert.True(t, st.Panel.Pagination.Hidden)
}

func TestFetchStudents_UnauthorizedRedirects(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		api := newFakeAPI(3)
		api.listErr = &client.StatusError{Op: "list students", Code: code}
		c := newController(api)
		s := NewSession(5)

		res, err := c.FetchStudents(context.Background(), s, 0)

		require.NoError(t, err)
		assert.Equal(t, "/login.html", res.RedirectTo)
		assert.False(t, s.Snapshot().Loaded)
	}
}

func TestFetchStudents_FailureLeavesStateUnchanged(t *testing.T) {
	api := newFakeAPI(7)
	c := newController(api)
	s := NewSession(5)
	_, err := c.FetchStudents(context.Background(), s, 1)
	require.NoError(t, err)
	before := s.Snapshot()

	api.listErr = &client.StatusError{Op: "list students", Code: http.StatusInternalServerError}
	res, err := c.FetchStudents(context.Background(), s, 0)

	assert.Error(t, err)
	assert.Empty(t, res.RedirectTo)
	assert.Equal(t, before, s.Snapshot())
}

func TestFetchStudents_DiscardsStaleResponse(t *testing.T) {
	api := newFakeAPI(12)
	c := newController(api)
	s := NewSession(5)

	release := make(chan struct{})
	entered := make(chan struct{})
	api.listHook = func(req types.PageRequest) {
		if req.Page == 0 {
			close(entered)
			<-release
		}
	}

	var (
		wg       sync.WaitGroup
		staleErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = c.FetchStudents(context.Background(), s, 0)
	}()
	<-entered

	_, err := c.FetchStudents(context.Background(), s, 2)
	require.NoError(t, err)

	close(release)
	wg.Wait()

	assert.ErrorIs(t, staleErr, ErrStale)
	st := s.Snapshot()
	assert.Equal(t, 2, st.CurrentPage)
	require.Len(t, st.Panel.Table.Rows, 2)
	assert.EqualValues(t, 2, st.Panel.Table.Rows[0].ID)
}

func TestOpenModal_ResetsToCreate(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api)
	s := NewSession(5)
	require.NoError(t, c.EditStudent(context.Background(), s, 2))

	c.OpenModal(s)

	st := s.Snapshot()
	assert.False(t, st.Editing)
	assert.True(t, st.Modal.Open)
	assert.Equal(t, TitleCreate, st.Modal.Title)
	assert.Empty(t, st.Modal.Form.ID)
	assert.Empty(t, st.Modal.Form.Name)
	assert.False(t, st.Modal.Alert.Visible)
}

func TestEditStudent_Success(t *testing.T) {
	c := newController(newFakeAPI(3))
	s := NewSession(5)
	c.OpenModal(s)

	require.NoError(t, c.EditStudent(context.Background(), s, 2))

	st := s.Snapshot()
	assert.True(t, st.Editing)
	assert.True(t, st.Modal.Open)
	assert.Equal(t, TitleEdit, st.Modal.Title)
	assert.Equal(t, "2", st.Modal.Form.ID)
	assert.Equal(t, "3", st.Modal.Form.GPA)
}

func TestEditStudent_FailureKeepsModalClosed(t *testing.T) {
	c := newController(newFakeAPI(3))
	s := NewSession(5)

	err := c.EditStudent(context.Background(), s, 99)

	assert.Error(t, err)
	st := s.Snapshot()
	assert.False(t, st.Modal.Open)
	assert.False(t, st.Editing)
}

func TestCloseModal(t *testing.T) {
	c := newController(newFakeAPI(0))
	s := NewSession(5)
	c.OpenModal(s)

	c.CloseModal(s)

	assert.False(t, s.Snapshot().Modal.Open)
}

func TestSubmitForm_CreateRefetches(t *testing.T) {
	api := newFakeAPI(0)
	c := newController(api)
	s := NewSession(5)
	c.OpenModal(s)

	res, err := c.SubmitForm(context.Background(), s, FormInput{Name: "A", Email: "a@x.com", Batch: "B1", GPA: "3.5"})

	require.NoError(t, err)
	assert.Empty(t, res.RedirectTo)
	assert.Equal(t, []string{"create", "list"}, api.Calls())
	st := s.Snapshot()
	assert.False(t, st.Modal.Open)
	assert.Equal(t, 0, st.CurrentPage)
	require.Len(t, st.Panel.Table.Rows, 1)
	assert.Equal(t, "3.50", st.Panel.Table.Rows[0].GPA)
}

func TestSubmitForm_CreateIgnoresSubmittedID(t *testing.T) {
	api := newFakeAPI(0)
	c := newController(api)
	s := NewSession(5)
	c.OpenModal(s)

	_, err := c.SubmitForm(context.Background(), s, FormInput{ID: "42", Name: "A", Email: "a@x.com", Batch: "B1", GPA: "3"})

	require.NoError(t, err)
	assert.Equal(t, "create", api.Calls()[0])
}

func TestSubmitForm_EditUpdates(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api)
	s := NewSession(5)
	require.NoError(t, c.EditStudent(context.Background(), s, 2))

	_, err := c.SubmitForm(context.Background(), s, FormInput{ID: "2", Name: "Renamed", Email: "r@x.com", Batch: "B2", GPA: "2.25"})

	require.NoError(t, err)
	assert.Equal(t, []string{"get", "update", "list"}, api.Calls())
	assert.Equal(t, "Renamed", api.students[2].Name)
	assert.False(t, s.Snapshot().Modal.Open)
}

func TestSubmitForm_APIFailureKeepsModalOpen(t *testing.T) {
	api := newFakeAPI(0)
	api.saveErr = &client.StatusError{Op: "create student", Code: http.StatusConflict, Message: "email already exists"}
	c := newController(api)
	s := NewSession(5)
	c.OpenModal(s)

	_, err := c.SubmitForm(context.Background(), s, FormInput{Name: "A", Email: "a@x.com", Batch: "B1", GPA: "3.5"})

	assert.Error(t, err)
	st := s.Snapshot()
	assert.True(t, st.Modal.Open)
	assert.False(t, st.Editing)
	assert.True(t, st.Modal.Alert.Visible)
	assert.Equal(t, "Failed to save student. Email might be duplicate.", st.Modal.Alert.Message)
	assert.Equal(t, "email already exists", st.Modal.Alert.Detail)
	assert.Equal(t, "a@x.com", st.Modal.Form.Email)
	assert.Equal(t, "3.5", st.Modal.Form.GPA)
	assert.Equal(t, []string{"create"}, api.Calls())
}

func TestSubmitForm_TransportFailure(t *testing.T) {
	api := newFakeAPI(0)
	api.saveErr = errors.New("connection refused")
	c := newController(api)
	s := NewSession(5)
	c.OpenModal(s)

	_, err := c.SubmitForm(context.Background(), s, FormInput{Name: "A", Email: "a@x.com", Batch: "B1", GPA: "3.5"})

	assert.Error(t, err)
	assert.Equal(t, MsgSaveError, s.Snapshot().Modal.Alert.Message)
}

func TestSubmitForm_BadGPASendsNothing(t *testing.T) {
	api := newFakeAPI(0)
	c := newController(api)
	s := NewSession(5)
	c.OpenModal(s)

	_, err := c.SubmitForm(context.Background(), s, FormInput{Name: "A", Email: "a@x.com", Batch: "B1", GPA: "abc"})

	assert.Error(t, err)
	assert.Empty(t, api.Calls())
	assert.True(t, s.Snapshot().Modal.Alert.Visible)
}

func TestSubmitForm_NonFiniteGPASendsNothing(t *testing.T) {
	for _, gpa := range []string{"NaN", "Inf", "-Inf", "+Infinity"} {
		t.Run(gpa, func(t *testing.T) {
			api := newFakeAPI(0)
			c := newController(api)
			s := NewSession(5)
			c.OpenModal(s)

			_, err := c.SubmitForm(context.Background(), s, FormInput{Name: "A", Email: "a@x.com", Batch: "B1", GPA: gpa})

			assert.Error(t, err)
			assert.Empty(t, api.Calls())
			alert := s.Snapshot().Modal.Alert
			assert.Equal(t, MsgSaveFailed, alert.Message)
			assert.Equal(t, "field GPA must be a number", alert.Detail)
		})
	}
}

func TestSubmitForm_EditFailureKeepsEditing(t *testing.T) {
	api := newFakeAPI(2)
	c := newController(api)
	s := NewSession(5)
	require.NoError(t, c.EditStudent(context.Background(), s, 1))
	api.saveErr = &client.StatusError{Op: "update student", Code: http.StatusBadRequest}

	_, err := c.SubmitForm(context.Background(), s, FormInput{ID: "1", Name: "A", Email: "a@x.com", Batch: "B1", GPA: "3"})

	assert.Error(t, err)
	st := s.Snapshot()
	assert.True(t, st.Editing)
	assert.Equal(t, "1", st.Modal.Form.ID)
}

func TestDeleteStudent_Confirmed(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api)
	s := NewSession(5)

	var prompt string
	res, err := c.DeleteStudent(context.Background(), s, 3, ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	}))

	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.Equal(t, "Are you sure you want to delete this student?", prompt)
	assert.Equal(t, []string{"delete", "list"}, api.Calls())
	assert.Len(t, s.Snapshot().Panel.Table.Rows, 2)
}

func TestDeleteStudent_CancelledIssuesNoRequest(t *testing.T) {
	api := newFakeAPI(3)
	c := newController(api)
	s := NewSession(5)

	res, err := c.DeleteStudent(context.Background(), s, 3, ConfirmFunc(func(string) bool { return false }))

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Empty(t, api.Calls())
}

func TestDeleteStudent_FailureSetsNotice(t *testing.T) {
	api := newFakeAPI(3)
	api.deleteErr = &client.StatusError{Op: "delete student", Code: http.StatusInternalServerError}
	c := newController(api)
	s := NewSession(5)

	_, err := c.DeleteStudent(context.Background(), s, 3, ConfirmFunc(func(string) bool { return true }))

	assert.Error(t, err)
	assert.Equal(t, MsgDeleteFailed, s.Snapshot().Panel.Notice)
	assert.Equal(t, []string{"delete"}, api.Calls())
}

func TestDeleteStudent_LastRowOfLastPageStepsBack(t *testing.T) {
	api := newFakeAPI(6)
	c := newController(api)
	s := NewSession(5)
	_, err := c.FetchStudents(context.Background(), s, 1)
	require.NoError(t, err)
	require.Len(t, s.Snapshot().Panel.Table.Rows, 1)

	_, err = c.DeleteStudent(context.Background(), s, 1, ConfirmFunc(func(string) bool { return true }))

	require.NoError(t, err)
	st := s.Snapshot()
	assert.Equal(t, 0, st.CurrentPage)
	assert.Len(t, st.Panel.Table.Rows, 5)
	assert.True(t, st.Panel.Pagination.Hidden)
}
