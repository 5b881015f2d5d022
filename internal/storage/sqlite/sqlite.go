// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using database/sql and the go-sqlite3 driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/students-hub/internal/storage"
	"github.com/aanand-mishra/students-hub/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// The *sql.DB is a connection pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path and creates the students table if
// it does not already exist.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   id    - integer primary key, auto-incremented by SQLite
	//   email - unique across students
	//   batch - free-form cohort label, e.g. "21.1"
	//   gpa   - decimal grade point average
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL UNIQUE,
			batch TEXT    NOT NULL,
			gpa   REAL    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row into the students table.
func (s *SQLite) CreateStudent(student types.StudentInput) (int64, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (name, email, batch, gpa) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(student.Name, student.Email, student.Batch, student.GPA)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", mapConstraint(err))
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, batch, gpa FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Batch,
		&student.GPA,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows ordered by id.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	rows, err := s.Db.Query("SELECT id, name, email, batch, gpa FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students, err := scanStudents(rows)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

// GetStudentsPaged returns the requested window of students together with
// the page metadata computed from the total row count.
//
// The ORDER BY column comes from storage.SortColumns, never from the
// request, so it is safe to format into the query. A secondary id order
// keeps pages stable when the sort column has duplicates.
func (s *SQLite) GetStudentsPaged(req types.PageRequest) (types.Page, error) {
	column, ok := storage.SortColumns[req.SortBy]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if req.Direction == types.SortDesc {
		direction = "DESC"
	}

	var total int64
	if err := s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&total); err != nil {
		return types.Page{}, fmt.Errorf("GetStudentsPaged: count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT id, name, email, batch, gpa FROM students ORDER BY %s %s, id %s LIMIT ? OFFSET ?",
		column, direction, direction,
	)
	rows, err := s.Db.Query(query, req.Size, req.Page*req.Size)
	if err != nil {
		return types.Page{}, fmt.Errorf("GetStudentsPaged: query: %w", err)
	}
	defer rows.Close()

	students, err := scanStudents(rows)
	if err != nil {
		return types.Page{}, fmt.Errorf("GetStudentsPaged: %w", err)
	}

	return types.NewPage(students, req.Page, req.Size, total), nil
}

// UpdateStudentByID replaces a student's data with the provided values
// and returns the stored record.
func (s *SQLite) UpdateStudentByID(id int64, student types.StudentInput) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"UPDATE students SET name = ?, email = ?, batch = ?, gpa = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(student.Name, student.Email, student.Batch, student.GPA, id)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", mapConstraint(err))
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	return s.GetStudentByID(id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}

func scanStudents(rows *sql.Rows) ([]types.Student, error) {
	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.Batch,
			&student.GPA,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return students, nil
}

// mapConstraint turns the driver's unique-constraint error into
// storage.ErrDuplicateEmail. email is the only UNIQUE column besides the key.
func mapConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return storage.ErrDuplicateEmail
	}
	return err
}
