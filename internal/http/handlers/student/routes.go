package student

import (
	"net/http"

	"github.com/aanand-mishra/students-hub/internal/storage"
)

// Routes returns the students REST API router.
//
//	POST   /api/students        → create a new student
//	GET    /api/students        → list all students
//	GET    /api/students/paged  → one sorted page of students
//	GET    /api/students/{id}   → get one student by ID
//	PUT    /api/students/{id}   → update a student
//	DELETE /api/students/{id}   → delete a student
func Routes(storage storage.Storage) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", New(storage))
	router.HandleFunc("GET /api/students", GetList(storage))
	router.HandleFunc("GET /api/students/paged", GetPaged(storage))
	router.HandleFunc("GET /api/students/{id}", GetByID(storage))
	router.HandleFunc("PUT /api/students/{id}", Update(storage))
	router.HandleFunc("DELETE /api/students/{id}", Delete(storage))

	return router
}
