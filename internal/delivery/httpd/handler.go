package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/identity"
	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/service"
)

type Handler struct {
	userService       service.UserService
	subjectService    service.SubjectService
	testService       service.TestService
	submissionService service.SubmissionService
	groupService      service.GroupService
	courseService     service.CourseService
	idm               *identity.Manager
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewHandler(
	userService service.UserService,
	subjectService service.SubjectService,
	testService service.TestService,
	submissionService service.SubmissionService,
	groupService service.GroupService,
	courseService service.CourseService,
	idm *identity.Manager,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		userService:       userService,
		subjectService:    subjectService,
		testService:       testService,
		submissionService: submissionService,
		groupService:      groupService,
		courseService:     courseService,
		idm:               idm,
		validate:          validator.New(),
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/register", h.Register)
		api.Post("/auth/login", h.Login)

		api.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Get("/subjects", h.GetSubjects)

			r.Route("/tutor", func(r chi.Router) {
				r.Use(h.RequireRole(models.RoleTutor))
				r.Post("/tests", h.CreateTest)
				r.Get("/tests", h.GetTutorTests)
				r.Put("/tests/{id}", h.UpdateTest)
				r.Delete("/tests/{id}", h.DeleteTest)
				r.Get("/groups", h.GetTutorGroups)
			})

			r.Route("/student", func(r chi.Router) {
				r.Use(h.RequireRole(models.RoleStudent))
				r.Get("/tests", h.GetStudentTests)
				r.Get("/tests/{id}", h.GetTest)
				r.Post("/tests/{id}/submission", h.SubmitTest)
				r.Get("/completed-tests", h.GetCompletedTests)
				r.Get("/groups", h.GetStudentGroups)
			})

			r.Get("/groups/{id}/courses", h.GetGroupCourses)
			r.With(h.RequireRole(models.RoleTutor)).Post("/groups/{id}/courses", h.CreateCourse)
			r.With(h.RequireRole(models.RoleTutor)).Put("/courses/{id}", h.UpdateCourse)
			r.With(h.RequireRole(models.RoleTutor)).Delete("/courses/{id}", h.DeleteCourse)
			r.Get("/courses/{id}/file", h.GetCourseFile)

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.RequireRole(models.RoleAdmin))
				r.Get("/users", h.GetUsers)
				r.Post("/users", h.CreateUser)
				r.Patch("/users/{id}", h.UpdateUser)
				r.Delete("/users/{id}", h.DeleteUser)
				r.Post("/subjects", h.CreateSubject)
				r.Put("/subjects/{id}", h.UpdateSubject)
				r.Delete("/subjects/{id}", h.DeleteSubject)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "elearning-backend",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// decodeAndValidate binds the JSON body into dst and runs the validate tags.
func (h *Handler) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return h.validate.Struct(dst)
}

// handleServiceError maps the service error kinds onto status codes;
// everything unrecognized is an internal error.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var notFound *service.NotFoundError
	var validation *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   http.StatusText(http.StatusBadRequest),
			"message": validation.Error(),
			"fields":  validation.Fields,
		})
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) handleValidationError(w http.ResponseWriter, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make([]service.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, service.FieldError{
			Field: fe.Field(),
			Error: fe.Tag(),
		})
	}

	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   http.StatusText(http.StatusBadRequest),
		"message": "validation failed",
		"fields":  fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
