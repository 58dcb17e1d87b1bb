package httpd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustage/backend/internal/models"
	"github.com/edustage/backend/internal/service"
)

const maxCourseFileSize = 100 << 20 // 100 MB

func (h *Handler) GetGroupCourses(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "Group ID is required")
		return
	}

	courses, err := h.courseService.ListGroupCourses(r.Context(), groupID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]models.CourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, models.CourseResponse{
			ID:        c.ID,
			Title:     c.Title,
			Type:      c.Type,
			FilePath:  c.FilePath,
			CreatedAt: c.CreatedAt,
		})
	}

	writeSuccess(w, responses)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "Group ID is required")
		return
	}

	if err := r.ParseMultipartForm(maxCourseFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	upload, closeUpload, err := courseUploadFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer closeUpload()

	course, err := h.courseService.CreateCourse(
		r.Context(),
		groupID,
		r.FormValue("title"),
		r.FormValue("type"),
		upload,
	)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Course created",
		"id":      course.ID,
	})
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	if err := r.ParseMultipartForm(maxCourseFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	upload, closeUpload, err := courseUploadFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer closeUpload()

	course, err := h.courseService.UpdateCourse(
		r.Context(),
		courseID,
		r.FormValue("title"),
		r.FormValue("type"),
		upload,
	)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Course updated",
		"id":      course.ID,
	})
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Course deleted",
	})
}

func (h *Handler) GetCourseFile(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	reader, size, name, err := h.courseService.DownloadCourseFile(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to stream course file")
	}
}

// courseUploadFromForm extracts the optional "file" part. A missing file is
// not an error here; the services decide whether it is required.
func courseUploadFromForm(r *http.Request) (*service.CourseUpload, func(), error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	upload := &service.CourseUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	return upload, func() { file.Close() }, nil
}
