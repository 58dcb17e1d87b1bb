package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/internal/models"
)

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (f *fakeObjectStorage) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *fakeObjectStorage) Download(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[key]
	if !ok {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(body)), int64(len(body)), nil
}

func (f *fakeObjectStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func newCourseFixture(t *testing.T) (*fakeStore, *fakeObjectStorage, CourseService) {
	t.Helper()
	store := newFakeStore()
	objects := newFakeObjectStorage()
	svc := NewCourseService(&fakeCourseRepo{store}, &fakeGroupRepo{store}, objects, zerolog.Nop())
	return store, objects, svc
}

func upload(name, content string) *CourseUpload {
	return &CourseUpload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Data:        strings.NewReader(content),
	}
}

func TestCreateCourse(t *testing.T) {
	store, objects, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	course, err := svc.CreateCourse(context.Background(), "group-1", "Fractions", "pdf", upload("fractions.pdf", "lesson"))
	require.NoError(t, err)

	assert.Equal(t, "group-1", course.GroupID)
	assert.True(t, strings.HasPrefix(course.FilePath, "courses/group-1/"))
	assert.True(t, strings.HasSuffix(course.FilePath, ".pdf"))
	assert.Contains(t, store.courses, course.ID)
	assert.Equal(t, []byte("lesson"), objects.objects[course.FilePath])
}

func TestCreateCourseValidation(t *testing.T) {
	_, _, svc := newCourseFixture(t)

	_, err := svc.CreateCourse(context.Background(), "group-1", "", "", nil)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Fields, 3)
}

func TestCreateCourseUnknownGroup(t *testing.T) {
	_, objects, svc := newCourseFixture(t)

	_, err := svc.CreateCourse(context.Background(), "missing", "Fractions", "pdf", upload("f.pdf", "x"))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, objects.objects)
}

func TestUpdateCourseReplacesObject(t *testing.T) {
	store, objects, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	course, err := svc.CreateCourse(context.Background(), "group-1", "Fractions", "pdf", upload("v1.pdf", "first"))
	require.NoError(t, err)
	oldKey := course.FilePath

	updated, err := svc.UpdateCourse(context.Background(), course.ID, "Fractions II", "", upload("v2.pdf", "second"))
	require.NoError(t, err)

	assert.Equal(t, "Fractions II", updated.Title)
	assert.Equal(t, "pdf", updated.Type)
	assert.NotEqual(t, oldKey, updated.FilePath)
	assert.NotContains(t, objects.objects, oldKey)
	assert.Equal(t, []byte("second"), objects.objects[updated.FilePath])
}

func TestUpdateCourseMetadataOnly(t *testing.T) {
	store, objects, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	course, err := svc.CreateCourse(context.Background(), "group-1", "Fractions", "pdf", upload("v1.pdf", "first"))
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(context.Background(), course.ID, "Renamed", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, course.FilePath, updated.FilePath)
	assert.Equal(t, []byte("first"), objects.objects[course.FilePath])
}

func TestDeleteCourse(t *testing.T) {
	store, objects, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	course, err := svc.CreateCourse(context.Background(), "group-1", "Fractions", "pdf", upload("v1.pdf", "body"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(context.Background(), course.ID))

	assert.NotContains(t, store.courses, course.ID)
	assert.NotContains(t, objects.objects, course.FilePath)

	err = svc.DeleteCourse(context.Background(), course.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDownloadCourseFile(t *testing.T) {
	store, _, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	course, err := svc.CreateCourse(context.Background(), "group-1", "Fractions", "pdf", upload("v1.pdf", "payload"))
	require.NoError(t, err)

	reader, size, name, err := svc.DownloadCourseFile(context.Background(), course.ID)
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int64(len("payload")), size)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestListGroupCourses(t *testing.T) {
	store, _, svc := newCourseFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedGroup(store, "group-1", "subj-1", "Basic")

	_, err := svc.CreateCourse(context.Background(), "group-1", "A", "pdf", upload("a.pdf", "a"))
	require.NoError(t, err)
	_, err = svc.CreateCourse(context.Background(), "group-1", "B", "video", upload("b.mp4", "b"))
	require.NoError(t, err)

	courses, err := svc.ListGroupCourses(context.Background(), "group-1")
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	_, err = svc.ListGroupCourses(context.Background(), "missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
