package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/internal/models"
)

func newTestFixture(t *testing.T) (*fakeStore, TestService) {
	t.Helper()
	store := newFakeStore()
	svc := NewTestService(
		&fakeTestRepo{store},
		&fakeSubjectRepo{store},
		&fakeUserRepo{store},
		&fakeSubmissionRepo{store},
		zerolog.Nop(),
	)
	return store, svc
}

func TestCreateTest(t *testing.T) {
	store, svc := newTestFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedUser(store, "tutor-1", "tutor")

	created, err := svc.CreateTest(context.Background(), "tutor-1", &models.CreateTestRequest{
		SubjectID: "subj-1",
		Questions: []string{"2+2?", "3*3?", "10/2?"},
	})
	require.NoError(t, err)

	assert.Equal(t, "tutor-1", created.TutorID)
	assert.Equal(t, "Math", created.SubjectName)
	require.Len(t, created.Questions, 3)
	for i, q := range created.Questions {
		assert.Equal(t, i, q.Position)
		assert.Equal(t, created.ID, q.TestID)
	}
	assert.Contains(t, store.tests, created.ID)
}

func TestCreateTestValidation(t *testing.T) {
	store, svc := newTestFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedUser(store, "tutor-1", "tutor")

	t.Run("missing tutor id", func(t *testing.T) {
		_, err := svc.CreateTest(context.Background(), "", &models.CreateTestRequest{SubjectID: "subj-1"})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		require.Len(t, validation.Fields, 1)
		assert.Equal(t, "tutor_id", validation.Fields[0].Field)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := svc.CreateTest(context.Background(), "tutor-1", &models.CreateTestRequest{SubjectID: "missing"})
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "subject", notFound.Resource)
	})

	t.Run("unknown tutor", func(t *testing.T) {
		_, err := svc.CreateTest(context.Background(), "missing", &models.CreateTestRequest{SubjectID: "subj-1"})
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "tutor", notFound.Resource)
	})
}

func TestUpdateTestReplacesQuestions(t *testing.T) {
	store, svc := newTestFixture(t)
	store.subjects["subj-1"] = &models.Subject{ID: "subj-1", Name: "Math"}
	seedUser(store, "tutor-1", "tutor")

	created, err := svc.CreateTest(context.Background(), "tutor-1", &models.CreateTestRequest{
		SubjectID: "subj-1",
		Questions: []string{"old 1", "old 2", "old 3"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTest(context.Background(), created.ID, &models.CreateTestRequest{
		SubjectID: "subj-1",
		Questions: []string{"new 1", "new 2"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "new 1", updated.Questions[0].Content)
	assert.Equal(t, "tutor-1", updated.TutorID)

	stored := store.tests[created.ID]
	require.Len(t, stored.Questions, 2)
	assert.Equal(t, "new 2", stored.Questions[1].Content)
}

func TestUpdateTestUnknown(t *testing.T) {
	_, svc := newTestFixture(t)
	_, err := svc.UpdateTest(context.Background(), "missing", &models.CreateTestRequest{SubjectID: "subj-1"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteTestCascadesAttempts(t *testing.T) {
	store, svc := newTestFixture(t)
	seedTest(store, "test-1", "subj-1", "Math", 2)
	score := 2
	store.attempts = append(store.attempts,
		models.StudentTest{ID: "a1", StudentID: "student-1", TestID: "test-1", Score: &score},
		models.StudentTest{ID: "a2", StudentID: "student-1", TestID: "test-2", Score: &score},
	)

	require.NoError(t, svc.DeleteTest(context.Background(), "test-1"))

	assert.NotContains(t, store.tests, "test-1")
	require.Len(t, store.attempts, 1)
	assert.Equal(t, "test-2", store.attempts[0].TestID)
}

func TestDeleteTestUnknown(t *testing.T) {
	_, svc := newTestFixture(t)
	err := svc.DeleteTest(context.Background(), "missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListTestsForStudent(t *testing.T) {
	store, svc := newTestFixture(t)
	seedTest(store, "test-1", "subj-1", "Math", 2)
	seedTest(store, "test-2", "subj-1", "Math", 3)
	score := 2
	store.attempts = append(store.attempts,
		models.StudentTest{ID: "a1", StudentID: "student-1", TestID: "test-1", Score: &score},
	)

	views, err := svc.ListTestsForStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]models.StudentTestView{}
	for _, view := range views {
		byID[view.ID] = view
	}

	taken := byID["test-1"]
	assert.True(t, taken.Passed)
	require.NotNil(t, taken.Score)
	assert.Equal(t, 2, *taken.Score)

	fresh := byID["test-2"]
	assert.False(t, fresh.Passed)
	assert.Nil(t, fresh.Score)
}

func TestListTestsForStudentLatestAttemptWins(t *testing.T) {
	store, svc := newTestFixture(t)
	seedTest(store, "test-1", "subj-1", "Math", 4)
	first, second := 2, 4
	store.attempts = append(store.attempts,
		models.StudentTest{ID: "a1", StudentID: "student-1", TestID: "test-1", Score: &first},
		models.StudentTest{ID: "a2", StudentID: "student-1", TestID: "test-1", Score: &second},
	)

	views, err := svc.ListTestsForStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Score)
	assert.Equal(t, 4, *views[0].Score)
}
