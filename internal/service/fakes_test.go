package service

import (
	"context"
	"sync"

	"github.com/edustage/backend/internal/models"
)

// fakeStore is a shared in-memory backing store for the repository fakes.
// All methods take the mutex so the placement concurrency tests exercise the
// same interleavings the real repositories see.
type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	subjects   map[string]*models.Subject
	tests      map[string]*models.TestWithQuestions
	groups     map[string]*models.StudentGroup
	groupByKey map[string]string
	members    map[string]map[string]bool
	attempts   []models.StudentTest
	courses    map[string]*models.Course
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[string]*models.User{},
		subjects:   map[string]*models.Subject{},
		tests:      map[string]*models.TestWithQuestions{},
		groups:     map[string]*models.StudentGroup{},
		groupByKey: map[string]string{},
		members:    map[string]map[string]bool{},
		courses:    map[string]*models.Course{},
	}
}

func groupKey(subjectID, level string) string {
	return subjectID + "|" + level
}

// groupDetails must be called with the mutex held.
func (s *fakeStore) groupDetails(id string) *models.StudentGroupWithDetails {
	group, ok := s.groups[id]
	if !ok {
		return nil
	}
	details := &models.StudentGroupWithDetails{
		StudentGroup: *group,
		MemberCount:  len(s.members[id]),
	}
	if subject, ok := s.subjects[group.SubjectID]; ok {
		details.SubjectName = subject.Name
	}
	return details
}

type fakeUserRepo struct{ *fakeStore }

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[u.ID] = &u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[u.ID] = &u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, test := range f.tests {
		if test.TutorID == id {
			return true, nil
		}
	}
	for _, attempt := range f.attempts {
		if attempt.StudentID == id {
			return true, nil
		}
	}
	for _, members := range f.members {
		if members[id] {
			return true, nil
		}
	}
	return false, nil
}

type fakeSubjectRepo struct{ *fakeStore }

func (f *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *subject
	f.subjects[s.ID] = &s
	return nil
}

func (f *fakeSubjectRepo) GetByID(_ context.Context, id string) (*models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subject, ok := f.subjects[id]
	if !ok {
		return nil, nil
	}
	s := *subject
	return &s, nil
}

func (f *fakeSubjectRepo) GetAll(_ context.Context) ([]models.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var subjects []models.Subject
	for _, subject := range f.subjects {
		subjects = append(subjects, *subject)
	}
	return subjects, nil
}

func (f *fakeSubjectRepo) Update(_ context.Context, subject *models.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *subject
	f.subjects[s.ID] = &s
	return nil
}

func (f *fakeSubjectRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subjects, id)
	return nil
}

func (f *fakeSubjectRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, test := range f.tests {
		if test.SubjectID == id {
			return true, nil
		}
	}
	for _, group := range f.groups {
		if group.SubjectID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeTestRepo struct{ *fakeStore }

func (f *fakeTestRepo) Create(_ context.Context, test *models.Test, questions []models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := &models.TestWithQuestions{
		Test:      *test,
		Questions: append([]models.Question(nil), questions...),
	}
	if subject, ok := f.subjects[test.SubjectID]; ok {
		stored.SubjectName = subject.Name
	}
	f.tests[test.ID] = stored
	return nil
}

func (f *fakeTestRepo) GetByID(_ context.Context, id string) (*models.TestWithQuestions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	test, ok := f.tests[id]
	if !ok {
		return nil, nil
	}
	t := *test
	t.Questions = append([]models.Question(nil), test.Questions...)
	return &t, nil
}

func (f *fakeTestRepo) GetAll(_ context.Context) ([]models.TestWithQuestions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tests []models.TestWithQuestions
	for _, test := range f.tests {
		tests = append(tests, *test)
	}
	return tests, nil
}

func (f *fakeTestRepo) GetByTutor(_ context.Context, tutorID string) ([]models.TestWithQuestions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tests []models.TestWithQuestions
	for _, test := range f.tests {
		if test.TutorID == tutorID {
			tests = append(tests, *test)
		}
	}
	return tests, nil
}

func (f *fakeTestRepo) Replace(_ context.Context, test *models.Test, questions []models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.tests[test.ID]
	if !ok {
		return nil
	}
	existing.SubjectID = test.SubjectID
	existing.UpdatedAt = test.UpdatedAt
	existing.Questions = append([]models.Question(nil), questions...)
	if subject, ok := f.subjects[test.SubjectID]; ok {
		existing.SubjectName = subject.Name
	}
	return nil
}

// Delete mirrors the cascade: the test's attempts go with it.
func (f *fakeTestRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tests, id)
	kept := f.attempts[:0]
	for _, attempt := range f.attempts {
		if attempt.TestID != id {
			kept = append(kept, attempt)
		}
	}
	f.attempts = kept
	return nil
}

func (f *fakeTestRepo) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tests[id]
	return ok, nil
}

type fakeGroupRepo struct{ *fakeStore }

func (f *fakeGroupRepo) GetByID(_ context.Context, id string) (*models.StudentGroupWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groupDetails(id), nil
}

func (f *fakeGroupRepo) GetByTutor(_ context.Context, tutorID string) ([]models.StudentGroupWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subjectIDs := map[string]bool{}
	for _, test := range f.tests {
		if test.TutorID == tutorID {
			subjectIDs[test.SubjectID] = true
		}
	}
	var groups []models.StudentGroupWithDetails
	for id, group := range f.groups {
		if subjectIDs[group.SubjectID] {
			groups = append(groups, *f.groupDetails(id))
		}
	}
	return groups, nil
}

func (f *fakeGroupRepo) GetByStudent(_ context.Context, studentID string) ([]models.StudentGroupWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var groups []models.StudentGroupWithDetails
	for id, members := range f.members {
		if members[studentID] {
			groups = append(groups, *f.groupDetails(id))
		}
	}
	return groups, nil
}

func (f *fakeGroupRepo) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.groups[id]
	return ok, nil
}

type fakeSubmissionRepo struct{ *fakeStore }

func (f *fakeSubmissionRepo) RecordSubmission(_ context.Context, attempt *models.StudentTest, group *models.StudentGroup) (*models.StudentGroupWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts = append(f.attempts, *attempt)

	key := groupKey(group.SubjectID, group.Level)
	id, ok := f.groupByKey[key]
	if !ok {
		g := *group
		f.groups[g.ID] = &g
		f.groupByKey[key] = g.ID
		f.members[g.ID] = map[string]bool{}
		id = g.ID
	}
	f.members[id][attempt.StudentID] = true

	return f.groupDetails(id), nil
}

func (f *fakeSubmissionRepo) GetCompletedTests(_ context.Context, studentID string) ([]models.CompletedTest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var completed []models.CompletedTest
	for _, attempt := range f.attempts {
		if attempt.StudentID != studentID {
			continue
		}
		ct := models.CompletedTest{TestID: attempt.TestID, Score: attempt.Score}
		if test, ok := f.tests[attempt.TestID]; ok {
			ct.SubjectName = test.SubjectName
		}
		completed = append(completed, ct)
	}
	return completed, nil
}

func (f *fakeSubmissionRepo) GetLatestScores(_ context.Context, studentID string) (map[string]*int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scores := make(map[string]*int)
	for _, attempt := range f.attempts {
		if attempt.StudentID == studentID {
			scores[attempt.TestID] = attempt.Score
		}
	}
	return scores, nil
}

type fakeCourseRepo struct{ *fakeStore }

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *course
	f.courses[c.ID] = &c
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	c := *course
	return &c, nil
}

func (f *fakeCourseRepo) GetByGroup(_ context.Context, groupID string) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var courses []models.Course
	for _, course := range f.courses {
		if course.GroupID == groupID {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *course
	f.courses[c.ID] = &c
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.courses, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.SubmissionGradedEvent
	err    error
}

func (f *fakePublisher) PublishSubmissionGraded(_ context.Context, event *models.SubmissionGradedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
