package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"coursehub/backend/internal/model"
	"coursehub/backend/internal/repository"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[uint]*model.Course
	err     error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[uint]*model.Course)}
}

func (m *mockCourseRepo) add(id uint, status string) {
	m.courses[id] = &model.Course{CourseID: id, Title: "课程", Status: status}
}

func (m *mockCourseRepo) GetByID(_ context.Context, id uint) (*model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EnrollmentRepository ──

type enrollmentKey struct{ userID, courseID uint }

type mockEnrollmentRepo struct {
	mu      sync.Mutex
	rows    map[enrollmentKey]*model.Enrollment
	nextID  uint
	hideGet bool // 模拟并发：存在性检查看不到对方刚插入的行
	creates int
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{rows: make(map[enrollmentKey]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := enrollmentKey{e.UserID, e.CourseID}
	if _, ok := m.rows[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	e.EnrollmentID = m.nextID
	cp := *e
	m.rows[key] = &cp
	m.creates++
	return nil
}

func (m *mockEnrollmentRepo) GetByUserCourse(_ context.Context, userID, courseID uint) (*model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideGet {
		return nil, gorm.ErrRecordNotFound
	}
	if e, ok := m.rows[enrollmentKey{userID, courseID}]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID uint) ([]model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Enrollment
	for k, e := range m.rows {
		if k.userID == userID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockEnrollmentRepo) UpdateStatus(_ context.Context, userID, courseID uint, status string, completedAt *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[enrollmentKey{userID, courseID}]
	if !ok {
		return 0, nil
	}
	e.Status = status
	if completedAt != nil {
		t := *completedAt
		e.CompletedAt = &t
	}
	return 1, nil
}

// ── Mock Quiz / Question Repository（共享存储）──

type mockQuizStore struct {
	quizzes        map[uint]*model.Quiz
	questions      map[uint]*model.Question
	nextQuizID     uint
	nextQuestionID uint

	failCreateBatch error
	failUpdateOrder error
	lockCalls       int
}

func newMockQuizStore() *mockQuizStore {
	return &mockQuizStore{
		quizzes:   make(map[uint]*model.Quiz),
		questions: make(map[uint]*model.Question),
	}
}

func (s *mockQuizStore) questionsOf(quizID uint) []model.Question {
	var result []model.Question
	for _, q := range s.questions {
		if q.QuizID == quizID {
			result = append(result, *q)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].QuestionID < result[j].QuestionID
	})
	return result
}

type mockQuizRepo struct{ s *mockQuizStore }

func (m *mockQuizRepo) Create(_ context.Context, quiz *model.Quiz) error {
	m.s.nextQuizID++
	quiz.QuizID = m.s.nextQuizID
	cp := *quiz
	cp.Questions = nil
	m.s.quizzes[quiz.QuizID] = &cp
	return nil
}

func (m *mockQuizRepo) GetByID(_ context.Context, id uint) (*model.Quiz, error) {
	q, ok := m.s.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	cp.Questions = m.s.questionsOf(id)
	return &cp, nil
}

func (m *mockQuizRepo) GetByIDForUpdate(_ context.Context, id uint) (*model.Quiz, error) {
	m.s.lockCalls++
	q, ok := m.s.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockQuizRepo) UpdateHeader(_ context.Context, quiz *model.Quiz) error {
	q, ok := m.s.quizzes[quiz.QuizID]
	if !ok {
		return nil
	}
	q.Title = quiz.Title
	q.Description = quiz.Description
	q.TimeLimitMinutes = quiz.TimeLimitMinutes
	q.MaxAttempts = quiz.MaxAttempts
	q.PassingScore = quiz.PassingScore
	q.UpdatedBy = quiz.UpdatedBy
	return nil
}

func (m *mockQuizRepo) UpdateTotalPoints(_ context.Context, id uint, total int) error {
	if q, ok := m.s.quizzes[id]; ok {
		q.TotalPoints = total
	}
	return nil
}

func (m *mockQuizRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := m.s.quizzes[id]; !ok {
		return 0, nil
	}
	delete(m.s.quizzes, id)
	return 1, nil
}

func (m *mockQuizRepo) ListByCourse(_ context.Context, courseID uint) ([]model.Quiz, error) {
	var result []model.Quiz
	for _, q := range m.s.quizzes {
		if q.CourseID == courseID {
			result = append(result, *q)
		}
	}
	return result, nil
}

type mockQuestionRepo struct{ s *mockQuizStore }

func (m *mockQuestionRepo) CreateBatch(_ context.Context, questions []model.Question) error {
	if m.s.failCreateBatch != nil {
		return m.s.failCreateBatch
	}
	for i := range questions {
		m.s.nextQuestionID++
		questions[i].QuestionID = m.s.nextQuestionID
		cp := questions[i]
		m.s.questions[cp.QuestionID] = &cp
	}
	return nil
}

func (m *mockQuestionRepo) DeleteByQuiz(_ context.Context, quizID uint) error {
	for id, q := range m.s.questions {
		if q.QuizID == quizID {
			delete(m.s.questions, id)
		}
	}
	return nil
}

func (m *mockQuestionRepo) ListIDsByQuiz(_ context.Context, quizID uint) ([]uint, error) {
	var ids []uint
	for _, q := range m.s.questionsOf(quizID) {
		ids = append(ids, q.QuestionID)
	}
	return ids, nil
}

func (m *mockQuestionRepo) UpdateOrders(_ context.Context, quizID uint, orderedIDs []uint) error {
	if m.s.failUpdateOrder != nil {
		return m.s.failUpdateOrder
	}
	for i, id := range orderedIDs {
		if q, ok := m.s.questions[id]; ok && q.QuizID == quizID {
			q.SortOrder = i + 1
		}
	}
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[uint]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[uint]*model.Assignment)}
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id uint) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID uint) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	rows   map[uint]*model.Submission
	nextID uint

	// raceWinner 非 nil 时，首次 Create 先插入该记录再返回唯一约束冲突
	raceWinner *model.Submission
	resubmits  int
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{rows: make(map[uint]*model.Submission)}
}

func (m *mockSubmissionRepo) insert(s *model.Submission) {
	m.nextID++
	s.SubmissionID = m.nextID
	cp := *s
	m.rows[cp.SubmissionID] = &cp
}

func (m *mockSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	if m.raceWinner != nil {
		m.insert(m.raceWinner)
		m.raceWinner = nil
		return gorm.ErrDuplicatedKey
	}
	for _, row := range m.rows {
		if row.AssignmentID == s.AssignmentID && row.UserID == s.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.insert(s)
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id uint) (*model.Submission, error) {
	if s, ok := m.rows[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByAssignmentUser(_ context.Context, assignmentID, userID uint) (*model.Submission, error) {
	for _, s := range m.rows {
		if s.AssignmentID == assignmentID && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) Resubmit(_ context.Context, s *model.Submission) error {
	row, ok := m.rows[s.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Content = s.Content
	row.FileURL = s.FileURL
	row.SubmittedAt = s.SubmittedAt
	row.IsLate = s.IsLate
	row.Status = s.Status
	m.resubmits++
	return nil
}

func (m *mockSubmissionRepo) SaveGrade(_ context.Context, s *model.Submission) error {
	row, ok := m.rows[s.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Score = s.Score
	row.Feedback = s.Feedback
	row.GradedAt = s.GradedAt
	row.GradedBy = s.GradedBy
	row.Status = s.Status
	return nil
}

func (m *mockSubmissionRepo) ListByAssignment(_ context.Context, assignmentID uint, filter repository.SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	var all []model.Submission
	for _, s := range m.rows {
		if s.AssignmentID != assignmentID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Late != nil && s.IsLate != *filter.Late {
			continue
		}
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmissionID < all[j].SubmissionID })

	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	if offset >= len(all) {
		return []model.Submission{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── 组装 ──

type mockRepos struct {
	course     *mockCourseRepo
	enrollment *mockEnrollmentRepo
	quizStore  *mockQuizStore
	assignment *mockAssignmentRepo
	submission *mockSubmissionRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		course:     newMockCourseRepo(),
		enrollment: newMockEnrollmentRepo(),
		quizStore:  newMockQuizStore(),
		assignment: newMockAssignmentRepo(),
		submission: newMockSubmissionRepo(),
	}
	repo := &repository.Repository{
		Course:     m.course,
		Enrollment: m.enrollment,
		Quiz:       &mockQuizRepo{s: m.quizStore},
		Question:   &mockQuestionRepo{s: m.quizStore},
		Assignment: m.assignment,
		Submission: m.submission,
	}
	return repo, m
}
