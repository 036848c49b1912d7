package usecase_test

import (
	"context"
	"fmt"
	"learnhub-backend/internal/domain"
	"sync"
)

// In-memory repositories for usecase tests. The enrollment fake mirrors the
// Mongo store's contract: (nil, nil) on absent lookups, duplicate-key errors
// on Create, and version-conditional updates.

// ---- course repo ----

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  uint
	courses map[uint]domain.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[uint]domain.Course{}}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	course.ID = r.nextID
	r.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id uint) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &course, nil
}

func (r *fakeCourseRepo) GetPublished(_ context.Context) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Course
	for _, c := range r.courses {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByInstructorID(_ context.Context, instructorID string) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Course
	for _, c := range r.courses {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, ids []uint) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	r.courses[course.ID] = *course
	return nil
}

// ---- section repo ----

type fakeSectionRepo struct {
	mu       sync.Mutex
	nextID   int
	sections []domain.Section
}

func newFakeSectionRepo() *fakeSectionRepo { return &fakeSectionRepo{} }

func (r *fakeSectionRepo) Create(_ context.Context, section *domain.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	section.ID = fmt.Sprintf("sec-%d", r.nextID)
	r.sections = append(r.sections, *section)
	return nil
}

func (r *fakeSectionRepo) GetByCourseID(_ context.Context, courseID uint) ([]domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Section
	for _, s := range r.sections {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	// sorted by order ascending, as the Mongo repo queries it
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Order < out[i].Order {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeSectionRepo) GetByID(_ context.Context, id string) (*domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sections {
		if s.ID == id {
			sec := s
			return &sec, nil
		}
	}
	return nil, domain.ErrSectionNotFound
}

func (r *fakeSectionRepo) CountByCourseID(_ context.Context, courseID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.sections {
		if s.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

// ---- chapter repo ----

type fakeChapterRepo struct {
	mu       sync.Mutex
	nextID   int
	chapters []domain.Chapter
}

func newFakeChapterRepo() *fakeChapterRepo { return &fakeChapterRepo{} }

func (r *fakeChapterRepo) Create(_ context.Context, chapter *domain.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	chapter.ID = fmt.Sprintf("ch-%d", r.nextID)
	r.chapters = append(r.chapters, *chapter)
	return nil
}

func (r *fakeChapterRepo) GetByID(_ context.Context, id string) (*domain.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chapters {
		if c.ID == id {
			ch := c
			return &ch, nil
		}
	}
	return nil, domain.ErrChapterNotFound
}

func (r *fakeChapterRepo) GetBySectionID(_ context.Context, sectionID string) ([]domain.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Chapter
	for _, c := range r.chapters {
		if c.SectionID == sectionID {
			out = append(out, c)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Order < out[i].Order {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeChapterRepo) CountBySectionID(_ context.Context, sectionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.chapters {
		if c.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeChapterRepo) CountByCourseID(_ context.Context, courseID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.chapters {
		if c.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *fakeChapterRepo) Update(_ context.Context, chapter *domain.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.chapters {
		if c.ID == chapter.ID {
			r.chapters[i] = *chapter
			return nil
		}
	}
	return domain.ErrChapterNotFound
}

func (r *fakeChapterRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.chapters {
		if c.ID == id {
			r.chapters = append(r.chapters[:i], r.chapters[i+1:]...)
			return nil
		}
	}
	return domain.ErrChapterNotFound
}

// ---- enrollment repo ----

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	nextID      int
	enrollments map[string]domain.Enrollment // keyed by id
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[string]domain.Enrollment{}}
}

func cloneEnrollment(e domain.Enrollment) domain.Enrollment {
	completed := make([]string, len(e.CompletedChapters))
	copy(completed, e.CompletedChapters)
	attempts := make(map[string]domain.QuizAttempt, len(e.QuizAttempts))
	for k, v := range e.QuizAttempts {
		attempts[k] = v
	}
	e.CompletedChapters = completed
	e.QuizAttempts = attempts
	return e
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return domain.ErrDuplicateEnrollment
		}
	}
	r.nextID++
	enrollment.ID = fmt.Sprintf("enr-%d", r.nextID)
	if enrollment.CompletedChapters == nil {
		enrollment.CompletedChapters = []string{}
	}
	if enrollment.QuizAttempts == nil {
		enrollment.QuizAttempts = map[string]domain.QuizAttempt{}
	}
	r.enrollments[enrollment.ID] = cloneEnrollment(*enrollment)
	return nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			out := cloneEnrollment(e)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeEnrollmentRepo) GetByUserID(_ context.Context, userID string) ([]domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Enrollment
	for _, e := range r.enrollments {
		if e.UserID == userID {
			out = append(out, cloneEnrollment(e))
		}
	}
	return out, nil
}

// Update is conditional on Version, like the Mongo store: a writer that read
// a stale version gets ErrVersionConflict and must reload.
func (r *fakeEnrollmentRepo) Update(_ context.Context, enrollment *domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.enrollments[enrollment.ID]
	if !ok {
		return domain.ErrEnrollmentNotFound
	}
	if stored.Version != enrollment.Version {
		return domain.ErrVersionConflict
	}
	enrollment.Version++
	r.enrollments[enrollment.ID] = cloneEnrollment(*enrollment)
	return nil
}

// ---- user repo ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User // keyed by external id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uint(len(r.users) + 1)
	r.users[user.ExternalID] = *user
	return nil
}

func (r *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[externalID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByExternalIDs(_ context.Context, externalIDs []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, id := range externalIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ExternalID] = *user
	return nil
}

// ---- tenant repo ----

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[uint]domain.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[uint]domain.Tenant{}}
}

func (r *fakeTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tenant.ID = uint(len(r.tenants) + 1)
	r.tenants[tenant.ID] = *tenant
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id uint) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	return &tenant, nil
}

func (r *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.Slug == slug {
			tenant := t
			return &tenant, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

// ---- rating repo ----

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]domain.Rating // keyed by "courseID/userID"
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[string]domain.Rating{}}
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%d/%s", rating.CourseID, rating.UserID)
	r.ratings[key] = *rating
	return nil
}

func (r *fakeRatingRepo) SummaryByCourseID(_ context.Context, courseID uint) (*domain.CourseRatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int64
	for _, rating := range r.ratings {
		if rating.CourseID == courseID {
			sum += int64(rating.Rating)
			count++
		}
	}
	summary := &domain.CourseRatingSummary{Count: count}
	if count > 0 {
		summary.Average = float64(sum) / float64(count)
	}
	return summary, nil
}
