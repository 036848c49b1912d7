package domain

import "context"

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetByExternalIDs(ctx context.Context, externalIDs []string) ([]User, error)
	Update(ctx context.Context, user *User) error
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id uint) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id uint) (*Course, error)
	GetPublished(ctx context.Context) ([]Course, error)
	GetByInstructorID(ctx context.Context, instructorID string) ([]Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]Course, error)
	Update(ctx context.Context, course *Course) error
}

type RatingRepository interface {
	Upsert(ctx context.Context, rating *Rating) error
	SummaryByCourseID(ctx context.Context, courseID uint) (*CourseRatingSummary, error)
}

type SectionRepository interface { // MongoDB
	Create(ctx context.Context, section *Section) error
	GetByCourseID(ctx context.Context, courseID uint) ([]Section, error)
	GetByID(ctx context.Context, id string) (*Section, error)
	CountByCourseID(ctx context.Context, courseID uint) (int64, error)
}

type ChapterRepository interface { // MongoDB
	Create(ctx context.Context, chapter *Chapter) error
	GetByID(ctx context.Context, id string) (*Chapter, error)
	GetBySectionID(ctx context.Context, sectionID string) ([]Chapter, error)
	CountBySectionID(ctx context.Context, sectionID string) (int64, error)
	CountByCourseID(ctx context.Context, courseID uint) (int64, error)
	Update(ctx context.Context, chapter *Chapter) error
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepository owns the single record per (user, course).
// GetByUserAndCourse returns (nil, nil) when absent. Update is conditional on
// the record's Version and returns ErrVersionConflict when it lost the race.
type EnrollmentRepository interface { // MongoDB
	Create(ctx context.Context, enrollment *Enrollment) error
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	GetByUserID(ctx context.Context, userID string) ([]Enrollment, error)
	Update(ctx context.Context, enrollment *Enrollment) error
}

type CurriculumUsecase interface {
	GetCurriculum(ctx context.Context, courseID uint, sanitize bool) ([]CurriculumSection, error)
	CountChapters(ctx context.Context, courseID uint) (int, error)
}

type EnrollmentUsecase interface {
	Enroll(ctx context.Context, userID string, courseID uint) (*Enrollment, error)
	GetProgress(ctx context.Context, userID string, courseID uint) (*ProgressView, error)
	CompleteChapter(ctx context.Context, userID string, courseID uint, chapterID string) (*ProgressView, error)
	GetStudentEnrollments(ctx context.Context, userID string) ([]EnrolledCourse, error)
}

type QuizUsecase interface {
	SubmitQuiz(ctx context.Context, userID string, courseID uint, chapterID string, answers map[string]int) (*GradeResult, error)
	// GetLastAttempt returns (nil, nil) when there is no enrollment or no
	// attempt for the chapter; absence is a normal state, not an error.
	GetLastAttempt(ctx context.Context, userID string, courseID uint, chapterID string) (*AttemptView, error)
}

type CourseUsecase interface {
	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourse(ctx context.Context, course *Course) (*Course, error)
	TogglePublish(ctx context.Context, courseID uint) (*Course, error)
	GetCourse(ctx context.Context, courseID uint) (*CourseWithInstructor, error)
	GetPublishedCourses(ctx context.Context) ([]CourseWithInstructor, error)
	GetInstructorCourses(ctx context.Context, instructorID string) ([]Course, error)
	CreateSection(ctx context.Context, courseID uint, title string) (*Section, error)
	AddChapter(ctx context.Context, chapter *Chapter) (*Chapter, error)
	UpdateChapter(ctx context.Context, chapter *Chapter) (*Chapter, error)
	DeleteChapter(ctx context.Context, chapterID string) error
	RateCourse(ctx context.Context, rating *Rating) error
	GetCourseRating(ctx context.Context, courseID uint) (*CourseRatingSummary, error)
}
