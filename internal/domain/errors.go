package domain

import "errors"

// Sentinel errors shared by repositories and usecases. Handlers map these to
// HTTP statuses; anything not listed here is treated as a transient storage
// failure.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTenantNotFound     = errors.New("tenant not found")

	// ErrQuizNotConfigured: the chapter exists but has no gradable questions.
	// Distinct from not-found so the caller can show "quiz not ready".
	ErrQuizNotConfigured = errors.New("quiz has no questions configured")

	// ErrDuplicateEnrollment surfaces the unique (user_id, course_id) index.
	// The lifecycle converts it to the idempotent success path; it never
	// reaches the HTTP layer.
	ErrDuplicateEnrollment = errors.New("already enrolled in this course")

	// ErrVersionConflict: conditional write lost to a concurrent writer.
	// Usecases reload and retry a bounded number of times.
	ErrVersionConflict = errors.New("enrollment was modified concurrently")

	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
