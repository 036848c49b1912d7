package usecase

import (
	"context"
	"errors"
	"learnhub-backend/internal/domain"
	"time"
)

// casRetries bounds the reload-and-retry loop when a conditional enrollment
// write loses to a concurrent request for the same (user, course).
const casRetries = 3

type enrollmentUsecase struct {
	courseRepo  domain.CourseRepository
	chapterRepo domain.ChapterRepository
	enrollRepo  domain.EnrollmentRepository
}

func NewEnrollmentUsecase(
	cr domain.CourseRepository,
	chr domain.ChapterRepository,
	er domain.EnrollmentRepository,
) domain.EnrollmentUsecase {
	return &enrollmentUsecase{
		courseRepo:  cr,
		chapterRepo: chr,
		enrollRepo:  er,
	}
}

// Enroll is idempotent: a second enroll for the same (user, course) returns
// the existing record unchanged. The duplicate-key race between the existence
// check and the insert is caught and resolved the same way.
func (uc *enrollmentUsecase) Enroll(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	enrollment := &domain.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		TenantID: course.TenantID,
		Progress: 0,
	}

	err = uc.enrollRepo.Create(ctx, enrollment)
	if errors.Is(err, domain.ErrDuplicateEnrollment) {
		// Lost the insert race; the winner's record is the enrollment.
		return uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
	}
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (uc *enrollmentUsecase) GetProgress(ctx context.Context, userID string, courseID uint) (*domain.ProgressView, error) {
	enrollment, err := uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, domain.ErrEnrollmentNotFound
	}
	return progressView(enrollment), nil
}

// CompleteChapter marks the chapter complete and recomputes progress.
// Completing an already-completed chapter returns the current state
// unchanged. The chapter must belong to the course; the original system
// trusted callers on this, which let any chapter id inflate progress.
func (uc *enrollmentUsecase) CompleteChapter(ctx context.Context, userID string, courseID uint, chapterID string) (*domain.ProgressView, error) {
	chapter, err := uc.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.CourseID != courseID {
		return nil, domain.ErrChapterNotFound
	}

	for attempt := 0; ; attempt++ {
		enrollment, err := uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if enrollment == nil {
			return nil, domain.ErrEnrollmentNotFound
		}

		if enrollment.HasCompleted(chapterID) {
			return progressView(enrollment), nil
		}

		enrollment.CompletedChapters = append(enrollment.CompletedChapters, chapterID)

		total, err := uc.chapterRepo.CountByCourseID(ctx, courseID)
		if err != nil {
			return nil, err
		}
		ApplyProgress(enrollment, int(total), time.Now())

		err = uc.enrollRepo.Update(ctx, enrollment)
		if errors.Is(err, domain.ErrVersionConflict) && attempt < casRetries {
			continue
		}
		if err != nil {
			return nil, err
		}
		return progressView(enrollment), nil
	}
}

// GetStudentEnrollments lists the student's enrolled courses with their
// progress, for the "my courses" view.
func (uc *enrollmentUsecase) GetStudentEnrollments(ctx context.Context, userID string) ([]domain.EnrolledCourse, error) {
	enrollments, err := uc.enrollRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	courses, err := uc.courseRepo.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	result := make([]domain.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, ok := byID[e.CourseID]
		if !ok {
			continue // course deleted since enrollment
		}
		result = append(result, domain.EnrolledCourse{
			Course:     course,
			Progress:   e.Progress,
			EnrolledAt: e.EnrolledAt,
		})
	}
	return result, nil
}

func progressView(e *domain.Enrollment) *domain.ProgressView {
	completed := e.CompletedChapters
	if completed == nil {
		completed = []string{}
	}
	return &domain.ProgressView{
		Progress:          e.Progress,
		CompletedChapters: completed,
	}
}
