package usecase

import (
	"context"
	"learnhub-backend/internal/domain"
)

type courseUsecase struct {
	courseRepo  domain.CourseRepository
	userRepo    domain.UserRepository
	tenantRepo  domain.TenantRepository
	sectionRepo domain.SectionRepository
	chapterRepo domain.ChapterRepository
	ratingRepo  domain.RatingRepository
}

func NewCourseUsecase(
	cr domain.CourseRepository,
	ur domain.UserRepository,
	tr domain.TenantRepository,
	sr domain.SectionRepository,
	chr domain.ChapterRepository,
	rr domain.RatingRepository,
) domain.CourseUsecase {
	return &courseUsecase{
		courseRepo:  cr,
		userRepo:    ur,
		tenantRepo:  tr,
		sectionRepo: sr,
		chapterRepo: chr,
		ratingRepo:  rr,
	}
}

// ========== COURSE CRUD ==========

func (uc *courseUsecase) CreateCourse(ctx context.Context, course *domain.Course) error {
	if course.TenantID != nil {
		if _, err := uc.tenantRepo.GetByID(ctx, *course.TenantID); err != nil {
			return err
		}
	}
	return uc.courseRepo.Create(ctx, course)
}

// UpdateCourse applies the provided fields onto the stored course. Identity
// (id, instructor, tenant) never changes after creation.
func (uc *courseUsecase) UpdateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	existing, err := uc.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	if course.Title != "" {
		existing.Title = course.Title
	}
	if course.Description != "" {
		existing.Description = course.Description
	}
	if course.Category != "" {
		existing.Category = course.Category
	}
	if course.Image != "" {
		existing.Image = course.Image
	}
	existing.IsPublished = course.IsPublished

	if err := uc.courseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *courseUsecase) TogglePublish(ctx context.Context, courseID uint) (*domain.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	course.IsPublished = !course.IsPublished
	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUsecase) GetCourse(ctx context.Context, courseID uint) (*domain.CourseWithInstructor, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	name := "Unknown Instructor"
	if instructor, err := uc.userRepo.GetByExternalID(ctx, course.InstructorID); err == nil && instructor.FullName() != "" {
		name = instructor.FullName()
	}

	return &domain.CourseWithInstructor{Course: *course, InstructorName: name}, nil
}

func (uc *courseUsecase) GetPublishedCourses(ctx context.Context) ([]domain.CourseWithInstructor, error) {
	courses, err := uc.courseRepo.GetPublished(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve instructor names in one query.
	seen := map[string]bool{}
	var instructorIDs []string
	for _, c := range courses {
		if !seen[c.InstructorID] {
			seen[c.InstructorID] = true
			instructorIDs = append(instructorIDs, c.InstructorID)
		}
	}
	instructors, err := uc.userRepo.GetByExternalIDs(ctx, instructorIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(instructors))
	for i := range instructors {
		names[instructors[i].ExternalID] = instructors[i].FullName()
	}

	result := make([]domain.CourseWithInstructor, 0, len(courses))
	for _, c := range courses {
		name := names[c.InstructorID]
		if name == "" {
			name = "Unknown Instructor"
		}
		result = append(result, domain.CourseWithInstructor{Course: c, InstructorName: name})
	}
	return result, nil
}

func (uc *courseUsecase) GetInstructorCourses(ctx context.Context, instructorID string) ([]domain.Course, error) {
	return uc.courseRepo.GetByInstructorID(ctx, instructorID)
}

// ========== CURRICULUM AUTHORING ==========

// CreateSection appends a section to the course. Order is the current
// sibling count: append-only, never renumbered when sections are deleted.
func (uc *courseUsecase) CreateSection(ctx context.Context, courseID uint, title string) (*domain.Section, error) {
	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	count, err := uc.sectionRepo.CountByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	section := &domain.Section{
		CourseID: courseID,
		Title:    title,
		Order:    int(count),
	}
	if err := uc.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// AddChapter appends a chapter to its section, denormalizing the course id
// for fast counting. Order follows the same append-only rule as sections.
func (uc *courseUsecase) AddChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error) {
	section, err := uc.sectionRepo.GetByID(ctx, chapter.SectionID)
	if err != nil {
		return nil, err
	}
	chapter.CourseID = section.CourseID

	count, err := uc.chapterRepo.CountBySectionID(ctx, chapter.SectionID)
	if err != nil {
		return nil, err
	}
	chapter.Order = int(count)

	if chapter.Type == "" {
		chapter.Type = domain.ChapterText
	}

	if err := uc.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (uc *courseUsecase) UpdateChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error) {
	existing, err := uc.chapterRepo.GetByID(ctx, chapter.ID)
	if err != nil {
		return nil, err
	}

	if chapter.Title != "" {
		existing.Title = chapter.Title
	}
	if chapter.Type != "" {
		existing.Type = chapter.Type
	}
	if chapter.Content != "" {
		existing.Content = chapter.Content
	}
	if chapter.Questions != nil {
		existing.Questions = chapter.Questions
	}
	existing.IsFree = chapter.IsFree

	if err := uc.chapterRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *courseUsecase) DeleteChapter(ctx context.Context, chapterID string) error {
	return uc.chapterRepo.Delete(ctx, chapterID)
}

// ========== RATINGS ==========

func (uc *courseUsecase) RateCourse(ctx context.Context, rating *domain.Rating) error {
	if rating.Rating < 1 || rating.Rating > 5 {
		return domain.ErrInvalidRating
	}
	if _, err := uc.courseRepo.GetByID(ctx, rating.CourseID); err != nil {
		return err
	}
	return uc.ratingRepo.Upsert(ctx, rating)
}

func (uc *courseUsecase) GetCourseRating(ctx context.Context, courseID uint) (*domain.CourseRatingSummary, error) {
	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return uc.ratingRepo.SummaryByCourseID(ctx, courseID)
}
