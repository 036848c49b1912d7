package usecase_test

import (
	"context"
	"testing"

	"learnhub-backend/internal/domain"
	"learnhub-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

type courseFixture struct {
	courses  *fakeCourseRepo
	users    *fakeUserRepo
	tenants  *fakeTenantRepo
	sections *fakeSectionRepo
	chapters *fakeChapterRepo
	ratings  *fakeRatingRepo
	uc       domain.CourseUsecase
}

func newCourseFixture() *courseFixture {
	f := &courseFixture{
		courses:  newFakeCourseRepo(),
		users:    newFakeUserRepo(),
		tenants:  newFakeTenantRepo(),
		sections: newFakeSectionRepo(),
		chapters: newFakeChapterRepo(),
		ratings:  newFakeRatingRepo(),
	}
	f.uc = usecase.NewCourseUsecase(f.courses, f.users, f.tenants, f.sections, f.chapters, f.ratings)
	return f
}

func TestCreateCourse_UnknownTenant(t *testing.T) {
	f := newCourseFixture()
	tenantID := uint(9)

	err := f.uc.CreateCourse(context.Background(), &domain.Course{
		Title: "Go Basics", InstructorID: "inst-1", TenantID: &tenantID,
	})

	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestUpdateCourse_PartialFields(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", Description: "intro", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	updated, err := f.uc.UpdateCourse(ctx, &domain.Course{ID: course.ID, Title: "Go Fundamentals"})

	assert.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", updated.Title)
	assert.Equal(t, "intro", updated.Description)
	assert.Equal(t, "inst-1", updated.InstructorID)
}

func TestTogglePublish(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	published, err := f.uc.TogglePublish(ctx, course.ID)
	assert.NoError(t, err)
	assert.True(t, published.IsPublished)

	unpublished, err := f.uc.TogglePublish(ctx, course.ID)
	assert.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
}

func TestGetCourse_ResolvesInstructorName(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	assert.NoError(t, f.users.Create(ctx, &domain.User{
		ExternalID: "inst-1", Email: "jo@example.com", FirstName: "Jo", LastName: "Moss", Role: domain.RoleInstructor,
	}))
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	got, err := f.uc.GetCourse(ctx, course.ID)

	assert.NoError(t, err)
	assert.Equal(t, "Jo Moss", got.InstructorName)
}

func TestGetCourse_UnknownInstructorFallsBack(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "ghost"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	got, err := f.uc.GetCourse(ctx, course.ID)

	assert.NoError(t, err)
	assert.Equal(t, "Unknown Instructor", got.InstructorName)
}

func TestCreateSection_AssignsAppendOnlyOrder(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	first, err := f.uc.CreateSection(ctx, course.ID, "Basics")
	assert.NoError(t, err)
	second, err := f.uc.CreateSection(ctx, course.ID, "Advanced")
	assert.NoError(t, err)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
}

func TestAddChapter_DenormalizesCourseAndOrder(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))
	section, err := f.uc.CreateSection(ctx, course.ID, "Basics")
	assert.NoError(t, err)

	first, err := f.uc.AddChapter(ctx, &domain.Chapter{SectionID: section.ID, Title: "Intro"})
	assert.NoError(t, err)
	second, err := f.uc.AddChapter(ctx, &domain.Chapter{SectionID: section.ID, Title: "Slices", Type: domain.ChapterVideo})
	assert.NoError(t, err)

	assert.Equal(t, course.ID, first.CourseID)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, domain.ChapterText, first.Type) // default type
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, domain.ChapterVideo, second.Type)
}

func TestAddChapter_UnknownSection(t *testing.T) {
	f := newCourseFixture()

	_, err := f.uc.AddChapter(context.Background(), &domain.Chapter{SectionID: "missing", Title: "Intro"})

	assert.ErrorIs(t, err, domain.ErrSectionNotFound)
}

func TestRateCourse_ValidatesRange(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	err := f.uc.RateCourse(ctx, &domain.Rating{CourseID: course.ID, UserID: "user-1", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	err = f.uc.RateCourse(ctx, &domain.Rating{CourseID: course.ID, UserID: "user-1", Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestRateCourse_UpsertsAndSummarizes(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()
	course := &domain.Course{Title: "Go Basics", InstructorID: "inst-1"}
	assert.NoError(t, f.uc.CreateCourse(ctx, course))

	assert.NoError(t, f.uc.RateCourse(ctx, &domain.Rating{CourseID: course.ID, UserID: "user-1", Rating: 2}))
	assert.NoError(t, f.uc.RateCourse(ctx, &domain.Rating{CourseID: course.ID, UserID: "user-2", Rating: 5}))
	// Re-rating replaces, it never adds a second row.
	assert.NoError(t, f.uc.RateCourse(ctx, &domain.Rating{CourseID: course.ID, UserID: "user-1", Rating: 3}))

	summary, err := f.uc.GetCourseRating(ctx, course.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, 4.0, summary.Average)
}
