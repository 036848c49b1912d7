package usecase

import (
	"context"
	"learnhub-backend/internal/domain"
)

type curriculumUsecase struct {
	courseRepo  domain.CourseRepository
	sectionRepo domain.SectionRepository
	chapterRepo domain.ChapterRepository
}

func NewCurriculumUsecase(
	cr domain.CourseRepository,
	sr domain.SectionRepository,
	chr domain.ChapterRepository,
) domain.CurriculumUsecase {
	return &curriculumUsecase{
		courseRepo:  cr,
		sectionRepo: sr,
		chapterRepo: chr,
	}
}

// GetCurriculum returns the course's sections with their chapters, both
// ordered ascending. With sanitize set, every quiz question loses its
// correct-answer index before the tree leaves this usecase; callers that
// serve students must never receive the answer key.
func (uc *curriculumUsecase) GetCurriculum(ctx context.Context, courseID uint, sanitize bool) ([]domain.CurriculumSection, error) {
	if _, err := uc.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	sections, err := uc.sectionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.CurriculumSection, 0, len(sections))
	for _, section := range sections {
		chapters, err := uc.chapterRepo.GetBySectionID(ctx, section.ID)
		if err != nil {
			return nil, err
		}

		if sanitize {
			for i := range chapters {
				chapters[i] = sanitizeChapter(chapters[i])
			}
		}

		result = append(result, domain.CurriculumSection{
			Section:  section,
			Chapters: chapters,
		})
	}

	return result, nil
}

// CountChapters returns the total chapter count across all sections of the
// course, the denominator for progress recomputation.
func (uc *curriculumUsecase) CountChapters(ctx context.Context, courseID uint) (int, error) {
	count, err := uc.chapterRepo.CountByCourseID(ctx, courseID)
	return int(count), err
}

// sanitizeChapter strips the answer key from quiz questions. The question
// slice is rebuilt rather than mutated so cached chapters stay intact.
func sanitizeChapter(ch domain.Chapter) domain.Chapter {
	if ch.Type != domain.ChapterQuiz || len(ch.Questions) == 0 {
		return ch
	}

	questions := make([]domain.QuizQuestion, len(ch.Questions))
	for i, q := range ch.Questions {
		questions[i] = domain.QuizQuestion{
			Prompt:  q.Prompt,
			Options: q.Options,
		}
	}
	ch.Questions = questions
	return ch
}
