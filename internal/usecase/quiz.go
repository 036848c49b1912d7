package usecase

import (
	"context"
	"errors"
	"learnhub-backend/internal/domain"
	"strconv"
	"time"
)

type quizUsecase struct {
	chapterRepo domain.ChapterRepository
	enrollRepo  domain.EnrollmentRepository
}

func NewQuizUsecase(
	chr domain.ChapterRepository,
	er domain.EnrollmentRepository,
) domain.QuizUsecase {
	return &quizUsecase{
		chapterRepo: chr,
		enrollRepo:  er,
	}
}

// SubmitQuiz grades the submission against the chapter's question bank,
// replaces the stored attempt for the chapter, and on a pass marks the
// chapter complete and recomputes progress. The enrollment is saved exactly
// once per submission, pass or fail, so the attempt and any completion land
// together or not at all.
func (uc *quizUsecase) SubmitQuiz(ctx context.Context, userID string, courseID uint, chapterID string, answers map[string]int) (*domain.GradeResult, error) {
	chapter, err := uc.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Type != domain.ChapterQuiz || chapter.CourseID != courseID {
		return nil, domain.ErrChapterNotFound
	}
	if len(chapter.Questions) == 0 {
		return nil, domain.ErrQuizNotConfigured
	}

	if answers == nil {
		answers = map[string]int{}
	}

	score, results := grade(chapter.Questions, answers)
	total := len(chapter.Questions)
	// Inclusive threshold: exactly 50% passes.
	passed := total > 0 && float64(score)/float64(total) >= 0.5

	attempt := domain.QuizAttempt{
		Answers:     answers,
		Score:       score,
		Passed:      passed,
		AttemptedAt: time.Now(),
	}

	for retry := 0; ; retry++ {
		enrollment, err := uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if enrollment == nil {
			return nil, domain.ErrEnrollmentNotFound
		}

		// Replace-by-key: only the latest attempt per chapter is kept.
		if enrollment.QuizAttempts == nil {
			enrollment.QuizAttempts = map[string]domain.QuizAttempt{}
		}
		enrollment.QuizAttempts[chapterID] = attempt

		if passed && !enrollment.HasCompleted(chapterID) {
			enrollment.CompletedChapters = append(enrollment.CompletedChapters, chapterID)

			totalChapters, err := uc.chapterRepo.CountByCourseID(ctx, courseID)
			if err != nil {
				return nil, err
			}
			ApplyProgress(enrollment, int(totalChapters), time.Now())
		}

		err = uc.enrollRepo.Update(ctx, enrollment)
		if errors.Is(err, domain.ErrVersionConflict) && retry < casRetries {
			continue
		}
		if err != nil {
			return nil, err
		}

		return &domain.GradeResult{
			Score:             score,
			Total:             total,
			Passed:            passed,
			Results:           results,
			Progress:          enrollment.Progress,
			CompletedChapters: enrollment.CompletedChapters,
			IsCourseCompleted: enrollment.Progress == 100,
		}, nil
	}
}

// GetLastAttempt returns the stored attempt for the chapter with per-question
// verdicts recomputed against the chapter's current question bank; the
// attempt only persists raw answers and the aggregate score. No enrollment or
// no attempt yields (nil, nil).
func (uc *quizUsecase) GetLastAttempt(ctx context.Context, userID string, courseID uint, chapterID string) (*domain.AttemptView, error) {
	enrollment, err := uc.enrollRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, nil
	}

	attempt, ok := enrollment.QuizAttempts[chapterID]
	if !ok {
		return nil, nil
	}

	// A deleted chapter leaves the attempt without verdicts; any other fetch
	// failure is a real error the caller must see.
	var results []domain.QuestionResult
	chapter, err := uc.chapterRepo.GetByID(ctx, chapterID)
	switch {
	case err == nil:
		_, results = grade(chapter.Questions, attempt.Answers)
	case !errors.Is(err, domain.ErrChapterNotFound):
		return nil, err
	}

	return &domain.AttemptView{
		Answers:     attempt.Answers,
		Score:       attempt.Score,
		Passed:      attempt.Passed,
		AttemptedAt: attempt.AttemptedAt,
		Results:     results,
	}, nil
}

// grade compares answers against the question bank in stored order. A
// missing key counts as unanswered and therefore incorrect.
func grade(questions []domain.QuizQuestion, answers map[string]int) (int, []domain.QuestionResult) {
	score := 0
	results := make([]domain.QuestionResult, len(questions))
	for i, q := range questions {
		correct := -1
		if q.CorrectAnswer != nil {
			correct = *q.CorrectAnswer
		}

		selected, answered := answers[strconv.Itoa(i)]
		isCorrect := answered && correct >= 0 && selected == correct
		if isCorrect {
			score++
		}

		results[i] = domain.QuestionResult{
			QuestionIndex: i,
			IsCorrect:     isCorrect,
			CorrectAnswer: correct,
		}
	}
	return score, results
}
