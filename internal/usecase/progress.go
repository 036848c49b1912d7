package usecase

import (
	"learnhub-backend/internal/domain"
	"math"
	"time"
)

// ComputeProgress returns the completion percentage, rounded half-up
// (1 of 3 chapters -> 33, 2 of 3 -> 67). A course with no chapters has no
// measurable progress and stays at 0. Deleting chapters can leave the
// completed set larger than the remaining total; the result is capped at 100
// so the percentage stays in range and completion detection keeps working.
func ComputeProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ApplyProgress recomputes the enrollment's percentage from its completed
// set and latches CompletedAt the first time it reaches 100. The latch is
// one-way: if chapters are added later and the percentage drops, the
// historical completion stands.
func ApplyProgress(e *domain.Enrollment, totalChapters int, now time.Time) {
	e.Progress = ComputeProgress(len(e.CompletedChapters), totalChapters)
	if e.Progress == 100 && e.CompletedAt == nil {
		t := now
		e.CompletedAt = &t
	}
}
