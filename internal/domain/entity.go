package domain

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleInstructor  Role = "instructor"
	RoleStudent     Role = "student"
	RolePending     Role = "pending"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// Tenant - one customer organization. Provisioning happens outside this
// service; we only keep the record for tenant-scoped queries.
type Tenant struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"not null"`
	Slug      string       `json:"slug" gorm:"uniqueIndex;not null"`
	Domain    string       `json:"domain,omitempty"`
	Status    TenantStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// User - mirror of the identity held by the external auth provider.
// ExternalID is the verified subject the provider hands us; we never store
// credentials here.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"uniqueIndex;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       Role      `json:"role" gorm:"type:varchar(20);default:'pending'"`
	TenantID   *uint     `json:"tenant_id,omitempty" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Course struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	InstructorID string    `json:"instructor_id" gorm:"not null;index"` // external auth id
	TenantID     *uint     `json:"tenant_id,omitempty" gorm:"index"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"` // hidden from students until published
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Rating - one per (course, student), enforced by unique index.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_course_user"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_course_user"`
	Rating    int       `json:"rating" gorm:"not null"`
	Feedback  string    `json:"feedback" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ========== MONGODB MODELS ==========

// Curriculum lives in MongoDB: sections and chapters are hierarchical and
// quiz chapters embed a question bank with no fixed shape.

type ChapterType string

const (
	ChapterVideo ChapterType = "video"
	ChapterText  ChapterType = "text"
	ChapterQuiz  ChapterType = "quiz"
	ChapterPDF   ChapterType = "pdf"
)

type Section struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CourseID  uint      `json:"course_id" bson:"course_id"`
	Title     string    `json:"title" bson:"title"`
	Order     int       `json:"order" bson:"order"` // sibling count at creation, append-only
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// QuizQuestion - CorrectAnswer is a pointer so sanitization can drop it
// entirely from both JSON and BSON output.
type QuizQuestion struct {
	Prompt        string   `json:"question" bson:"question"`
	Options       []string `json:"options" bson:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty" bson:"correct_answer,omitempty"`
}

type Chapter struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	SectionID string         `json:"section_id" bson:"section_id"`
	CourseID  uint           `json:"course_id" bson:"course_id"` // denormalized for fast lookup
	Title     string         `json:"title" bson:"title"`
	Type      ChapterType    `json:"type" bson:"type"`
	Content   string         `json:"content" bson:"content"` // opaque path/URL; unused for quiz
	Questions []QuizQuestion `json:"questions,omitempty" bson:"questions,omitempty"`
	IsFree    bool           `json:"is_free" bson:"is_free"`
	Order     int            `json:"order" bson:"order"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// QuizAttempt - only the latest attempt per chapter is kept. Correctness
// verdicts are not persisted; they are reconstructed against the current
// question bank on read.
type QuizAttempt struct {
	Answers     map[string]int `json:"answers" bson:"answers"` // question index -> selected option index
	Score       int            `json:"score" bson:"score"`
	Passed      bool           `json:"passed" bson:"passed"`
	AttemptedAt time.Time      `json:"attempted_at" bson:"attempted_at"`
}

// Enrollment - the one record per (user, course). Mutated as an aggregate and
// written back with a conditional update on Version; concurrent writers
// retry, they never clobber each other.
type Enrollment struct {
	ID                string                 `json:"id" bson:"_id,omitempty"`
	UserID            string                 `json:"user_id" bson:"user_id"`
	CourseID          uint                   `json:"course_id" bson:"course_id"`
	TenantID          *uint                  `json:"tenant_id,omitempty" bson:"tenant_id,omitempty"`
	CompletedChapters []string               `json:"completed_chapters" bson:"completed_chapters"`
	QuizAttempts      map[string]QuizAttempt `json:"quiz_attempts" bson:"quiz_attempts"` // keyed by chapter id
	Progress          int                    `json:"progress" bson:"progress"`           // 0-100
	CompletedAt       *time.Time             `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	EnrolledAt        time.Time              `json:"enrolled_at" bson:"enrolled_at"`
	UpdatedAt         time.Time              `json:"updated_at" bson:"updated_at"`
	Version           int64                  `json:"-" bson:"version"`
}

// HasCompleted reports whether chapterID is already in the completed set.
func (e *Enrollment) HasCompleted(chapterID string) bool {
	for _, id := range e.CompletedChapters {
		if id == chapterID {
			return true
		}
	}
	return false
}

// ========== RESPONSE DTOs ==========

// CurriculumSection - section with its ordered chapters.
type CurriculumSection struct {
	Section
	Chapters []Chapter `json:"chapters"`
}

// ProgressView - what the progress endpoints return.
type ProgressView struct {
	Progress          int      `json:"progress"`
	CompletedChapters []string `json:"completed_chapters"`
}

// QuestionResult - per-question verdict, recomputed at grading or read time.
type QuestionResult struct {
	QuestionIndex int  `json:"question_index"`
	IsCorrect     bool `json:"is_correct"`
	CorrectAnswer int  `json:"correct_answer"`
}

// GradeResult - outcome of a quiz submission.
type GradeResult struct {
	Score             int              `json:"score"`
	Total             int              `json:"total"`
	Passed            bool             `json:"passed"`
	Results           []QuestionResult `json:"results"`
	Progress          int              `json:"progress"`
	CompletedChapters []string         `json:"completed_chapters"`
	IsCourseCompleted bool             `json:"is_course_completed"`
}

// AttemptView - stored attempt plus verdicts reconstructed against the
// current question bank.
type AttemptView struct {
	Answers     map[string]int   `json:"answers"`
	Score       int              `json:"score"`
	Passed      bool             `json:"passed"`
	AttemptedAt time.Time        `json:"attempted_at"`
	Results     []QuestionResult `json:"results"`
}

// CourseWithInstructor - course plus the instructor display name resolved
// from the users table.
type CourseWithInstructor struct {
	Course
	InstructorName string `json:"instructor_name"`
}

// EnrolledCourse - course joined with the student's enrollment state.
type EnrolledCourse struct {
	Course
	Progress   int       `json:"progress"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// CourseRatingSummary - aggregate rating for a course.
type CourseRatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
