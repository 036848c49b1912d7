package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"learnhub-backend/internal/domain"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	CurriculumUsecase domain.CurriculumUsecase
	EnrollmentUsecase domain.EnrollmentUsecase
	QuizUsecase       domain.QuizUsecase
	CourseUsecase     domain.CourseUsecase
	Files             *FileHandler
}

func NewHandler(
	cu domain.CurriculumUsecase,
	eu domain.EnrollmentUsecase,
	qu domain.QuizUsecase,
	couu domain.CourseUsecase,
	fh *FileHandler,
) *Handler {
	return &Handler{
		CurriculumUsecase: cu,
		EnrollmentUsecase: eu,
		QuizUsecase:       qu,
		CourseUsecase:     couu,
		Files:             fh,
	}
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string)
		for _, f := range ve {
			details[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"error": "Validation failed", "details": details}
	}
	return gin.H{"error": "Invalid request: " + err.Error()}
}

func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", errors.New("user ID not found in token")
	}
	return userID.(string), nil
}

func getUserRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}

func parseCourseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps domain errors to statuses: not-found 404, quiz
// misconfiguration 422, concurrent-update exhaustion 409, everything else is
// a transient storage failure the client may retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrSectionNotFound),
		errors.Is(err, domain.ErrChapterNotFound),
		errors.Is(err, domain.ErrEnrollmentNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrQuizNotConfigured):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// hasAuthoringRights reports whether the role may see unsanitized curricula.
func hasAuthoringRights(role string) bool {
	switch domain.Role(role) {
	case domain.RoleInstructor, domain.RoleTenantAdmin, domain.RoleSuperAdmin:
		return true
	}
	return false
}

// ========== COURSE HANDLERS ==========

func (h *Handler) GetPublishedCourses(c *gin.Context) {
	courses, err := h.CourseUsecase.GetPublishedCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) GetInstructorCourses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courses, err := h.CourseUsecase.GetInstructorCourses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) GetCourse(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	course, err := h.CourseUsecase.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) CreateCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	course := domain.Course{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Category:     c.PostForm("category"),
		InstructorID: userID,
	}
	if course.Title == "" || course.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if tenantStr := c.PostForm("tenant_id"); tenantStr != "" {
		tenantID, err := strconv.ParseUint(tenantStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
			return
		}
		id := uint(tenantID)
		course.TenantID = &id
	}

	imagePath, err := h.Files.UploadFormAsset(c, "thumbnail", userID, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upload thumbnail: " + err.Error()})
		return
	}
	course.Image = imagePath

	if err := h.CourseUsecase.CreateCourse(c.Request.Context(), &course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	course := domain.Course{
		ID:          courseID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		IsPublished: c.PostForm("is_published") == "true",
	}

	imagePath, err := h.Files.UploadFormAsset(c, "thumbnail", userID, courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upload thumbnail: " + err.Error()})
		return
	}
	course.Image = imagePath

	updated, err := h.CourseUsecase.UpdateCourse(c.Request.Context(), &course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) TogglePublish(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	course, err := h.CourseUsecase.TogglePublish(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ========== CURRICULUM HANDLERS ==========

// GetCurriculum serves the course tree. Quiz answer keys are stripped unless
// the caller holds authoring rights; sanitization happens in the usecase, the
// handler only decides which view was requested.
func (h *Handler) GetCurriculum(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	sanitize := !hasAuthoringRights(getUserRole(c))

	curriculum, err := h.CurriculumUsecase.GetCurriculum(c.Request.Context(), courseID, sanitize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, curriculum)
}

func (h *Handler) CreateSection(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	section, err := h.CourseUsecase.CreateSection(c.Request.Context(), courseID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *Handler) AddChapter(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	chapter := domain.Chapter{
		SectionID: c.Param("sectionId"),
		Title:     c.PostForm("title"),
		Type:      domain.ChapterType(c.PostForm("type")),
		Content:   c.PostForm("content"),
		IsFree:    c.PostForm("is_free") == "true",
	}
	if chapter.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	questions, ok := parseQuestions(c)
	if !ok {
		return
	}
	chapter.Questions = questions

	// An uploaded file becomes the chapter content; a manual path/URL is
	// used as-is otherwise.
	contentPath, err := h.Files.UploadFormAsset(c, "file", userID, courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}
	if contentPath != "" {
		chapter.Content = contentPath
	}

	created, err := h.CourseUsecase.AddChapter(c.Request.Context(), &chapter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateChapter(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	chapter := domain.Chapter{
		ID:      c.Param("chapterId"),
		Title:   c.PostForm("title"),
		Type:    domain.ChapterType(c.PostForm("type")),
		Content: c.PostForm("content"),
		IsFree:  c.PostForm("is_free") == "true",
	}

	questions, ok := parseQuestions(c)
	if !ok {
		return
	}
	chapter.Questions = questions

	contentPath, err := h.Files.UploadFormAsset(c, "file", userID, courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}
	if contentPath != "" {
		chapter.Content = contentPath
	}

	updated, err := h.CourseUsecase.UpdateChapter(c.Request.Context(), &chapter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteChapter(c *gin.Context) {
	if err := h.CourseUsecase.DeleteChapter(c.Request.Context(), c.Param("chapterId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted successfully"})
}

// parseQuestions decodes the multipart "questions" field (a JSON array, the
// way course builders submit quiz banks).
func parseQuestions(c *gin.Context) ([]domain.QuizQuestion, bool) {
	raw := c.PostForm("questions")
	if raw == "" {
		return nil, true
	}
	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid questions payload"})
		return nil, false
	}
	return questions, true
}

// ========== ENROLLMENT HANDLERS ==========

func (h *Handler) Enroll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	enrollment, err := h.EnrollmentUsecase.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *Handler) GetStudentEnrollments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	enrollments, err := h.EnrollmentUsecase.GetStudentEnrollments(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

func (h *Handler) GetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	progress, err := h.EnrollmentUsecase.GetProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *Handler) CompleteChapter(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	progress, err := h.EnrollmentUsecase.CompleteChapter(c.Request.Context(), userID, courseID, c.Param("chapterId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// ========== QUIZ HANDLERS ==========

func (h *Handler) SubmitQuiz(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req struct {
		Answers map[string]int `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	result, err := h.QuizUsecase.SubmitQuiz(c.Request.Context(), userID, courseID, c.Param("chapterId"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetQuizAttempt returns {"attempt": null} when nothing was attempted yet;
// absence is a normal state for the quiz player, not an error.
func (h *Handler) GetQuizAttempt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	attempt, err := h.QuizUsecase.GetLastAttempt(c.Request.Context(), userID, courseID, c.Param("chapterId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempt": attempt})
}

// ========== RATING HANDLERS ==========

func (h *Handler) RateCourse(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req struct {
		Rating   int    `json:"rating" binding:"required,min=1,max=5"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	rating := &domain.Rating{
		CourseID: courseID,
		UserID:   userID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	}
	if err := h.CourseUsecase.RateCourse(c.Request.Context(), rating); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *Handler) GetCourseRating(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}

	summary, err := h.CourseUsecase.GetCourseRating(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
