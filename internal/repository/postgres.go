package repository

import (
	"context"
	"errors"
	"learnhub-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ========== USER REPOSITORY ==========

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return &user, err
}

func (r *userRepo) GetByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.User, error) {
	var users []domain.User
	if len(externalIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("external_id IN ?", externalIDs).Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ========== TENANT REPOSITORY ==========

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) domain.TenantRepository {
	return &tenantRepo{db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *domain.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepo) GetByID(ctx context.Context, id uint) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).First(&tenant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTenantNotFound
	}
	return &tenant, err
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTenantNotFound
	}
	return &tenant, err
}

// ========== COURSE REPOSITORY ==========

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) domain.CourseRepository {
	return &courseRepo{db}
}

func (r *courseRepo) Create(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	return &course, err
}

func (r *courseRepo) GetPublished(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByInstructorID(ctx context.Context, instructorID string) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByIDs(ctx context.Context, ids []uint) ([]domain.Course, error) {
	var courses []domain.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// ========== RATING REPOSITORY ==========

type ratingRepo struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) domain.RatingRepository {
	return &ratingRepo{db}
}

// Upsert replaces the student's previous rating for the course, keyed by the
// unique (course_id, user_id) index.
func (r *ratingRepo) Upsert(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "feedback", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepo) SummaryByCourseID(ctx context.Context, courseID uint) (*domain.CourseRatingSummary, error) {
	var summary domain.CourseRatingSummary
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&summary).Error
	return &summary, err
}
