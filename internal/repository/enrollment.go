package repository

import (
	"context"
	"errors"
	"learnhub-backend/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type enrollmentRepo struct {
	db *mongo.Database
}

func NewEnrollmentRepository(db *mongo.Database) domain.EnrollmentRepository {
	return &enrollmentRepo{db}
}

// EnsureEnrollmentIndexes creates the unique compound index that guarantees a
// single enrollment per (user, course). Called once at startup.
func EnsureEnrollmentIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("enrollments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	collection := r.db.Collection("enrollments")

	now := time.Now()
	enrollment.EnrolledAt = now
	enrollment.UpdatedAt = now
	if enrollment.CompletedChapters == nil {
		enrollment.CompletedChapters = []string{}
	}
	if enrollment.QuizAttempts == nil {
		enrollment.QuizAttempts = map[string]domain.QuizAttempt{}
	}

	res, err := collection.InsertOne(ctx, enrollment)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateEnrollment
	}
	if err != nil {
		return err
	}
	enrollment.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	filter := bson.M{"user_id": userID, "course_id": courseID}
	err := r.db.Collection("enrollments").FindOne(ctx, filter).Decode(&enrollment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Enrollment, error) {
	cursor, err := r.db.Collection("enrollments").Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var enrollments []domain.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Update writes the whole aggregate back, conditional on the version it was
// read at. A concurrent writer bumps the version first and this call matches
// nothing; the caller reloads and retries.
func (r *enrollmentRepo) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	objID, err := primitive.ObjectIDFromHex(enrollment.ID)
	if err != nil {
		return domain.ErrEnrollmentNotFound
	}

	filter := bson.M{"_id": objID, "version": enrollment.Version}
	update := bson.M{
		"$set": bson.M{
			"completed_chapters": enrollment.CompletedChapters,
			"quiz_attempts":      enrollment.QuizAttempts,
			"progress":           enrollment.Progress,
			"completed_at":       enrollment.CompletedAt,
			"updated_at":         time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.db.Collection("enrollments").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	enrollment.Version++
	return nil
}
