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

// ========== SECTION REPOSITORY ==========

type sectionRepo struct {
	db *mongo.Database
}

func NewSectionRepository(db *mongo.Database) domain.SectionRepository {
	return &sectionRepo{db}
}

func (r *sectionRepo) Create(ctx context.Context, section *domain.Section) error {
	collection := r.db.Collection("sections")
	section.CreatedAt = time.Now()
	res, err := collection.InsertOne(ctx, section)
	if err != nil {
		return err
	}
	section.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *sectionRepo) GetByCourseID(ctx context.Context, courseID uint) ([]domain.Section, error) {
	collection := r.db.Collection("sections")
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sections []domain.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) GetByID(ctx context.Context, id string) (*domain.Section, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSectionNotFound
	}

	var section domain.Section
	err = r.db.Collection("sections").FindOne(ctx, bson.M{"_id": objID}).Decode(&section)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) CountByCourseID(ctx context.Context, courseID uint) (int64, error) {
	return r.db.Collection("sections").CountDocuments(ctx, bson.M{"course_id": courseID})
}

// ========== CHAPTER REPOSITORY ==========

type chapterRepo struct {
	db *mongo.Database
}

func NewChapterRepository(db *mongo.Database) domain.ChapterRepository {
	return &chapterRepo{db}
}

func (r *chapterRepo) Create(ctx context.Context, chapter *domain.Chapter) error {
	collection := r.db.Collection("chapters")
	chapter.CreatedAt = time.Now()
	res, err := collection.InsertOne(ctx, chapter)
	if err != nil {
		return err
	}
	chapter.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *chapterRepo) GetByID(ctx context.Context, id string) (*domain.Chapter, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrChapterNotFound
	}

	var chapter domain.Chapter
	err = r.db.Collection("chapters").FindOne(ctx, bson.M{"_id": objID}).Decode(&chapter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChapterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepo) GetBySectionID(ctx context.Context, sectionID string) ([]domain.Chapter, error) {
	collection := r.db.Collection("chapters")
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"section_id": sectionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chapters []domain.Chapter
	if err := cursor.All(ctx, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) CountBySectionID(ctx context.Context, sectionID string) (int64, error) {
	return r.db.Collection("chapters").CountDocuments(ctx, bson.M{"section_id": sectionID})
}

func (r *chapterRepo) CountByCourseID(ctx context.Context, courseID uint) (int64, error) {
	// course_id is denormalized onto chapters so the total never needs a
	// per-section walk.
	return r.db.Collection("chapters").CountDocuments(ctx, bson.M{"course_id": courseID})
}

func (r *chapterRepo) Update(ctx context.Context, chapter *domain.Chapter) error {
	objID, err := primitive.ObjectIDFromHex(chapter.ID)
	if err != nil {
		return domain.ErrChapterNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":     chapter.Title,
		"type":      chapter.Type,
		"content":   chapter.Content,
		"questions": chapter.Questions,
		"is_free":   chapter.IsFree,
	}}
	res, err := r.db.Collection("chapters").UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}

func (r *chapterRepo) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrChapterNotFound
	}
	res, err := r.db.Collection("chapters").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrChapterNotFound
	}
	return nil
}
