package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxAssetSize caps uploaded course assets (videos, PDFs, images).
const MaxAssetSize = 100 * 1024 * 1024 // 100MB

// AssetInfo is the stored file's metadata.
type AssetInfo struct {
	ID          string        `json:"id" bson:"_id"`
	Filename    string        `json:"filename" bson:"filename"`
	ContentType string        `json:"content_type" bson:"contentType"`
	Size        int64         `json:"size" bson:"length"`
	UploadDate  time.Time     `json:"upload_date" bson:"uploadDate"`
	Metadata    AssetMetadata `json:"metadata" bson:"metadata"`
}

// AssetMetadata ties an upload to its uploader and, optionally, a course.
type AssetMetadata struct {
	OriginalName string `json:"original_name" bson:"original_name"`
	UploadedBy   string `json:"uploaded_by" bson:"uploaded_by"` // external auth id
	Kind         string `json:"kind" bson:"kind"`               // video, pdf, image
	CourseID     uint   `json:"course_id,omitempty" bson:"course_id,omitempty"`
}

// ContentPath is the opaque reference chapters store in their content field.
func (a *AssetInfo) ContentPath() string {
	return "/api/files/" + a.ID
}

// AssetStore is the upload sink: chapters only ever see the content path it
// returns, never the storage details.
type AssetStore interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, metadata AssetMetadata) (*AssetInfo, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *AssetInfo, error)
	Delete(ctx context.Context, fileID string) error
	GetInfo(ctx context.Context, fileID string) (*AssetInfo, error)
}

type gridFSStore struct {
	db     *mongo.Database
	bucket *gridfs.Bucket
}

func NewAssetStore(db *mongo.Database) (AssetStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("assets"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &gridFSStore{db: db, bucket: bucket}, nil
}

func (s *gridFSStore) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, metadata AssetMetadata) (*AssetInfo, error) {
	if header.Size > MaxAssetSize {
		return nil, fmt.Errorf("file too large, limit is %dMB", MaxAssetSize/(1024*1024))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = detectContentType(header.Filename)
	}

	kind := assetKind(contentType, header.Filename)
	if kind == "" {
		return nil, errors.New("unsupported file type: only video, PDF and image uploads are allowed")
	}

	ext := filepath.Ext(header.Filename)
	uniqueFilename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), randString(8), ext)

	metadata.OriginalName = header.Filename
	metadata.Kind = kind

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"original_name": metadata.OriginalName,
		"uploaded_by":   metadata.UploadedBy,
		"kind":          metadata.Kind,
		"course_id":     metadata.CourseID,
		"content_type":  contentType,
	})

	objectID, err := s.bucket.UploadFromStream(uniqueFilename, file, uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	return &AssetInfo{
		ID:          objectID.Hex(),
		Filename:    uniqueFilename,
		ContentType: contentType,
		Size:        header.Size,
		UploadDate:  time.Now(),
		Metadata:    metadata,
	}, nil
}

func (s *gridFSStore) Download(ctx context.Context, fileID string) (io.ReadCloser, *AssetInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, errors.New("invalid file ID")
	}

	info, err := s.GetInfo(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.bucket.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, fmt.Errorf("file not found: %w", err)
	}
	return stream, info, nil
}

func (s *gridFSStore) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return errors.New("invalid file ID")
	}
	if err := s.bucket.Delete(objectID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *gridFSStore) GetInfo(ctx context.Context, fileID string) (*AssetInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, errors.New("invalid file ID")
	}

	collection := s.db.Collection("assets.files")

	var result struct {
		ID         primitive.ObjectID `bson:"_id"`
		Filename   string             `bson:"filename"`
		Length     int64              `bson:"length"`
		UploadDate time.Time          `bson:"uploadDate"`
		Metadata   bson.M             `bson:"metadata"`
	}

	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("file not found")
		}
		return nil, err
	}

	metadata := AssetMetadata{}
	contentType := ""
	if result.Metadata != nil {
		if v, ok := result.Metadata["original_name"].(string); ok {
			metadata.OriginalName = v
		}
		if v, ok := result.Metadata["uploaded_by"].(string); ok {
			metadata.UploadedBy = v
		}
		if v, ok := result.Metadata["kind"].(string); ok {
			metadata.Kind = v
		}
		if v, ok := result.Metadata["course_id"].(int64); ok {
			metadata.CourseID = uint(v)
		} else if v, ok := result.Metadata["course_id"].(int32); ok {
			metadata.CourseID = uint(v)
		}
		if v, ok := result.Metadata["content_type"].(string); ok {
			contentType = v
		}
	}
	if contentType == "" {
		contentType = detectContentType(result.Filename)
	}

	return &AssetInfo{
		ID:          result.ID.Hex(),
		Filename:    result.Filename,
		ContentType: contentType,
		Size:        result.Length,
		UploadDate:  result.UploadDate,
		Metadata:    metadata,
	}, nil
}

// Helper functions

func detectContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// assetKind maps a content type to the bucket category, or "" when the type
// is not allowed.
func assetKind(contentType, filename string) string {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case contentType == "application/pdf":
		return "pdf"
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	}

	// Fall back to the extension when the client sent a generic type.
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".webm":
		return "video"
	case ".pdf":
		return "pdf"
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "image"
	}
	return ""
}

func randString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
