package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	galleryerrors "gite/internal/gallery/errors"
	"gite/pkg/config"
	"gite/pkg/model"
)

const (
	CollectionName = "Gallery_images"
)

type GalleryImageRepository interface {
	Create(ctx context.Context, img *model.GalleryImage) error
	FindByID(ctx context.Context, id string) (*model.GalleryImage, error)
	// FindAll orders by sort_order then created_at.
	FindAll(ctx context.Context, featuredOnly bool) ([]*model.GalleryImage, error)
	Update(ctx context.Context, id string, img *model.GalleryImage) error
	Delete(ctx context.Context, id string) error
}

type mongoGalleryImageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoGalleryImageRepository(cfg *config.Config) GalleryImageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGalleryImageRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoGalleryImageRepository) Create(ctx context.Context, img *model.GalleryImage) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	img.ID = ""
	img.CreatedAt = now
	img.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, img)
	if err != nil {
		return fmt.Errorf("failed to create gallery image: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		img.ID = oid.Hex()
	}

	return nil
}

func (r *mongoGalleryImageRepository) FindByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", galleryerrors.ErrInvalidID, id)
	}

	var img model.GalleryImage
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&img)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", galleryerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find gallery image: %w", err)
	}
	return &img, nil
}

func (r *mongoGalleryImageRepository) FindAll(ctx context.Context, featuredOnly bool) ([]*model.GalleryImage, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if featuredOnly {
		filter["featured"] = true
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery images: %w", err)
	}
	defer cursor.Close(ctx)

	images := []*model.GalleryImage{}
	if err = cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode gallery images: %w", err)
	}

	return images, nil
}

func (r *mongoGalleryImageRepository) Update(ctx context.Context, id string, img *model.GalleryImage) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", galleryerrors.ErrInvalidID, id)
	}

	img.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"title":        img.Title,
			"alt_text":     img.AltText,
			"url":          img.URL,
			"storage_path": img.StoragePath,
			"category":     img.Category,
			"featured":     img.Featured,
			"sort_order":   img.SortOrder,
			"updated_at":   img.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update gallery image: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", galleryerrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoGalleryImageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", galleryerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", galleryerrors.ErrNotFound, id)
	}

	return nil
}
