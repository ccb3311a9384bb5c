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

	reservationserrors "gite/internal/reservations/errors"
	"gite/pkg/config"
	"gite/pkg/model"
)

const (
	CollectionName = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindAll returns reservations ordered by check-in ascending. An empty
	// status matches every reservation.
	FindAll(ctx context.Context, status string) ([]*model.Reservation, error)
	// UpdateStatus sets the status unconditionally and returns the status it
	// replaced.
	UpdateStatus(ctx context.Context, id string, status string) (string, error)
	Replace(ctx context.Context, id string, r *model.Reservation) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout keeps an earlier caller deadline when there is one.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	res.ID = ""
	res.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var res model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

func (r *mongoReservationRepository) FindAll(ctx context.Context, status string) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "check_in", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, status string) (string, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"status": 1})

	var before struct {
		Status string `bson:"status"`
	}
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
		}
		return "", fmt.Errorf("failed to update reservation status: %w", err)
	}

	return before.Status, nil
}

func (r *mongoReservationRepository) Replace(ctx context.Context, id string, res *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      res.Name,
			"email":     res.Email,
			"phone":     res.Phone,
			"check_in":  res.CheckIn,
			"check_out": res.CheckOut,
			"guests":    res.Guests,
			"message":   res.Message,
			"plan_name": res.PlanName,
			"price":     res.Price,
			"period":    res.Period,
			"status":    res.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to replace reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
	}

	return nil
}
