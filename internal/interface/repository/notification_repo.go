// internal/interface/repository/notification_repo.go
package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
	"resident-request-service/pkg/logger"
)

// MongoNotificationRepository implements the NotificationRepository interface
type MongoNotificationRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

// NewMongoNotificationRepository creates a new MongoDB notification repository
func NewMongoNotificationRepository(db *mongo.Database, logger logger.Logger) repository.NotificationRepository {
	collection := db.Collection("notifications")

	ctx := context.Background()

	// Feed queries are always per user, newest first
	feedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	unreadIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "read", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{feedIndex, unreadIndex})

	return &MongoNotificationRepository{
		collection: collection,
		logger:     logger,
	}
}

// FindByUser returns the most recent notifications, newest first
func (r *MongoNotificationRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.NotificationRecord, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*entity.NotificationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return records, nil
}

// MarkRead flips the read flag of one notification
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.NewNotFoundError("notification not found")
	}
	return nil
}

// MarkAllRead flips the read flag of every unread notification
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark all read: %w", err)
	}
	return nil
}

// ClearAll deletes the user's notifications
func (r *MongoNotificationRepository) ClearAll(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	r.logger.Info("Cleared notifications", "userId", userID, "deleted", result.DeletedCount)
	return nil
}

// Watch emits a live event for every change on the user's feed. Delete
// events carry no full document, so they are matched broadly and reported
// by id only; the aggregator drops ids its snapshot never held.
func (r *MongoNotificationRepository) Watch(ctx context.Context, userID string) (<-chan entity.NotificationEvent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.userId": userID},
				{"operationType": "delete"},
			},
		}}},
	}

	streamOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, pipeline, streamOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	events := make(chan entity.NotificationEvent)

	go func() {
		defer close(events)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var change struct {
				OperationType string                     `bson:"operationType"`
				FullDocument  *entity.NotificationRecord `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&change); err != nil {
				r.logger.Error("Failed to decode change event", "error", err)
				continue
			}

			event := entity.NotificationEvent{ID: change.DocumentKey.ID, Record: change.FullDocument}
			switch change.OperationType {
			case "insert":
				event.Type = entity.NotificationCreated
			case "update", "replace":
				event.Type = entity.NotificationUpdated
			case "delete":
				event.Type = entity.NotificationDeleted
			default:
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("Notification change stream ended", "userId", userID, "error", err)
		}
	}()

	return events, nil
}
