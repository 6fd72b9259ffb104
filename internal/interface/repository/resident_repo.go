// internal/interface/repository/resident_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/domain/repository"
)

// MongoResidentRepository implements the ResidentRepository interface
type MongoResidentRepository struct {
	collection *mongo.Collection
}

// NewMongoResidentRepository creates a new MongoDB resident repository
func NewMongoResidentRepository(db *mongo.Database) repository.ResidentRepository {
	collection := db.Collection("residents")

	ctx := context.Background()

	// One profile document per resident within an org/property scope
	scopeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "orgId", Value: 1},
			{Key: "propertyId", Value: 1},
			{Key: "userId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	collection.Indexes().CreateOne(ctx, scopeIndex)

	return &MongoResidentRepository{
		collection: collection,
	}
}

func scopeFilter(orgID, propertyID, userID string) bson.M {
	return bson.M{
		"orgId":      orgID,
		"propertyId": propertyID,
		"userId":     userID,
	}
}

// FindProfile loads a resident profile document
func (r *MongoResidentRepository) FindProfile(ctx context.Context, orgID, propertyID, userID string) (*entity.ResidentProfile, error) {
	var profile entity.ResidentProfile
	err := r.collection.FindOne(ctx, scopeFilter(orgID, propertyID, userID)).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.NewNotFoundError("resident profile not found")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// SaveVehicles overwrites the whole vehicle array in one write. The array
// granularity matches the existing stored documents; there is no
// per-element patch.
func (r *MongoResidentRepository) SaveVehicles(ctx context.Context, orgID, propertyID, userID string, vehicles []entity.Vehicle) error {
	if vehicles == nil {
		vehicles = []entity.Vehicle{}
	}

	update := bson.M{
		"$set": bson.M{
			"vehicles":  vehicles,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"orgId":      orgID,
			"propertyId": propertyID,
			"userId":     userID,
		},
	}

	_, err := r.collection.UpdateOne(
		ctx,
		scopeFilter(orgID, propertyID, userID),
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save vehicles: %w", err)
	}
	return nil
}

// SavePhone persists the preferred contact phone
func (r *MongoResidentRepository) SavePhone(ctx context.Context, orgID, propertyID, userID, phone string) error {
	update := bson.M{
		"$set": bson.M{
			"phone":     phone,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, scopeFilter(orgID, propertyID, userID), update)
	if err != nil {
		return fmt.Errorf("failed to save phone: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.NewNotFoundError("resident profile not found")
	}
	return nil
}
