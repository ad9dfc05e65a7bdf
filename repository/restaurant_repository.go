package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-service/models"
)

// RestaurantRepository defines the interface for catalog data access.
type RestaurantRepository interface {
	FindAll(ctx context.Context, category, search string) ([]models.Restaurant, error)
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	Insert(ctx context.Context, restaurant *models.Restaurant) error
}

// MongoRestaurantRepository implements RestaurantRepository against the
// restaurants collection.
type MongoRestaurantRepository struct {
	collection *mongo.Collection
}

func NewMongoRestaurantRepository(db *mongo.Database) RestaurantRepository {
	return &MongoRestaurantRepository{collection: db.Collection("restaurants")}
}

// FindAll lists restaurants, optionally filtered by category and a
// case-insensitive name/cuisine search.
func (r *MongoRestaurantRepository) FindAll(ctx context.Context, category, search string) ([]models.Restaurant, error) {
	filter := bson.M{}
	if category != "" {
		filter["categories"] = category
	}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"cuisine": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var restaurants []models.Restaurant
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// FindByID fetches a single restaurant with its full menu. Returns
// mongo.ErrNoDocuments when the id is unknown.
func (r *MongoRestaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var restaurant models.Restaurant
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Insert adds a restaurant document; used by the seed tool.
func (r *MongoRestaurantRepository) Insert(ctx context.Context, restaurant *models.Restaurant) error {
	_, err := r.collection.InsertOne(ctx, restaurant)
	return err
}
