package carts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sleepycare/backend/internal/models"
)

// Repository defines persistence operations for cart items.
type Repository interface {
	// AddItem upserts the (user, product) line, incrementing quantity if
	// it already exists, and returns the resulting item.
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.CartItem, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, id primitive.ObjectID, qty int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.CartItem, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}
	update := bson.M{"$inc": bson.M{"quantity": qty}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var item models.CartItem
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.CartItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) UpdateQuantity(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"quantity": qty}})
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
