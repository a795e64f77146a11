package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sleepycare/backend/internal/models"
)

// ProductRepository defines persistence operations for catalog products.
// Stock changes go through DecrementStock/IncrementStock so concurrent
// orders are serialized by the storage layer, not by the process.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock atomically subtracts qty when at least qty is in
	// stock, reporting whether it did.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	// IncrementStock returns stock taken by a failed order.
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// IsDuplicate reports whether err is a uniqueness violation (product or
// category name already taken).
func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(col *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{col: col}
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return p, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProductRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"category_id": categoryID})
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p *models.Product) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": qty}})
	return err
}
