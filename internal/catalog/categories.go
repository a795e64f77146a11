package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sleepycare/backend/internal/models"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoCategoryRepository implements CategoryRepository using MongoDB
type MongoCategoryRepository struct {
	col *mongo.Collection
}

func NewMongoCategoryRepository(col *mongo.Collection) *MongoCategoryRepository {
	return &MongoCategoryRepository{col: col}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return c, nil
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoCategoryRepository) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var c models.Category
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	return err
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
