package resets

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sleepycare/backend/internal/models"
)

// Repository persists password-reset tokens. Tokens are never deleted;
// used ones remain as an audit trail.
type Repository interface {
	Create(ctx context.Context, t *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	// MarkUsed flips used=false to true for the given token string and
	// reports whether this call won. A compare-and-swap on the used flag:
	// of two concurrent confirmations exactly one receives true.
	MarkUsed(ctx context.Context, token string) (bool, error)
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, t *models.PasswordResetToken) error {
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *MongoRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MongoRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"token": token, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
