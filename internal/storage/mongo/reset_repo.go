package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"mailauth/internal/domain"
)

type resetDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"user_id"`
	ResetString string        `bson:"reset_string"`
	CreatedAt   time.Time     `bson:"created_at"`
	ExpiresAt   time.Time     `bson:"expires_at"`
}

func (d *resetDoc) toDomain() *domain.PasswordReset {
	return &domain.PasswordReset{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		ResetString: d.ResetString,
		CreatedAt:   d.CreatedAt,
		ExpiresAt:   d.ExpiresAt,
	}
}

type PasswordResetRepository struct {
	col *mongo.Collection
}

func NewPasswordResetRepository(db *mongo.Database) domain.PasswordResetRepository {
	return &PasswordResetRepository{col: db.Collection(resetsCollection)}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	userOID, err := bson.ObjectIDFromHex(reset.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", reset.UserID, err)
	}

	doc := resetDoc{
		UserID:      userOID,
		ResetString: reset.ResetString,
		CreatedAt:   reset.CreatedAt,
		ExpiresAt:   reset.ExpiresAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		// The unique user_id index turns the delete/insert race between two
		// concurrent requests into an insert failure for the loser.
		return fmt.Errorf("failed to insert password reset record: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		reset.ID = id.Hex()
	}

	return nil
}

func (r *PasswordResetRepository) GetByUser(ctx context.Context, userID string) (*domain.PasswordReset, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrResetNotFound
	}

	var doc resetDoc
	err = r.col.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResetNotFound
		}
		return nil, fmt.Errorf("failed to query password reset record: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *PasswordResetRepository) DeleteByUser(ctx context.Context, userID string) error {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		// Nothing stored under a malformed id; deleting is a no-op.
		return nil
	}

	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": oid}); err != nil {
		return fmt.Errorf("failed to delete password reset records: %w", err)
	}

	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset records: %w", err)
	}

	return res.DeletedCount, nil
}
