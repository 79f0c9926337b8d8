package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenBlacklist stores logged-out tokens until they expire.
type TokenBlacklist struct {
	coll *mongo.Collection
}

func (b *TokenBlacklist) ensureIndexes(ctx context.Context) error {
	_, err := b.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (b *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := b.coll.InsertOne(ctx, bson.M{"token": token, "expiresAt": expiresAt})
	return err
}

func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	err := b.coll.FindOne(ctx, bson.M{"token": token}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
