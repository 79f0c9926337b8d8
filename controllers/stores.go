package controllers

import (
	"context"
	"time"

	"pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStore is satisfied by *database.ProductRepository.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListAvailable(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Product, error)
}

// TransactionStore is satisfied by *database.TransactionRepository.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	ListByTellerSince(ctx context.Context, tellerID primitive.ObjectID, since time.Time) ([]models.Transaction, error)
	SalesByTeller(ctx context.Context, since time.Time) ([]models.TellerSales, error)
}

// UserStore is satisfied by *database.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.User, error)
}

// TokenStore is satisfied by *database.TokenBlacklist.
type TokenStore interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}
