package database

import (
	"context"
	"time"

	"pos/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionRepository struct {
	coll *mongo.Collection
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, tx)
	return mapErr(err)
}

func (r *TransactionRepository) ListByTellerSince(ctx context.Context, tellerID primitive.ObjectID, since time.Time) ([]models.Transaction, error) {
	filter := bson.M{"tellerId": tellerID, "createdAt": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	txs := []models.Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// SalesByTeller sums sales per teller for transactions created at or
// after since. A zero since covers all time.
func (r *TransactionRepository) SalesByTeller(ctx context.Context, since time.Time) ([]models.TellerSales, error) {
	match := bson.M{}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$tellerId",
			"tellerName":       bson.M{"$first": "$tellerName"},
			"totalSales":       bson.M{"$sum": "$totalAmount"},
			"transactionCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSales", Value: -1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	rows := []models.TellerSales{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
