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

type ProductRepository struct {
	coll *mongo.Collection
}

var productOrder = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, productOrder)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

// ListAvailable returns the products a teller can sell, in the order
// they were created.
func (r *ProductRepository) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{"status": models.StatusAvailable})
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	return product, mapErr(err)
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, product)
	return mapErr(err)
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Product, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&product)
	return product, mapErr(err)
}
