package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	countersCollection = "counters"
	productSequence    = "products"
)

// MongoRepository stores products with a numeric _id drawn from a counters collection.
type MongoRepository struct {
	products *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		products: db.Collection(productsCollection),
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}
}

// EnsureIndexes adds the category index used by GetByCategory.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	return err
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.products.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *MongoRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productSequence},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next product id: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}
	p := models.NewProduct(id, req, r.now().UTC().Truncate(time.Millisecond))
	if _, err := r.products.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

func (r *MongoRepository) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	var p models.Product
	err := r.products.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updateDoc(req, r.now().UTC().Truncate(time.Millisecond))},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(category), Options: "i"}}
	products, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

// updateDoc turns the supplied fields into a $set document.
func updateDoc(req models.UpdateProductRequest, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.ImageURL != nil {
		set["imageUrl"] = *req.ImageURL
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	return set
}
