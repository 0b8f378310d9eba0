package product

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poopooshop/shop-backend/internal/seq"
)

const counterName = "product"

type MongoRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		coll:     db.Collection("products"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the unique index on the business identifier and
// seeds the counter from the current maximum. Run once at startup.
func (r *MongoRepository) EnsureIndexes() error {
	_, err := r.coll.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create product id index")
	}

	var last Product
	err = r.coll.FindOne(context.TODO(), bson.M{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return errors.Wrap(err, "find max product id")
	}
	return seq.Ensure(r.counters, counterName, last.ID)
}

func substring(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func (r *MongoRepository) listFilter(f ListFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		re := substring(f.Search)
		filter["$or"] = []bson.M{
			{"name": re},
			{"description.plain": re},
			{"description.formatted": re},
			{"categoryFor": re},
		}
	}
	if f.Pet != "" {
		filter["categoryFor"] = substring(f.Pet)
	}
	return filter
}

func (r *MongoRepository) List(f ListFilter) ([]Product, int, error) {
	filter := r.listFilter(f)

	// total match count is a second, pagination-free query so clients can
	// build paging controls
	total, err := r.coll.CountDocuments(context.TODO(), filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer cur.Close(context.TODO())

	products := make([]Product, 0, limit)
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, 0, errors.Wrap(err, "decode products")
	}
	return products, int(total), nil
}

func (r *MongoRepository) GetByID(id int) (Product, error) {
	var p Product
	err := r.coll.FindOne(context.TODO(), bson.M{"id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Product{}, ErrNotFound
		}
		return Product{}, errors.Wrap(err, "get product")
	}
	return p, nil
}

func (r *MongoRepository) GetByOIDs(oids []primitive.ObjectID) ([]Product, error) {
	if len(oids) == 0 {
		return []Product{}, nil
	}
	cur, err := r.coll.Find(context.TODO(), bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, errors.Wrap(err, "list products by oid")
	}
	defer cur.Close(context.TODO())

	products := make([]Product, 0, len(oids))
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func (r *MongoRepository) Create(p Product) (Product, error) {
	id, err := seq.Next(r.counters, counterName)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	p.OID = primitive.NewObjectID()
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(context.TODO(), p); err != nil {
		return Product{}, errors.Wrap(err, "insert product")
	}
	return p, nil
}

func (r *MongoRepository) Update(id int, p Product) (Product, error) {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"image":       p.Images,
		"category":    p.Category,
		"categoryFor": p.CategoryFor,
		"new_price":   p.NewPrice,
		"old_price":   p.OldPrice,
		"available":   p.Available,
		"description": p.Description,
	}}
	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"id": id}, update)
	if err != nil {
		return Product{}, errors.Wrap(err, "update product")
	}
	if res.MatchedCount == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *MongoRepository) Delete(id int) error {
	res, err := r.coll.DeleteOne(context.TODO(), bson.M{"id": id})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SetAvailability(id int, available bool) error {
	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"id": id}, bson.M{"$set": bson.M{"available": available}})
	if err != nil {
		return errors.Wrap(err, "set availability")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) AppendReview(id int, rev Review, newRating float64) error {
	update := bson.M{
		"$push": bson.M{"reviewText": rev},
		"$set":  bson.M{"rating": newRating},
		"$inc":  bson.M{"no_of_rators": 1},
	}
	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"id": id}, update)
	if err != nil {
		return errors.Wrap(err, "append review")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) BumpRating(id int, newRating float64) error {
	update := bson.M{
		"$set": bson.M{"rating": newRating},
		"$inc": bson.M{"no_of_rators": 1},
	}
	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"id": id}, update)
	if err != nil {
		return errors.Wrap(err, "bump rating")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListByCategory(category string, limit int) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.coll.Find(context.TODO(), bson.M{"category": category}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list by category")
	}
	defer cur.Close(context.TODO())

	products := make([]Product, 0, limit)
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func (r *MongoRepository) ListNewest(limit int) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.coll.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list newest")
	}
	defer cur.Close(context.TODO())

	products := make([]Product, 0, limit)
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func (r *MongoRepository) ListTopDiscount(limit int) ([]Product, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"old_price": bson.M{"$gt": 0},
			"$expr":     bson.M{"$lt": bson.A{"$new_price", "$old_price"}},
		}},
		{"$addFields": bson.M{"discount": bson.M{
			"$divide": bson.A{bson.M{"$subtract": bson.A{"$old_price", "$new_price"}}, "$old_price"},
		}}},
		{"$sort": bson.M{"discount": -1}},
		{"$limit": limit},
	}
	cur, err := r.coll.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "list top discount")
	}
	defer cur.Close(context.TODO())

	products := make([]Product, 0, limit)
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}
