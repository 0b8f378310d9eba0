package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poopooshop/shop-backend/internal/seq"
)

const counterName = "order"

type MongoRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		coll:     db.Collection("orders"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the unique index on the business identifier — the
// storage layer previously enforced nothing here, which is how duplicate
// order ids could appear — and seeds the counter from the current maximum.
func (r *MongoRepository) EnsureIndexes() error {
	_, err := r.coll.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create order id index")
	}

	var last Order
	err = r.coll.FindOne(context.TODO(), bson.M{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return errors.Wrap(err, "find max order id")
	}
	return seq.Ensure(r.counters, counterName, last.ID)
}

func (r *MongoRepository) Create(ord Order) (Order, error) {
	id, err := seq.Next(r.counters, counterName)
	if err != nil {
		return Order{}, err
	}
	ord.ID = id
	ord.OID = primitive.NewObjectID()
	if ord.Date.IsZero() {
		ord.Date = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(context.TODO(), ord); err != nil {
		return Order{}, errors.Wrap(err, "insert order")
	}
	return ord, nil
}

func (r *MongoRepository) GetByID(id int) (Order, error) {
	var ord Order
	err := r.coll.FindOne(context.TODO(), bson.M{"id": id}).Decode(&ord)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Order{}, ErrNotFound
		}
		return Order{}, errors.Wrap(err, "get order")
	}
	return ord, nil
}

func (r *MongoRepository) List(finished *bool) ([]Order, error) {
	filter := bson.M{}
	if finished != nil {
		filter["isFinish"] = *finished
	}
	return r.find(filter)
}

func (r *MongoRepository) ListByProductRef(oid primitive.ObjectID) ([]Order, error) {
	return r.find(bson.M{"products.product_ref": oid})
}

func (r *MongoRepository) find(filter bson.M) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: -1}})
	cur, err := r.coll.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer cur.Close(context.TODO())

	orders := make([]Order, 0)
	if err := cur.All(context.TODO(), &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func (r *MongoRepository) SetFinished(id int, finished bool) error {
	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"id": id}, bson.M{"$set": bson.M{"isFinish": finished}})
	if err != nil {
		return errors.Wrap(err, "set order status")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteByProductRef(oid primitive.ObjectID) (int, error) {
	res, err := r.coll.DeleteMany(context.TODO(), bson.M{"products.product_ref": oid})
	if err != nil {
		return 0, errors.Wrap(err, "delete orders by product")
	}
	return int(res.DeletedCount), nil
}
