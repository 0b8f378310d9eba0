package advertisement

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poopooshop/shop-backend/internal/seq"
)

const counterName = "advertisement"

type MongoRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		coll:     db.Collection("advertisements"),
		counters: db.Collection("counters"),
	}
}

func (r *MongoRepository) EnsureIndexes() error {
	_, err := r.coll.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "adid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create advertisement id index")
	}

	var last Advertisement
	err = r.coll.FindOne(context.TODO(), bson.M{}, options.FindOne().SetSort(bson.D{{Key: "adid", Value: -1}})).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return errors.Wrap(err, "find max advertisement id")
	}
	return seq.Ensure(r.counters, counterName, last.ID)
}

func (r *MongoRepository) Create(ad Advertisement) (Advertisement, error) {
	id, err := seq.Next(r.counters, counterName)
	if err != nil {
		return Advertisement{}, err
	}
	ad.ID = id
	ad.OID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(context.TODO(), ad); err != nil {
		return Advertisement{}, errors.Wrap(err, "insert advertisement")
	}
	return ad, nil
}

func (r *MongoRepository) List() ([]Advertisement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "adid", Value: -1}})
	cur, err := r.coll.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list advertisements")
	}
	defer cur.Close(context.TODO())

	ads := make([]Advertisement, 0)
	if err := cur.All(context.TODO(), &ads); err != nil {
		return nil, errors.Wrap(err, "decode advertisements")
	}
	return ads, nil
}
