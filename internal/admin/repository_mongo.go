package admin

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("admins")}
}

func (r *MongoRepository) GetByEmail(email string) (Admin, error) {
	var a Admin
	err := r.coll.FindOne(context.TODO(), bson.M{"email": email}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Admin{}, ErrNotFound
		}
		return Admin{}, errors.Wrap(err, "get admin")
	}
	return a, nil
}

func (r *MongoRepository) Upsert(a Admin) error {
	update := bson.M{"$set": bson.M{
		"password": a.Password,
		"username": a.Username,
	}}
	_, err := r.coll.UpdateOne(context.TODO(), bson.M{"email": a.Email}, update, options.Update().SetUpsert(true))
	return errors.Wrap(err, "upsert admin")
}
