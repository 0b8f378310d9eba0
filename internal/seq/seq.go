// Package seq implements the atomic counter documents that hand out the
// sequential business identifiers for products, orders and advertisements.
// A single findOneAndUpdate $inc replaces the old scan-for-max pattern, so
// two concurrent creations can never draw the same identifier.
package seq

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Next increments and returns the counter for name, creating it at 1 when
// absent.
func Next(counters *mongo.Collection, name string) (int, error) {
	res := counters.FindOneAndUpdate(
		context.TODO(),
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc struct {
		Seq int `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, errors.Wrapf(err, "next %s id", name)
	}
	return doc.Seq, nil
}

// Ensure raises the counter for name to at least floor. Called once at
// startup so deployments with pre-counter data continue from their current
// maximum instead of reissuing identifiers.
func Ensure(counters *mongo.Collection, name string, floor int) error {
	_, err := counters.UpdateOne(
		context.TODO(),
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	return errors.Wrapf(err, "ensure %s counter", name)
}
