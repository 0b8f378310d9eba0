package advertisement

import "go.mongodb.org/mongo-driver/bson/primitive"

// Advertisement is a standalone promotional image with a category tag. It
// has no relationship to products or orders.
type Advertisement struct {
	OID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID       int                `bson:"adid" json:"adid"`
	Image    string             `bson:"ad_image" json:"ad_image"`
	Category string             `bson:"ad_category" json:"ad_category"`
}
