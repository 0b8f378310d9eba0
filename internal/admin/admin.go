package admin

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a backoffice operator account. Password holds a bcrypt hash,
// never plaintext.
type Admin struct {
	OID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Username string             `bson:"username" json:"username"`
}
