package order

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/poopooshop/shop-backend/internal/product"
)

// Order is a placed customer order. Line items persist the resolved
// storage-internal product reference plus the requested quantity; no
// name/price snapshot is kept, product display fields are joined in at
// read time.
type Order struct {
	OID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          int                `bson:"id" json:"id"`
	Email       string             `bson:"email" json:"email"`
	WhatsApp    string             `bson:"whatsApp" json:"whatsApp"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Address     Address            `bson:"address" json:"address"`
	Items       []LineItem         `bson:"products" json:"products"`
	// Total is the client-computed figure; it is persisted as received and
	// not recomputed against unit prices.
	Total    float64   `bson:"total" json:"total"`
	IsFinish bool      `bson:"isFinish" json:"isFinish"`
	Date     time.Time `bson:"date" json:"date"`
	Time     string    `bson:"time" json:"time"`
}

// Address is the shipping address sub-record. Only city, district,
// province and postal code are mandatory.
type Address struct {
	HouseNumber  string `bson:"houseNumber" json:"houseNumber"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2 string `bson:"addressLine2" json:"addressLine2"`
	City         string `bson:"city" json:"city"`
	District     string `bson:"district" json:"district"`
	Province     string `bson:"province" json:"province"`
	PostalCode   string `bson:"postalCode" json:"postalCode"`
}

// LineItem pairs a product reference with a requested quantity. Product is
// populated by the read-time join and never stored.
type LineItem struct {
	ProductRef primitive.ObjectID `bson:"product_ref" json:"-"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Product    *product.Summary   `bson:"-" json:"product,omitempty"`
}
