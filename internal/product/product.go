package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. JSON/BSON field names keep the wire contract
// the storefront already speaks (new_price, no_of_rators, reviewText).
// The numeric `id` is the business identifier shown to customers; `_id` is
// storage-internal and never leaves the API.
type Product struct {
	OID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          int                `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Images      []string           `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	CategoryFor []string           `bson:"categoryFor" json:"categoryFor"`
	NewPrice    float64            `bson:"new_price" json:"new_price"`
	OldPrice    float64            `bson:"old_price" json:"old_price"`
	Date        time.Time          `bson:"date" json:"date"`
	Available   bool               `bson:"available" json:"available"`
	Description Description        `bson:"description" json:"description"`
	Rating      float64            `bson:"rating" json:"rating"`
	Reviews     []Review           `bson:"reviewText" json:"reviewText"`
	RatingCount int                `bson:"no_of_rators" json:"no_of_rators"`
}

// Description splits the free-form product copy into the three pieces the
// storefront renders separately.
type Description struct {
	Formatted string   `bson:"formatted" json:"formatted"`
	Bullets   []string `bson:"bullets" json:"bullets"`
	Plain     string   `bson:"plain" json:"plain"`
}

// Review is a single customer review entry.
type Review struct {
	Text   string  `bson:"text" json:"text"`
	Rating float64 `bson:"rating" json:"rating"`
}

// Summary carries the display fields joined onto order line items at read
// time. Orders keep no snapshot, so these are always the current values.
type Summary struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	NewPrice float64  `json:"new_price"`
	OldPrice float64  `json:"old_price"`
	Images   []string `json:"image,omitempty"`
}

// Summary converts a full product into its line-item display form.
func (p Product) Summary() Summary {
	return Summary{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		NewPrice: p.NewPrice,
		OldPrice: p.OldPrice,
		Images:   p.Images,
	}
}

// DiscountPercent is the fraction knocked off the original price, used to
// rank featured products. Products without an original price never rank.
func (p Product) DiscountPercent() float64 {
	if p.OldPrice <= 0 || p.NewPrice >= p.OldPrice {
		return 0
	}
	return (p.OldPrice - p.NewPrice) / p.OldPrice
}
