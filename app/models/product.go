package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog listing owned by a seller. Deletion is permanent;
// there is no soft-delete.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"      json:"id"`
	Name        string             `bson:"name"               json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price"              json:"price"`
	ImageURL    string             `bson:"imageUrl"           json:"imageUrl"`
	SellerID    string             `bson:"seller,omitempty"   json:"seller,omitempty"`
	Available   bool               `bson:"available"          json:"available"`
	CreatedAt   time.Time          `bson:"createdAt"          json:"createdAt"`
}
