package repositories

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/canteen/pkg/apperr"
)

// parseID converts a client-supplied identifier into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrInvalidInput
	}
	return oid, nil
}

// ValidID reports whether s has the shape of a store identifier. The pickup
// flow uses this to reject malformed scan payloads before touching the
// ledger.
func ValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
