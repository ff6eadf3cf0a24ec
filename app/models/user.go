package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account: a buyer placing orders or a seller running a stall.
// The role is assigned at registration and never changes.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username"      json:"username"`
	Password  string             `bson:"password"      json:"-"` // bcrypt hash, never serialised
	Role      string             `bson:"role"          json:"role"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}

// Public returns the representation safe to embed in auth responses.
func (u User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID.Hex(),
		"username": u.Username,
		"role":     u.Role,
	}
}
