package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRole is assigned to every user created through registration.
const DefaultRole = "user"

// User is the persisted user record. Password holds the bcrypt hash,
// never the plaintext. ResetPasswordToken holds the SHA-256 hash of an
// outstanding reset token; it and ResetPasswordExpire are either both
// set or both absent.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Name                string             `bson:"name"`
	Email               string             `bson:"email"`
	Password            string             `bson:"password"`
	Role                string             `bson:"role"`
	ResetPasswordToken  string             `bson:"reset_password_token,omitempty"`
	ResetPasswordExpire time.Time          `bson:"reset_password_expire,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
}

// PublicUser is the subset of User safe to return to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public returns the client-facing view of the user, without the
// password hash or reset-token fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
