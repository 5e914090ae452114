package models

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription tiers. Free is the registration default; paid tiers are
// granted only by a verified payment.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// User represents a platform account. The password hash never leaves
// the store layer in a JSON response.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Role         string    `json:"role" bson:"role"`
	Subscription string    `json:"subscription" bson:"subscription"`
	Favorites    []string  `json:"favorites" bson:"favorites"`
	Banned       bool      `json:"banned" bson:"banned"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents registration request payload
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// FavoriteRequest carries the movie id for toggle and check calls.
type FavoriteRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}

// FavoriteResponse reports membership after a toggle or check.
type FavoriteResponse struct {
	Success    bool `json:"success"`
	IsFavorite bool `json:"isFavorite"`
}
