package models

import "time"

// Roles a user can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account allowed to sign in. Users are provisioned out of band, never via the API.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Email          string    `json:"email" gorm:"type:varchar(255)" bson:"email"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" bson:"username"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255)" bson:"hashed_password"`
	Role           string    `json:"role" gorm:"type:varchar(20)" bson:"role"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse strips credentials from the user.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
