package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string
type AuthType string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleDriver UserRole = "driver"
	UserRoleGuest  UserRole = "guest"

	AuthTypeLocal  AuthType = "local"
	AuthTypeGoogle AuthType = "google"
)

type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email" validate:"required,email"`
	FirstName  string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName   string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Password   string             `json:"-" bson:"password"`
	Role       UserRole           `json:"role" bson:"role" validate:"required"`
	AuthType   AuthType           `json:"auth_type" bson:"auth_type"`
	IsVerified bool               `json:"is_verified" bson:"is_verified"`
	IsActive   bool               `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsDriver() bool {
	return u.Role == UserRoleDriver
}

func (u *User) IsGuest() bool {
	return u.Role == UserRoleGuest
}
