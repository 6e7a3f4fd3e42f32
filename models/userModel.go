package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Name      string     `json:"name"`
	Email     string     `json:"email" gorm:"size:191;uniqueIndex"`
	Phone     string     `json:"phone" gorm:"size:32;uniqueIndex"`
	Password  string     `json:"-"`
	Role      string     `json:"role" gorm:"size:16;default:customer;index"`
	Address   string     `json:"address,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Instagram string     `json:"instagram,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type SignupData struct {
	Name      string   `json:"name" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Phone     string   `json:"phone" binding:"required"`
	Password  string   `json:"password" binding:"required,min=6"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Instagram string   `json:"instagram"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
