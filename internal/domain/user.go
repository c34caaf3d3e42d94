package domain

import (
	"time"
)

const (
	RoleAdmin    uint = 1
	RoleCustomer uint = 2
)

type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:40;uniqueIndex"`
}

type User struct {
	ID                 uint   `gorm:"primaryKey"`
	Email              string `gorm:"size:140;uniqueIndex;not null"`
	PasswordHash       string `gorm:"size:100;not null"`
	FullName           string `gorm:"size:140"`
	RoleID             uint   `gorm:"not null;default:2;index"`
	PhoneNumber        *string `gorm:"size:30"`
	Address            *string `gorm:"size:255"`
	Gender             *string `gorm:"size:20"`
	DateOfBirth        *time.Time
	AvatarURL          *string `gorm:"size:255"`
	ShoppingPreference *string `gorm:"size:40"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) IsAdmin() bool { return u.RoleID == RoleAdmin }
