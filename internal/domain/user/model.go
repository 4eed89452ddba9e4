package user

import "time"

type User struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"not null;default:''"`
	Username   string  `gorm:"not null;uniqueIndex"`
	Email      string  `gorm:"not null;uniqueIndex"`
	AvatarPath *string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Profile is the identity carried by an authenticated request.
type Profile struct {
	ID       uint
	Email    string
	Username string
	Name     string
}
