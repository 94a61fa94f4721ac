package models

import "time"

type User struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null;default:''"`
	Role         Role      `gorm:"not null;default:user"`
	MemberID     *uint     `gorm:"index"`
	CreatedAt    time.Time `gorm:"not null"`
}
