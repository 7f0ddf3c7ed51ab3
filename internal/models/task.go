package models

import "gorm.io/gorm"

// Task is a private to-do item. Never visible to anyone but its owner.
type Task struct {
	gorm.Model

	UserID uint   `gorm:"not null;index"`
	Title  string `gorm:"size:255;not null"`
	IsDone bool   `gorm:"not null;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
