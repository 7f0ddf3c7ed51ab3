package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relationships
	Profile          *Profile     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SentRequests     []Connection `gorm:"foreignKey:FromUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ReceivedRequests []Connection `gorm:"foreignKey:ToUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes            []Note       `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks            []Task       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
