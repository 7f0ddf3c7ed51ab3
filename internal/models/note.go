package models

import "gorm.io/gorm"

// Note is a shared document. Visible to its owner and to every user holding
// an accepted connection with the owner, in either direction.
type Note struct {
	gorm.Model

	UploadedByID uint   `gorm:"not null;index"`
	Title        string `gorm:"size:255;not null"`
	Description  string
	FileName     string `gorm:"size:255;not null"` // original client filename
	FilePath     string `gorm:"size:512;not null"` // path relative to the media root

	// Relationships
	UploadedBy User `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
