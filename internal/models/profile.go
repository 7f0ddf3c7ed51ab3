package models

import "gorm.io/gorm"

// Profile carries the academic identity of a user. Exactly one per user.
type Profile struct {
	gorm.Model

	UserID     uint   `gorm:"not null;uniqueIndex"`
	FirstName  string `gorm:"size:30"`
	LastName   string `gorm:"size:30"`
	Year       string `gorm:"size:10"`
	Department string `gorm:"size:100"`
	Division   string `gorm:"size:10"`
	Subject    string `gorm:"size:100"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
