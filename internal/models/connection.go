package models

import "gorm.io/gorm"

// Connection is a directed edge between two users. A pending request is a
// single row with IsAccepted=false; an accepted relationship is two rows,
// one per direction, both with IsAccepted=true.
type Connection struct {
	gorm.Model

	FromUserID    uint `gorm:"not null;index"`
	ToUserID      uint `gorm:"not null;index"`
	IsAccepted    bool `gorm:"not null;default:false"`
	MeetScheduled bool `gorm:"not null;default:false"`

	// Relationships
	FromUser User      `gorm:"foreignKey:FromUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ToUser   User      `gorm:"foreignKey:ToUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Meetings []Meeting `gorm:"foreignKey:ConnectionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
