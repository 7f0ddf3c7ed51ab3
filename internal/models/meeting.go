package models

import (
	"time"

	"gorm.io/gorm"
)

type Meeting struct {
	gorm.Model

	ConnectionID  uint      `gorm:"not null;index"`
	ScheduledTime time.Time `gorm:"not null"`
	Description   string

	// Relationships
	Connection Connection `gorm:"foreignKey:ConnectionID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
