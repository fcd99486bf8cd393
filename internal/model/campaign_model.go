package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Campaign struct {
	Id                     uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                   string         `gorm:"type:text;not null;uniqueIndex"`
	TrendspottingSummaries datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt              time.Time      `gorm:"autoCreateTime"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime"`
	DeletedAt              gorm.DeletedAt `gorm:"index"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
