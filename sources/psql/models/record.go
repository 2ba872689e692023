package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is an analyzed document persisted for later retrieval. The
// (source, external_id) pair identifies the upstream document, so
// re-analysis upserts instead of duplicating.
type Record struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID     int       `json:"user_id" gorm:"not null"`
	User       User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Source     string    `json:"source" gorm:"type:varchar(255);not null;index:idx_records_source_external,unique"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(255);not null;index:idx_records_source_external,unique"`
	Title      string    `json:"title" gorm:"type:varchar(512);default:''"`
	Summary    string    `json:"summary" gorm:"type:text;default:''"`
	Pages      int       `json:"pages" gorm:"default:0"`
	ArchiveKey string    `json:"archive_key" gorm:"type:varchar(512);default:''"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) (err error) {
	return tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}
