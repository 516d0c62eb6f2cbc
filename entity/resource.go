package entity

import (
	"time"

	"github.com/google/uuid"
)

// Resource is one catalog entry describing an educational file.
type Resource struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Subject     string    `json:"subject" gorm:"type:varchar(100);index"`
	Level       string    `json:"level" gorm:"type:varchar(50);index"`
	Category    string    `json:"category" gorm:"type:varchar(50);index"`
	FileURL     string    `json:"file_url" gorm:"type:varchar(1024)"`
	FileType    string    `json:"file_type" gorm:"type:varchar(32)"`
	// StorageKey is the object key inside the library bucket. FileURL is
	// derived from it; the key is kept so blob cleanup can address the object
	// without parsing URLs.
	StorageKey    string    `json:"storage_key,omitempty" gorm:"type:varchar(1100)"`
	DownloadCount int64     `json:"download_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Resource) TableName() string {
	return "resources"
}
