package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File is a file-or-folder node. Folders have IsFolder set and no
// stored payload; ParentID self-references the containing folder.
type File struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner        User           `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	ParentID     *uuid.UUID     `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	IsFolder     bool           `json:"is_folder" gorm:"default:false"`
	Name         string         `json:"name" gorm:"not null;size:255"`
	OriginalName string         `json:"original_name,omitempty" gorm:"size:255"`
	StoredName   string         `json:"-" gorm:"size:255"`
	MimeType     string         `json:"mime_type,omitempty" gorm:"size:100"`
	Size         int64          `json:"size" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

type CreateFolderRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}
