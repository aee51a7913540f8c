package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Asset is the metadata record for one uploaded file. The bytes themselves live
// in the object store under PublicID; PublicID and SecureURL are written together
// at creation time and are never updated afterwards.
type Asset struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:uuid;primaryKey"`
	PublicID    string                       `json:"publicId" gorm:"type:varchar(1024);not null;uniqueIndex"`
	SecureURL   string                       `json:"secureUrl" gorm:"type:varchar(1024);not null"`
	Title       string                       `json:"title" gorm:"type:varchar(200);not null"`
	Description string                       `json:"description" gorm:"type:varchar(1000)"`
	Tags        datatypes.JSONSlice[string]  `json:"tags" gorm:"type:jsonb"`
	Format      string                       `json:"format" gorm:"type:varchar(16);not null"`
	Width       int                          `json:"width"`
	Height      int                          `json:"height"`
	Size        int64                        `json:"size" gorm:"not null"`
	OwnerID     uuid.UUID                    `json:"uploadedBy" gorm:"type:uuid;not null;index:idx_owner_created"`
	IsPublic    bool                         `json:"isPublic" gorm:"not null;default:true;index"`
	Views       int64                        `json:"views" gorm:"not null;default:0"`
	Downloads   int64                        `json:"downloads" gorm:"not null;default:0"`
	CreatedAt   time.Time                    `json:"createdAt" gorm:"not null;autoCreateTime;index:idx_owner_created,sort:desc"`
	UpdatedAt   time.Time                    `json:"updatedAt" gorm:"autoUpdateTime"`
}

// VisibleTo reports whether the record may be read by the given user: the owner
// always, anyone else only when the record is public.
func (a *Asset) VisibleTo(userID uuid.UUID) bool {
	return a.IsPublic || a.OwnerID == userID
}

// IsImage reports whether the stored file is an image format.
func (a *Asset) IsImage() bool {
	switch a.Format {
	case "jpg", "jpeg", "png", "gif":
		return true
	}
	return false
}

// FormattedSize renders Size as a human-readable string, e.g. "2.00 MB".
func (a *Asset) FormattedSize() string {
	return FormatBytes(a.Size)
}

// AspectRatio returns width/height rounded to two decimals, or "" when
// dimensions are unknown.
func (a *Asset) AspectRatio() string {
	if a.Width == 0 || a.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(a.Width)/float64(a.Height))
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
