package models

import (
	"time"

	"github.com/wahlware/wahlhost/internal/storage"
)

const (
	FileTypeLogo      = "logo"
	FileTypeBanner    = "banner"
	FileTypeCandidate = "candidate"
)

const (
	TransferIdle       = "idle"
	TransferQueued     = "queued"
	TransferInProgress = "in progress"
)

// File is one uploaded binary object. At rest exactly one of UfsKey/BlobPath
// is set, matching StoredIn; both may be cleared transiently mid-transfer.
type File struct {
	ID             string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string           `gorm:"type:text;not null"`
	FileType       string           `gorm:"type:text;not null"`
	MimeType       string           `gorm:"type:text;not null"`
	Size           int64            `gorm:"type:bigint;not null"`
	UfsKey         *string          `gorm:"type:text"`
	BlobPath       *string          `gorm:"type:text"`
	URL            string           `gorm:"type:text;not null"`
	StoredIn       storage.Provider `gorm:"type:text;not null;default:utfs"`
	TargetStorage  storage.Provider `gorm:"type:text;not null;default:blob"`
	TransferStatus string           `gorm:"type:text;not null;default:idle;index"`
	WahlID         string           `gorm:"type:uuid;not null;index"`
	QuestionID     string           `gorm:"type:uuid;not null;index"`
	AnswerID       string           `gorm:"type:uuid;not null;index"`
	Owner          string           `gorm:"type:text;not null"`
	CreatedAt      time.Time        `gorm:"default:timezone('utc'::text, now())"`
	UpdatedAt      time.Time        `gorm:"default:timezone('utc'::text, now())"`
}
