package models

import "time"

const (
	WahlStatusDraft     = "draft"
	WahlStatusQueued    = "queued"
	WahlStatusActive    = "active"
	WahlStatusInactive  = "inactive"
	WahlStatusCompleted = "completed"
	WahlStatusResults   = "results"
	WahlStatusArchived  = "archived"
)

type Wahl struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Shortname    string     `gorm:"type:text;not null;uniqueIndex"`
	Status       string     `gorm:"type:text;not null;default:draft"`
	Title        string     `gorm:"type:text;not null"`
	Description  string     `gorm:"type:text"`
	AlertType    *string    `gorm:"type:text"`
	AlertMessage *string    `gorm:"type:text"`
	Owner        string     `gorm:"type:text;not null;index"`
	StartDate    *time.Time `gorm:"type:timestamptz"`
	EndDate      *time.Time `gorm:"type:timestamptz"`
	ArchiveDate  *time.Time `gorm:"type:timestamptz"`
	IsScheduled  bool       `gorm:"default:false"`
	IsActive     bool       `gorm:"default:false"`
	IsCompleted  bool       `gorm:"default:false"`
	HasResults   bool       `gorm:"default:false"`
	IsArchived   bool       `gorm:"default:false"`
	CreatedAt    time.Time  `gorm:"default:timezone('utc'::text, now())"`
	UpdatedAt    time.Time  `gorm:"default:timezone('utc'::text, now())"`
}

func (Wahl) TableName() string {
	return "wahlhost.wahlen"
}
