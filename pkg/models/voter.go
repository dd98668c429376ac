package models

import (
	"time"

	"gorm.io/datatypes"
)

type Voter struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WahlID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_voter_wahl_email"`
	Email     string    `gorm:"type:text;not null;index;uniqueIndex:idx_voter_wahl_email"`
	CreatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
	UpdatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
}

type Session struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WahlID    string    `gorm:"type:uuid;not null;index"`
	VoterID   string    `gorm:"type:uuid;not null"`
	PublicKey string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
	UpdatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
}

// Stimme is one cast vote. Ballot and Signature are opaque to the backend.
type Stimme struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WahlID     string         `gorm:"type:uuid;not null;index"`
	QuestionID string         `gorm:"type:uuid;not null;index"`
	SessionID  string         `gorm:"type:uuid;not null"`
	Ballot     datatypes.JSON `gorm:"type:jsonb;not null"`
	Signature  string         `gorm:"type:text;not null"`
	CreatedAt  time.Time      `gorm:"default:timezone('utc'::text, now())"`
}

func (Stimme) TableName() string {
	return "wahlhost.stimmen"
}
