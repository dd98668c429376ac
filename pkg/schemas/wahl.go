package schemas

import (
	"encoding/json"
	"time"
)

type WahlIn struct {
	Shortname   string `json:"shortname" validate:"required,min=3,max=63,hostname_rfc1123"`
	Title       string `json:"title" validate:"required,min=1,max=256"`
	Description string `json:"description" validate:"max=4096"`
}

// WahlUpdate mutates election metadata and scheduling. Nil fields are left
// untouched; status flags are re-derived after the write.
type WahlUpdate struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=256"`
	Description  *string    `json:"description" validate:"omitempty,max=4096"`
	AlertType    *string    `json:"alertType" validate:"omitempty,max=32"`
	AlertMessage *string    `json:"alertMessage" validate:"omitempty,max=1024"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsScheduled  *bool      `json:"isScheduled"`
	HasResults   *bool      `json:"hasResults"`
	IsArchived   *bool      `json:"isArchived"`
}

type WahlOut struct {
	ID           string     `json:"id"`
	Shortname    string     `json:"shortname"`
	Status       string     `json:"status"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AlertType    *string    `json:"alertType"`
	AlertMessage *string    `json:"alertMessage"`
	Owner        string     `json:"owner"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	ArchiveDate  *time.Time `json:"archiveDate"`
	IsScheduled  bool       `json:"isScheduled"`
	IsActive     bool       `json:"isActive"`
	IsCompleted  bool       `json:"isCompleted"`
	HasResults   bool       `json:"hasResults"`
	IsArchived   bool       `json:"isArchived"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type WahlStatusOut struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	IsScheduled bool       `json:"isScheduled"`
	IsActive    bool       `json:"isActive"`
	IsCompleted bool       `json:"isCompleted"`
	HasResults  bool       `json:"hasResults"`
	IsArchived  bool       `json:"isArchived"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	ArchiveDate *time.Time `json:"archiveDate"`
}

type VoterIn struct {
	Email string `json:"email" validate:"required,email"`
}

type VoterOut struct {
	ID        string    `json:"id"`
	WahlID    string    `json:"wahlId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionIn opens a voting session for a registered voter. The public key is
// opaque text the clients use among themselves.
type SessionIn struct {
	VoterID   string `json:"voterId" validate:"required,uuid4"`
	PublicKey string `json:"publicKey" validate:"required,max=8192"`
}

type SessionOut struct {
	ID        string    `json:"id"`
	WahlID    string    `json:"wahlId"`
	VoterID   string    `json:"voterId"`
	CreatedAt time.Time `json:"createdAt"`
}

// StimmeIn carries an opaque ballot payload; the backend checks presence
// only, never the crypto.
type StimmeIn struct {
	QuestionID string          `json:"questionId" validate:"required,uuid4"`
	SessionID  string          `json:"sessionId" validate:"required,uuid4"`
	Ballot     json.RawMessage `json:"ballot" validate:"required"`
	Signature  string          `json:"signature" validate:"required"`
}
