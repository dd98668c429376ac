package schemas

import (
	"time"

	"github.com/wahlware/wahlhost/internal/storage"
)

// FileIn is what the client reports after completing an upload to the upload
// host. The key is the fixed-length identifier the host assigned.
type FileIn struct {
	Name       string `json:"name" validate:"required,min=1,max=256"`
	FileType   string `json:"fileType" validate:"required,oneof=logo banner candidate"`
	MimeType   string `json:"mimeType" validate:"required,min=3,max=128"`
	Size       int64  `json:"size" validate:"required,gt=0"`
	UfsKey     string `json:"ufsKey" validate:"required,len=48"`
	URL        string `json:"url" validate:"required,url,max=2048"`
	QuestionID string `json:"questionId" validate:"required,uuid4"`
	AnswerID   string `json:"answerId" validate:"required,uuid4"`
}

type FileOut struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	FileType       string           `json:"fileType"`
	MimeType       string           `json:"mimeType"`
	Size           int64            `json:"size"`
	UfsKey         *string          `json:"ufsKey"`
	BlobPath       *string          `json:"blobPath"`
	URL            string           `json:"url"`
	StoredIn       storage.Provider `json:"storedIn"`
	TargetStorage  storage.Provider `json:"targetStorage"`
	TransferStatus string           `json:"transferStatus"`
	WahlID         string           `json:"wahlId"`
	QuestionID     string           `json:"questionId"`
	AnswerID       string           `json:"answerId"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// FileCreateOut carries the created file plus the detail row its id was
// bound into.
type FileCreateOut struct {
	File   *FileOut    `json:"file"`
	Detail interface{} `json:"detail"`
}

// TransferReport summarises one reconciliation sweep.
type TransferReport struct {
	Queued   int `json:"queued"`
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
}

type Message struct {
	Message string `json:"message"`
}
