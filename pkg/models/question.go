package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionInfo           = "info"
	QuestionTrueFalse      = "true_false"
	QuestionMultipleChoice = "multiple_choice"
)

// Question is the discriminated root row. Exactly one detail row exists per
// question, matching Type.
type Question struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WahlID    string    `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:text;not null"`
	DetailID  string    `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
	UpdatedAt time.Time `gorm:"default:timezone('utc'::text, now())"`
}

// Option is one answer variant inside a true/false or multiple-choice
// question. Image points at a File row when an image is bound.
type Option struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Correct     bool    `json:"correct"`
	Colour      string  `json:"colour"`
	Image       *string `json:"image"`
}

type InfoDetail struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionID  string  `gorm:"type:uuid;not null;index"`
	Title       string  `gorm:"type:text;not null"`
	Description string  `gorm:"type:text"`
	ImageID     *string `gorm:"type:uuid"`
}

type TrueFalseDetail struct {
	ID          string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionID  string                      `gorm:"type:uuid;not null;index"`
	Title       string                      `gorm:"type:text;not null"`
	Description string                      `gorm:"type:text"`
	OptionOne   datatypes.JSONType[Option]  `gorm:"type:jsonb"`
	OptionTwo   datatypes.JSONType[Option]  `gorm:"type:jsonb"`
}

type MultipleChoiceDetail struct {
	ID          string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuestionID  string                      `gorm:"type:uuid;not null;index"`
	Title       string                      `gorm:"type:text;not null"`
	Description string                      `gorm:"type:text"`
	Content     datatypes.JSONSlice[Option] `gorm:"type:jsonb"`
}
