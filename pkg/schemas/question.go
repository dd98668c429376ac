package schemas

import "time"

type OptionIn struct {
	Title       string `json:"title" validate:"required,min=1,max=256"`
	Description string `json:"description" validate:"max=4096"`
	Correct     bool   `json:"correct"`
	Colour      string `json:"colour" validate:"max=32"`
}

// OptionEdit replaces fields in place on the option with the matching id.
type OptionEdit struct {
	ID          string  `json:"id" validate:"required,uuid4"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
	Correct     *bool   `json:"correct"`
	Colour      *string `json:"colour" validate:"omitempty,max=32"`
}

// QuestionIn is discriminated on Type: info takes no options, true_false
// takes exactly two, multiple_choice takes at least one.
type QuestionIn struct {
	WahlID      string     `json:"wahlId" validate:"required,uuid4"`
	Type        string     `json:"type" validate:"required,oneof=info true_false multiple_choice"`
	Title       string     `json:"title" validate:"required,min=1,max=256"`
	Description string     `json:"description" validate:"max=4096"`
	Options     []OptionIn `json:"options" validate:"dive"`
}

// QuestionUpdate edits an existing question. For multiple_choice the option
// diff is processed in delete, edit, add order.
type QuestionUpdate struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=256"`
	Description *string      `json:"description" validate:"omitempty,max=4096"`
	Deleted     []string     `json:"deleted" validate:"dive,uuid4"`
	Edited      []OptionEdit `json:"edited" validate:"dive"`
	Added       []OptionIn   `json:"added" validate:"dive"`
}

type QuestionOut struct {
	ID        string      `json:"id"`
	WahlID    string      `json:"wahlId"`
	Type      string      `json:"type"`
	Detail    interface{} `json:"detail"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
