package model

import (
	"errors"
	"fmt"
	"strings"
)

// Condition describes the physical state of a listed book.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionOld     Condition = "old"
	ConditionDamaged Condition = "damaged"
)

// Conditions lists every valid condition, in the order the UI offers them.
var Conditions = []Condition{ConditionNew, ConditionGood, ConditionOld, ConditionDamaged}

// ParseCondition validates user input against the known conditions.
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Conditions {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCondition, s)
}

// Book is a marketplace listing. The server is authoritative for the ID and
// the stored image location; the client mirrors whatever it returns.
//
// The price travels as "Prize" on the wire. That is the backend's field name
// and both sides have to live with it.
type Book struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Condition   Condition `json:"condition"`
	Price       int64     `json:"Prize"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image,omitempty"`
}

// BookUpload carries the fields of an add or update submission. Image is the
// raw encoded bytes produced by imageutil; it may be left nil on update to
// keep the existing cover.
type BookUpload struct {
	Title       string
	Author      string
	Condition   Condition
	Price       int64
	Description string
	Image       []byte
	ImageName   string
}

// Validate enforces the form rules the view layer applies before dispatching
// to the catalog store. The store itself performs no validation.
func (u *BookUpload) Validate(imageRequired bool) error {
	switch {
	case strings.TrimSpace(u.Title) == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case strings.TrimSpace(u.Author) == "":
		return fmt.Errorf("%w: author", ErrMissingField)
	case u.Condition == "":
		return fmt.Errorf("%w: condition", ErrMissingField)
	case u.Price <= 0:
		return fmt.Errorf("%w: price", ErrMissingField)
	case strings.TrimSpace(u.Description) == "":
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if _, err := ParseCondition(string(u.Condition)); err != nil {
		return err
	}
	if imageRequired && len(u.Image) == 0 {
		return ErrNoImage
	}
	return nil
}

// Cover image limits, applied before upload.
const (
	MaxCoverSizeBytes = 10 * 1024 * 1024
	CoverMaxWidth     = 1200
	CoverMaxHeight    = 1600
	CoverJPEGQuality  = 85
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrNoImage          = errors.New("a cover image is required")
	ErrFileTooLarge     = errors.New("cover image exceeds size limit")
	ErrInvalidImageType = errors.New("unsupported image type")
)
