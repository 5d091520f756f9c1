package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type DraftStatus string

const (
	DraftPending     DraftStatus = "pending"
	DraftNeedsReview DraftStatus = "needs_review"
	DraftApproved    DraftStatus = "approved"
	DraftRejected    DraftStatus = "rejected"
)

// SpecValueKind is the closed set of scalar kinds a specification value
// may take. Anything else from a spreadsheet cell arrives as a string.
type SpecValueKind int

const (
	SpecString SpecValueKind = iota
	SpecNumber
	SpecBool
)

// SpecValue is one scalar specification value. It marshals as the bare
// JSON scalar, not as a tagged envelope.
type SpecValue struct {
	Kind SpecValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) SpecValue  { return SpecValue{Kind: SpecString, Str: s} }
func NumberValue(n float64) SpecValue { return SpecValue{Kind: SpecNumber, Num: n} }
func BoolValue(b bool) SpecValue      { return SpecValue{Kind: SpecBool, Bool: b} }

func (v SpecValue) String() string {
	switch v.Kind {
	case SpecNumber:
		return fmt.Sprintf("%g", v.Num)
	case SpecBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return v.Str
	}
}

func (v SpecValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SpecNumber:
		return json.Marshal(v.Num)
	case SpecBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *SpecValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = NumberValue(num)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("spec value must be a string, number or bool: %w", err)
	}
	*v = StringValue(s)
	return nil
}

type SpecEntry struct {
	Key   string
	Value SpecValue
}

// SpecBag is an insertion-ordered mapping of specification keys to scalar
// values. It marshals as a plain JSON object whose member order follows
// insertion order, so a re-exported sheet keeps its original column order.
type SpecBag []SpecEntry

// Set inserts or replaces a key, keeping the position of an existing key.
func (b *SpecBag) Set(key string, value SpecValue) {
	for i := range *b {
		if (*b)[i].Key == key {
			(*b)[i].Value = value
			return
		}
	}
	*b = append(*b, SpecEntry{Key: key, Value: value})
}

func (b SpecBag) Get(key string) (SpecValue, bool) {
	for _, e := range b {
		if e.Key == key {
			return e.Value, true
		}
	}
	return SpecValue{}, false
}

func (b SpecBag) Len() int { return len(b) }

func (b SpecBag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *SpecBag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("spec bag must be a JSON object")
	}
	out := SpecBag{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("spec bag key must be a string")
		}
		var val SpecValue
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out = append(out, SpecEntry{Key: key, Value: val})
	}
	*b = out
	return nil
}

// Value implements driver.Valuer so the bag persists as jsonb.
func (b SpecBag) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (b *SpecBag) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("cannot scan %T into SpecBag", src)
	}
}

// ProductDraft is the output unit of the spreadsheet importer: a candidate
// catalog product awaiting operator review. First-class fields are typed
// pointers so "absent" stays distinguishable from zero; everything the
// resolved mapping could not place lands in the Specs bag.
type ProductDraft struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Name          *string     `json:"name" gorm:"size:200"`
	NameKo        *string     `json:"name_ko" gorm:"size:200" validate:"omitempty,min=1,max=200"`
	Brand         *string     `json:"brand" gorm:"size:100"`
	Description   *string     `json:"description" gorm:"type:text"`
	MonthlyPrice  *float64    `json:"monthly_price" validate:"omitempty,gt=0"`
	OriginalPrice *float64    `json:"original_price" validate:"omitempty,gt=0"`
	CategoryID    *CategoryID `json:"category_id" gorm:"size:40" validate:"omitempty,category_id"`
	Rating        *float64    `json:"rating" validate:"omitempty,gt=0,lte=5"`

	Specs SpecBag `json:"specs" gorm:"type:jsonb"`

	// Provenance: where in the source spreadsheet this draft came from.
	SourceFile string   `json:"source_file" gorm:"not null;size:255;index"`
	SheetName  string   `json:"sheet_name" gorm:"size:100"`
	RowIndex   int      `json:"row_index" gorm:"not null" validate:"min=1"`
	RawRow     []string `json:"raw_row" gorm:"serializer:json"`

	Status DraftStatus `json:"status" gorm:"default:pending;index" validate:"omitempty,draft_status"`

	// FieldErrors records per-cell coercion problems that did not sink the
	// row (the offending field is simply left unset).
	FieldErrors []string `json:"field_errors,omitempty" gorm:"serializer:json"`

	ReviewedBy   *string `json:"reviewed_by" gorm:"size:255"`
	ReviewReason *string `json:"review_reason" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductDraft) TableName() string {
	return "product_drafts"
}

// Uncategorized reports whether the draft still needs a category decision.
func (d *ProductDraft) Uncategorized() bool {
	return d.CategoryID == nil || *d.CategoryID == CategoryUncategorized
}
