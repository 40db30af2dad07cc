package template

import (
	"time"

	"github.com/google/uuid"
)

type (
	// TitleField is a structured metadata input on a template's cover page.
	// Identity is the ID; label and type are mutable.
	TitleField struct {
		ID    string       `json:"id"`
		Label string       `json:"label"`
		Type  ResponseType `json:"type"`
	}

	// Question is a single inspection prompt with an expected-response type.
	Question struct {
		ID   string       `json:"id"`
		Text string       `json:"text"`
		Type ResponseType `json:"type"`
	}

	// Page holds an ordered sequence of questions. A page always keeps at
	// least one question.
	Page struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Questions Questions `json:"questions"`
	}

	TitleFields []TitleField
	Questions   []Question
	Pages       []Page

	// DefectCategories maps AQL severity categories to named defects.
	DefectCategories struct {
		Critical []string `json:"critical"`
		Major    []string `json:"major"`
		Minor    []string `json:"minor"`
	}

	// AQLConfig carries the acceptable-quality-limit sampling configuration
	// of a template.
	AQLConfig struct {
		Level                  float64          `json:"aql_level"`
		LevelCritical          float64          `json:"aql_level_critical,omitempty"`
		LevelMajor             float64          `json:"aql_level_major,omitempty"`
		LevelMinor             float64          `json:"aql_level_minor,omitempty"`
		LotSize                int              `json:"lot_size,omitempty"`
		SampleSize             int              `json:"sample_size,omitempty"`
		CriticalDefectsAllowed int              `json:"critical_defects_allowed"`
		MajorDefectsAllowed    int              `json:"major_defects_allowed"`
		MinorDefectsAllowed    int              `json:"minor_defects_allowed"`
		LetterOfCode           string           `json:"letter_of_code,omitempty"`
		LetterOfCodeCritical   string           `json:"letter_of_code_critical,omitempty"`
		LetterOfCodeMajor      string           `json:"letter_of_code_major,omitempty"`
		LetterOfCodeMinor      string           `json:"letter_of_code_minor,omitempty"`
		DefectCategories       DefectCategories `json:"defect_categories"`
	}

	// Template is the aggregate root of the builder: cover metadata, the
	// ordered title-field collection and the ordered page collection. It owns
	// all descendants exclusively; serializing the aggregate (JSON) preserves
	// collection order and is the persistence boundary.
	Template struct {
		ID          string      `db:"id" json:"id"`
		Title       string      `db:"title" json:"title"`
		Description string      `db:"description" json:"description"`
		ImageData   string      `db:"image_data" json:"image_url,omitempty"` // data URI suitable for inline preview
		TitleFields TitleFields `db:"title_fields" json:"titleFields"`
		Pages       Pages       `db:"pages" json:"pages"`

		CreatorID        string `db:"creator_id" json:"creator_id"`
		ManagerID        string `db:"manager_id" json:"manager_id"`
		ManagerFirstName string `db:"manager_first_name" json:"manager_firstName"`
		ManagerLastName  string `db:"manager_last_name" json:"manager_lastName"`
		Organization     string `db:"organization" json:"organization"`
		Location         string `db:"location" json:"location"`
		Status           string `db:"status" json:"status"`

		AQL AQLConfig `db:"aql_config" json:"aql_config"`

		CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
		UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
	}
)

// newID returns a fresh element identifier. UUIDs guarantee no collision with
// any live or previously removed element, keeping transient UI bindings stable.
func newID() string {
	return uuid.New().String()
}

// Collection views

func (f TitleFields) Len() int      { return len(f) }
func (f TitleFields) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (q Questions) Len() int      { return len(q) }
func (q Questions) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (p Pages) Len() int      { return len(p) }
func (p Pages) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// index returns the current position of the element with the given id, or -1.
// Reorders always resolve against identity right before splicing, so a drag
// whose element was removed mid-flight is detected as stale.
func (f TitleFields) index(id string) int {
	for i := range f {
		if f[i].ID == id {
			return i
		}
	}
	return -1
}

func (q Questions) index(id string) int {
	for i := range q {
		if q[i].ID == id {
			return i
		}
	}
	return -1
}

func (p Pages) index(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the element ids in collection order.
func (f TitleFields) IDs() []string {
	ids := make([]string, len(f))
	for i := range f {
		ids[i] = f[i].ID
	}
	return ids
}

func (q Questions) IDs() []string {
	ids := make([]string, len(q))
	for i := range q {
		ids[i] = q[i].ID
	}
	return ids
}

func (p Pages) IDs() []string {
	ids := make([]string, len(p))
	for i := range p {
		ids[i] = p[i].ID
	}
	return ids
}
