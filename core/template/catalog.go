package template

// ResponseType is the enumerated kind of answer a title field or question accepts.
type ResponseType string

const (
	TypeSite     ResponseType = "site"
	TypeDate     ResponseType = "date"
	TypePerson   ResponseType = "person"
	TypeLocation ResponseType = "location"
	TypeText     ResponseType = "text"
	TypeNumber   ResponseType = "number"
	TypeYesNo    ResponseType = "yesno"
)

var (
	// QuestionTypes is the full catalog available to inspection questions.
	QuestionTypes = []ResponseType{TypeSite, TypeDate, TypePerson, TypeLocation, TypeText, TypeNumber, TypeYesNo}

	// TitleFieldTypes is the subset available to title-page metadata fields.
	// Title fields describe structured facts about the inspection (who/where/when);
	// yes/no checks belong to questions only.
	TitleFieldTypes = []ResponseType{TypeSite, TypeDate, TypePerson, TypeLocation, TypeText, TypeNumber}
)

// ValidForQuestion reports whether t is a known question response type.
func (t ResponseType) ValidForQuestion() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// ValidForTitleField reports whether t may be used on a title field.
func (t ResponseType) ValidForTitleField() bool {
	for _, ft := range TitleFieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// Template lifecycle statuses
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusManagerEdit = "manager_edit"
	StatusPublished   = "published"
)

var AllStatuses = []string{StatusDraft, StatusSubmitted, StatusManagerEdit, StatusPublished}
