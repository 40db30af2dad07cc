package template

import (
	"github.com/go-playground/validator/v10"

	"github.com/streamlineer/streamlineer/core"
)

type (
	NewTitleField struct {
		Label string       `json:"label" validate:"required,max=255"`
		Type  ResponseType `json:"type" validate:"required,titlefieldtype"`
	}

	NewQuestion struct {
		Text string       `json:"text" validate:"required"`
		Type ResponseType `json:"type" validate:"required,questiontype"`
	}

	NewPage struct {
		Title     string        `json:"title" validate:"max=255"`
		Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
	}

	// NewTemplate contains information needed to create a new Template.
	// The assigned manager is referenced by email, as the builder's manager
	// picker submits.
	NewTemplate struct {
		Title        string          `json:"title" validate:"required,max=255"`
		Description  string          `json:"description"`
		ImageData    string          `json:"image_url"`
		ManagerEmail string          `json:"manager_email" validate:"required,email"`
		TitleFields  []NewTitleField `json:"titleFields" validate:"omitempty,dive"`
		Pages        []NewPage       `json:"pages" validate:"required,min=1,dive"`
		AQL          *AQLConfig      `json:"aql_config"`
	}

	// NewDraft is the minimal payload for saving a work-in-progress template.
	// Cardinality invariants still hold (at least one page, one question per
	// page), but titles and the manager assignment may be missing.
	NewDraft struct {
		Title       string          `json:"title" validate:"max=255"`
		Description string          `json:"description"`
		ImageData   string          `json:"image_url"`
		TitleFields []NewTitleField `json:"titleFields" validate:"omitempty,dive"`
		Pages       []NewPage       `json:"pages" validate:"omitempty,dive"`
	}

	// UpdateTemplate defines what whole-template metadata may be modified.
	UpdateTemplate struct {
		Title       string     `json:"title" validate:"omitempty,max=255"`
		Description *string    `json:"description"`
		ImageData   *string    `json:"image_url"`
		Status      string     `json:"status" validate:"omitempty,templatestatus"`
		AQL         *AQLConfig `json:"aql_config"`
	}
)

func (nt *NewTemplate) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.ManagerEmail = core.CleanString(nt.ManagerEmail, true /* lower */)
	return validate.Struct(nt)
}

func (nd *NewDraft) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	nd.Description = core.CleanString(nd.Description)
	return validate.Struct(nd)
}

func (ut *UpdateTemplate) Validate(validate *validator.Validate) error {
	ut.Title = core.CleanString(ut.Title)
	return validate.Struct(ut)
}

// build materializes payload collections into aggregate collections,
// assigning fresh ids throughout.
func buildTitleFields(flds []NewTitleField) TitleFields {
	out := make(TitleFields, 0, len(flds))
	for _, f := range flds {
		out = append(out, TitleField{ID: newID(), Label: f.Label, Type: f.Type})
	}
	return out
}

func buildPages(pages []NewPage) Pages {
	out := make(Pages, 0, len(pages))
	for _, p := range pages {
		qs := make(Questions, 0, len(p.Questions))
		for _, q := range p.Questions {
			qs = append(qs, Question{ID: newID(), Text: q.Text, Type: q.Type})
		}
		out = append(out, Page{ID: newID(), Title: p.Title, Questions: qs})
	}
	return out
}
