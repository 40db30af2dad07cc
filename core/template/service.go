package template

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("template not found")
	ErrNotEditable  = errors.New("template cannot be edited in its current status")
	ErrAccessDenied = errors.New("template does not belong to you")

	errManagerNotFound = errors.New("no manager with this email was found")
)

type (
	Filter struct {
		Title        string `query:"title"`
		Organization string `query:"organization"`
		Status       string `query:"status"`
		CreatorID    string `query:"creator_id"`
		ManagerID    string `query:"manager_id"`
	}

	Repository interface {
		CreateTemplate(ctx context.Context, tmpl Template) (Template, error)
		GetTemplateByID(ctx context.Context, id string) (Template, error)
		// FilterTemplates applies AND operation on available Filter fields.
		FilterTemplates(ctx context.Context, filter Filter) ([]Template, error)
		UpdateTemplate(ctx context.Context, tmpl Template) (Template, error)
		DeleteTemplatesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, creator user.User, nt NewTemplate) (Template, error)
		CreateDraft(ctx context.Context, creator user.User, nd NewDraft) (Template, error)
		GetByID(ctx context.Context, id string) (Template, error)
		Filter(ctx context.Context, filter Filter) ([]Template, error)
		Update(ctx context.Context, actor user.User, id string, ut UpdateTemplate) (Template, error)
		Delete(ctx context.Context, ids ...string) error
		Publish(ctx context.Context, id string) (Template, error)
		UpdateAQLConfig(ctx context.Context, id string, cfg AQLConfig) (Template, error)

		// Builder mutations. Rejected operations (boundary moves, stale drag
		// references, minimum-cardinality removes) are silent no-ops: the
		// template is returned unchanged.
		AddTitleField(ctx context.Context, id string, nf NewTitleField) (Template, error)
		RemoveTitleField(ctx context.Context, id, fieldID string) (Template, error)
		MoveTitleField(ctx context.Context, id string, index int, dir Direction) (Template, error)
		ReorderTitleField(ctx context.Context, id, fieldID string, target int) (Template, error)

		AddPage(ctx context.Context, id, title string) (Template, error)
		RemovePage(ctx context.Context, id, pageID string) (Template, error)
		MovePage(ctx context.Context, id string, index int, dir Direction) (Template, error)
		ReorderPage(ctx context.Context, id, pageID string, target int) (Template, error)

		AddQuestion(ctx context.Context, id, pageID string, nq NewQuestion) (Template, error)
		RemoveQuestion(ctx context.Context, id, pageID, questionID string) (Template, error)
		MoveQuestion(ctx context.Context, id, pageID string, index int, dir Direction) (Template, error)
		ReorderQuestion(ctx context.Context, id, pageID, questionID string, target int) (Template, error)
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc}
}

func (svc *service) Create(ctx context.Context, creator user.User, nt NewTemplate) (Template, error) {
	mgr, err := svc.usrSvc.GetByEmail(ctx, nt.ManagerEmail)
	if err != nil || !mgr.IsManager() {
		return Template{}, core.NewValidationError(
			errManagerNotFound, core.FieldError{Field: "manager_email", Error: errManagerNotFound.Error()})
	}

	now := time.Now().UTC()
	tmpl := Template{
		Title:            nt.Title,
		Description:      nt.Description,
		ImageData:        nt.ImageData,
		TitleFields:      buildTitleFields(nt.TitleFields),
		Pages:            buildPages(nt.Pages),
		CreatorID:        creator.ID,
		ManagerID:        mgr.ID,
		ManagerFirstName: mgr.FirstName,
		ManagerLastName:  mgr.LastName,
		Organization:     creator.Organization,
		Location:         creator.Location,
		Status:           StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if nt.AQL != nil {
		tmpl.AQL = *nt.AQL
	}
	return svc.repo.CreateTemplate(ctx, tmpl)
}

func (svc *service) CreateDraft(ctx context.Context, creator user.User, nd NewDraft) (Template, error) {
	now := time.Now().UTC()
	tmpl := Template{
		Title:        nd.Title,
		Description:  nd.Description,
		ImageData:    nd.ImageData,
		TitleFields:  buildTitleFields(nd.TitleFields),
		Pages:        buildPages(nd.Pages),
		CreatorID:    creator.ID,
		Organization: creator.Organization,
		Location:     creator.Location,
		Status:       StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// a template always has at least one page with at least one question
	if len(tmpl.Pages) == 0 {
		tmpl.Pages = Pages{{
			ID:        newID(),
			Title:     "Page 1",
			Questions: Questions{{ID: newID(), Text: "", Type: TypeYesNo}},
		}}
	}
	return svc.repo.CreateTemplate(ctx, tmpl)
}

func (svc *service) GetByID(ctx context.Context, id string) (Template, error) {
	return svc.repo.GetTemplateByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter Filter) ([]Template, error) {
	return svc.repo.FilterTemplates(ctx, filter)
}

func (svc *service) Update(ctx context.Context, actor user.User, id string, ut UpdateTemplate) (Template, error) {
	tmpl, err := svc.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	// only the creator, the assigned manager or IT may touch a template
	if !(tmpl.CreatorID == actor.ID || tmpl.ManagerID == actor.ID || actor.IsIT()) {
		return Template{}, ErrAccessDenied
	}
	if ut.Title != "" {
		tmpl.Title = ut.Title
	}
	if ut.Description != nil {
		tmpl.Description = *ut.Description
	}
	if ut.ImageData != nil {
		tmpl.ImageData = *ut.ImageData
	}
	if ut.Status != "" {
		tmpl.Status = ut.Status
	}
	if ut.AQL != nil {
		tmpl.AQL = *ut.AQL
	}
	tmpl.touch()
	return svc.repo.UpdateTemplate(ctx, tmpl)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTemplatesByID(ctx, ids...)
}

func (svc *service) Publish(ctx context.Context, id string) (Template, error) {
	tmpl, err := svc.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if tmpl.Status == StatusPublished {
		return tmpl, nil
	}
	tmpl.Status = StatusPublished
	tmpl.touch()
	return svc.repo.UpdateTemplate(ctx, tmpl)
}

func (svc *service) UpdateAQLConfig(ctx context.Context, id string, cfg AQLConfig) (Template, error) {
	tmpl, err := svc.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	tmpl.AQL = cfg
	tmpl.touch()
	return svc.repo.UpdateTemplate(ctx, tmpl)
}

// mutate loads the template, applies a builder operation and persists the
// result when the operation reports a change.
func (svc *service) mutate(ctx context.Context, id string, op func(*Template) bool) (Template, error) {
	tmpl, err := svc.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if !tmpl.Editable() {
		return Template{}, ErrNotEditable
	}
	if !op(&tmpl) {
		return tmpl, nil
	}
	return svc.repo.UpdateTemplate(ctx, tmpl)
}

func (svc *service) AddTitleField(ctx context.Context, id string, nf NewTitleField) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool {
		_, ok := t.AddTitleField(nf.Label, nf.Type)
		return ok
	})
}

func (svc *service) RemoveTitleField(ctx context.Context, id, fieldID string) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.RemoveTitleField(fieldID) })
}

func (svc *service) MoveTitleField(ctx context.Context, id string, index int, dir Direction) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.MoveTitleField(index, dir) })
}

func (svc *service) ReorderTitleField(ctx context.Context, id, fieldID string, target int) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.ReorderTitleField(fieldID, target) })
}

func (svc *service) AddPage(ctx context.Context, id, title string) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool {
		t.AddPage(title)
		return true
	})
}

func (svc *service) RemovePage(ctx context.Context, id, pageID string) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.RemovePage(pageID) })
}

func (svc *service) MovePage(ctx context.Context, id string, index int, dir Direction) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.MovePage(index, dir) })
}

func (svc *service) ReorderPage(ctx context.Context, id, pageID string, target int) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.ReorderPage(pageID, target) })
}

func (svc *service) AddQuestion(ctx context.Context, id, pageID string, nq NewQuestion) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool {
		_, ok := t.AddQuestion(pageID, nq.Text, nq.Type)
		return ok
	})
}

func (svc *service) RemoveQuestion(ctx context.Context, id, pageID, questionID string) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.RemoveQuestion(pageID, questionID) })
}

func (svc *service) MoveQuestion(ctx context.Context, id, pageID string, index int, dir Direction) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.MoveQuestion(pageID, index, dir) })
}

func (svc *service) ReorderQuestion(ctx context.Context, id, pageID, questionID string, target int) (Template, error) {
	return svc.mutate(ctx, id, func(t *Template) bool { return t.ReorderQuestion(pageID, questionID, target) })
}
