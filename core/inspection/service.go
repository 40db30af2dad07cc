package inspection

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/audit"
	"github.com/streamlineer/streamlineer/core/task"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
)

var (
	// errors
	ErrNotFound             = errors.New("inspection not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrTemplateNotPublished = errors.New("template must be published")
	ErrNotPendingReview     = errors.New("inspection is not pending review")

	errTemplateNotFound  = errors.New("template not found")
	errInspectorNotFound = errors.New("no inspector with this email was found")
)

type (
	Filter struct {
		TemplateID  string `query:"template_id"`
		InspectorID string `query:"inspector_id"`
		ManagerID   string `query:"manager_id"`
		Status      string `query:"status"`
	}

	Repository interface {
		CreateInspection(ctx context.Context, insp Inspection) (Inspection, error)
		GetInspectionByID(ctx context.Context, id string) (Inspection, error)
		// FilterInspections applies AND operation on available Filter fields,
		// most recently created first.
		FilterInspections(ctx context.Context, filter Filter) ([]Inspection, error)
		UpdateInspection(ctx context.Context, insp Inspection) (Inspection, error)
		DeleteInspectionsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		// Assign schedules a published template for an inspector and creates
		// the linked board task.
		Assign(ctx context.Context, mgr user.User, ai AssignInspection) (Inspection, error)
		ListAssigned(ctx context.Context, inspector user.User) ([]Inspection, error)
		GetByID(ctx context.Context, id string) (Inspection, error)
		// Submit stores the inspector's responses, evaluates the template's
		// AQL configuration and sends the inspection for manager review.
		Submit(ctx context.Context, actor user.User, id string, si SubmitInspection) (Inspection, error)
		PendingReviews(ctx context.Context, mgr user.User) ([]Inspection, error)
		// Approve finalizes a submitted inspection.
		Approve(ctx context.Context, mgr user.User, id string) (Inspection, error)
		Completed(ctx context.Context, usr user.User) ([]Inspection, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo     Repository
		tmplSvc  template.Service
		usrSvc   user.Service
		taskSvc  task.Service
		mailSvc  core.EmailService
		auditSvc *audit.Service
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	tmplSvc template.Service,
	usrSvc user.Service,
	taskSvc task.Service,
	mailSvc core.EmailService,
	auditSvc *audit.Service,
) Service {
	return &service{
		repo:     repo,
		tmplSvc:  tmplSvc,
		usrSvc:   usrSvc,
		taskSvc:  taskSvc,
		mailSvc:  mailSvc,
		auditSvc: auditSvc,
	}
}

func (svc *service) Assign(ctx context.Context, mgr user.User, ai AssignInspection) (Inspection, error) {
	tmpl, err := svc.resolveTemplate(ctx, ai)
	if err != nil {
		return Inspection{}, err
	}
	if tmpl.ManagerID != mgr.ID {
		return Inspection{}, ErrAccessDenied
	}
	if tmpl.Status != template.StatusPublished {
		return Inspection{}, ErrTemplateNotPublished
	}

	inspector, err := svc.usrSvc.GetByEmail(ctx, ai.InspectorEmail)
	if err != nil || !inspector.IsInspector() {
		return Inspection{}, core.NewValidationError(
			errInspectorNotFound, core.FieldError{Field: "inspector_email", Error: errInspectorNotFound.Error()})
	}

	now := time.Now().UTC()
	insp := Inspection{
		ID:                  newID(),
		TemplateID:          tmpl.ID,
		InspectorID:         inspector.ID,
		ManagerID:           mgr.ID,
		ScheduledDate:       ai.ScheduledDate,
		Status:              StatusAssigned,
		Responses:           Responses{},
		AQLPassed:           true,
		AQLRejectionReasons: RejectionReasons{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	insp, err = svc.repo.CreateInspection(ctx, insp)
	if err != nil {
		return Inspection{}, err
	}

	if _, err = svc.taskSvc.CreateLinked(ctx, task.Task{
		Title:          fmt.Sprintf("Inspection: %s", tmpl.Title),
		Description:    fmt.Sprintf("Inspection assigned by %s", mgr.FirstName),
		Priority:       task.PriorityMedium,
		InspectionID:   insp.ID,
		TemplateID:     tmpl.ID,
		TemplateTitle:  tmpl.Title,
		AssignedToID:   inspector.ID,
		AssignedToName: inspector.FullName(),
		AssignedByID:   mgr.ID,
		AssignedByName: mgr.FullName(),
		DueDate:        ai.ScheduledDate,
	}); err != nil {
		return Inspection{}, errors.Wrap(err, "creating linked task")
	}

	go svc.sendAssignedMail(inspector, mgr, tmpl, insp)
	svc.auditSvc.InspectionEvent(ctx, insp.ID, mgr.ID, audit.ActionAssign, map[string]interface{}{
		"template_id":     tmpl.ID,
		"inspector_email": inspector.Email,
	})

	insp.TemplateTitle = tmpl.Title
	insp.TemplateDescription = tmpl.Description
	return insp, nil
}

func (svc *service) resolveTemplate(ctx context.Context, ai AssignInspection) (template.Template, error) {
	if ai.TemplateID != "" {
		tmpl, err := svc.tmplSvc.GetByID(ctx, ai.TemplateID)
		if err != nil {
			return template.Template{}, errTemplateNotFound
		}
		return tmpl, nil
	}
	tmpls, err := svc.tmplSvc.Filter(ctx, template.Filter{Title: ai.TemplateTitle})
	if err != nil || len(tmpls) == 0 {
		return template.Template{}, errTemplateNotFound
	}
	return tmpls[0], nil
}

func (svc *service) sendAssignedMail(inspector, mgr user.User, tmpl template.Template, insp Inspection) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: inspector.FullName(), Address: inspector.Email}},
			Subject:      fmt.Sprintf("New Inspection Assigned: %s", tmpl.Title),
			TemplateName: "inspection-assigned",
			TemplateData: struct {
				Inspector  user.User
				Manager    user.User
				Template   template.Template
				Inspection Inspection
			}{inspector, mgr, tmpl, insp},
		},
	)
}

func (svc *service) ListAssigned(ctx context.Context, inspector user.User) ([]Inspection, error) {
	insps, err := svc.repo.FilterInspections(ctx, Filter{InspectorID: inspector.ID})
	if err != nil {
		return nil, err
	}
	return svc.decorate(ctx, insps), nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Inspection, error) {
	insp, err := svc.repo.GetInspectionByID(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	if tmpl, err := svc.tmplSvc.GetByID(ctx, insp.TemplateID); err == nil {
		insp.TemplateTitle = tmpl.Title
		insp.TemplateDescription = tmpl.Description
	}
	return insp, nil
}

func (svc *service) Submit(ctx context.Context, actor user.User, id string, si SubmitInspection) (Inspection, error) {
	insp, err := svc.repo.GetInspectionByID(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	tmpl, err := svc.tmplSvc.GetByID(ctx, insp.TemplateID)
	if err != nil {
		return Inspection{}, errTemplateNotFound
	}

	result := AQLResult{Passed: true, RejectionReasons: []string{}}
	if tmpl.AQL.LotSize > 0 && tmpl.AQL.Level > 0 {
		result = ProcessResults(si.Responses, tmpl.AQL)
	}
	if si.Override != nil {
		result = applyOverride(result, actor, *si.Override)
	}

	now := time.Now().UTC()
	insp.Responses = si.Responses
	insp.AQLResults = result
	insp.DefectCounts = result.DefectCounts
	insp.AQLPassed = result.Passed
	insp.AQLRejectionReasons = RejectionReasons(result.RejectionReasons)
	insp.UpdatedAt = now
	// non-inspectors only save progress; inspectors send for review
	if actor.IsInspector() {
		insp.Status = StatusSubmitted
	} else {
		insp.Status = StatusInProgress
	}
	insp, err = svc.repo.UpdateInspection(ctx, insp)
	if err != nil {
		return Inspection{}, err
	}

	if insp.Status == StatusSubmitted {
		if err = svc.taskSvc.AdvanceLinked(ctx, insp.ID, insp.InspectorID, task.StatusReview); err != nil {
			return Inspection{}, errors.Wrap(err, "advancing linked task")
		}
		if _, err = svc.taskSvc.CreateLinked(ctx, task.Task{
			Title:          fmt.Sprintf("Review: %s", tmpl.Title),
			Description:    fmt.Sprintf("Inspection submitted by %s", actor.FullName()),
			Priority:       task.PriorityHigh,
			Status:         task.StatusReview,
			InspectionID:   insp.ID,
			TemplateID:     tmpl.ID,
			TemplateTitle:  tmpl.Title,
			AssignedToID:   insp.ManagerID,
			AssignedByID:   actor.ID,
			AssignedByName: actor.FullName(),
		}); err != nil {
			return Inspection{}, errors.Wrap(err, "creating review task")
		}
	}

	svc.auditSvc.InspectionEvent(ctx, insp.ID, actor.ID, audit.ActionSubmit, map[string]interface{}{
		"defect_counts":     result.DefectCounts,
		"aql_passed":        result.Passed,
		"rejection_reasons": result.RejectionReasons,
		"overridden":        result.Overridden,
	})
	return insp, nil
}

// applyOverride replaces the computed outcome with the inspector's decision,
// keeping the previous outcome in the override record.
func applyOverride(result AQLResult, actor user.User, ov Override) AQLResult {
	meta := &OverrideMeta{
		ActorUserID:              actor.ID,
		ActorRole:                actor.Role,
		Decision:                 ov.Decision,
		Reason:                   ov.Reason,
		At:                       time.Now().UTC(),
		PreviousPassed:           result.Passed,
		PreviousRejectionReasons: result.RejectionReasons,
	}
	result.Overridden = true
	result.Override = meta
	result.Passed = ov.Decision == "ACCEPT"
	if !result.Passed {
		result.RejectionReasons = append(result.RejectionReasons, RejectionOverridden)
	}
	return result
}

func (svc *service) PendingReviews(ctx context.Context, mgr user.User) ([]Inspection, error) {
	insps, err := svc.repo.FilterInspections(ctx, Filter{ManagerID: mgr.ID, Status: StatusSubmitted})
	if err != nil {
		return nil, err
	}
	return svc.decorate(ctx, insps), nil
}

func (svc *service) Approve(ctx context.Context, mgr user.User, id string) (Inspection, error) {
	insp, err := svc.repo.GetInspectionByID(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	if insp.ManagerID != mgr.ID {
		return Inspection{}, ErrAccessDenied
	}
	if insp.Status != StatusSubmitted {
		return Inspection{}, ErrNotPendingReview
	}

	now := time.Now().UTC()
	insp.Status = StatusCompleted
	insp.CompletedAt = null.TimeFrom(now)
	insp.UpdatedAt = now
	insp, err = svc.repo.UpdateInspection(ctx, insp)
	if err != nil {
		return Inspection{}, err
	}

	if err = svc.taskSvc.AdvanceLinked(ctx, insp.ID, "", task.StatusCompleted); err != nil {
		return Inspection{}, errors.Wrap(err, "completing linked tasks")
	}
	svc.auditSvc.InspectionEvent(ctx, insp.ID, mgr.ID, audit.ActionApprove, nil)
	return insp, nil
}

func (svc *service) Completed(ctx context.Context, usr user.User) ([]Inspection, error) {
	filter := Filter{Status: StatusCompleted}
	switch {
	case usr.IsInspector():
		filter.InspectorID = usr.ID
	case usr.IsManager():
		filter.ManagerID = usr.ID
	}
	insps, err := svc.repo.FilterInspections(ctx, filter)
	if err != nil {
		return nil, err
	}
	return svc.decorate(ctx, insps), nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteInspectionsByID(ctx, ids...)
}

// decorate attaches template titles for list views.
func (svc *service) decorate(ctx context.Context, insps []Inspection) []Inspection {
	for i, insp := range insps {
		tmpl, err := svc.tmplSvc.GetByID(ctx, insp.TemplateID)
		if err != nil {
			insps[i].TemplateTitle = "Unknown Template"
			continue
		}
		insps[i].TemplateTitle = tmpl.Title
		insps[i].TemplateDescription = tmpl.Description
	}
	return insps
}
