package template_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
	emailsvc "github.com/streamlineer/streamlineer/services/email"
	dummydb "github.com/streamlineer/streamlineer/storage/database/dummy"
)

func setup(t *testing.T) (template.Service, user.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.NewConfig()
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewServiceMock(usrRepo, emailsvc.NewConsoleServiceMock(conf), conf)
	return template.NewService(dummydb.NewTemplateRepository(db), usrSvc), usrRepo
}

func createUser(t *testing.T, repo user.Repository, first, email, role string) user.User {
	t.Helper()

	usr, err := repo.CreateUser(context.Background(), user.User{
		FirstName: first,
		Email:     email,
		Role:      role,
		IsActive:  true,
	})
	require.NoError(t, err)
	return usr
}

func TestService_Create(t *testing.T) {
	svc, usrRepo := setup(t)
	ctx := context.Background()

	mgr := createUser(t, usrRepo, "Manny", "manny@test.cd", user.RoleManager)
	inspector := createUser(t, usrRepo, "Ins", "ins@test.cd", user.RoleInspector)

	nt := template.NewTemplate{
		Title:        "Factory Audit",
		ManagerEmail: mgr.Email,
		TitleFields: []template.NewTitleField{
			{Label: "Site", Type: template.TypeSite},
			{Label: "Date", Type: template.TypeDate},
		},
		Pages: []template.NewPage{
			{Title: "Page 1", Questions: []template.NewQuestion{
				{Text: "Floor clean?", Type: template.TypeYesNo},
				{Text: "Units counted?", Type: template.TypeNumber},
			}},
		},
	}

	tmpl, err := svc.Create(ctx, inspector, nt)
	require.NoError(t, err)
	assert.NotEmpty(t, tmpl.ID)
	assert.Equal(t, template.StatusDraft, tmpl.Status)
	assert.Equal(t, mgr.ID, tmpl.ManagerID)
	assert.Equal(t, inspector.ID, tmpl.CreatorID)
	assert.Len(t, tmpl.TitleFields, 2)
	require.Len(t, tmpl.Pages, 1)
	assert.Len(t, tmpl.Pages[0].Questions, 2)

	t.Run("manager email must belong to a manager", func(t *testing.T) {
		nt := nt
		nt.ManagerEmail = inspector.Email
		_, err := svc.Create(ctx, inspector, nt)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown manager email", func(t *testing.T) {
		nt := nt
		nt.ManagerEmail = "ghost@test.cd"
		_, err := svc.Create(ctx, inspector, nt)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestService_CreateDraft(t *testing.T) {
	svc, usrRepo := setup(t)
	ctx := context.Background()

	creator := createUser(t, usrRepo, "Ins", "ins@test.cd", user.RoleInspector)

	// an empty draft is seeded with one page holding one question
	tmpl, err := svc.CreateDraft(ctx, creator, template.NewDraft{Title: "WIP"})
	require.NoError(t, err)
	require.Len(t, tmpl.Pages, 1)
	assert.Len(t, tmpl.Pages[0].Questions, 1)
	assert.Equal(t, template.StatusDraft, tmpl.Status)
	assert.Empty(t, tmpl.ManagerID)
}

func TestService_Publish(t *testing.T) {
	svc, usrRepo := setup(t)
	ctx := context.Background()

	creator := createUser(t, usrRepo, "Ins", "ins@test.cd", user.RoleInspector)
	tmpl, err := svc.CreateDraft(ctx, creator, template.NewDraft{Title: "WIP"})
	require.NoError(t, err)

	tmpl, err = svc.Publish(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, template.StatusPublished, tmpl.Status)

	// idempotent
	tmpl, err = svc.Publish(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, template.StatusPublished, tmpl.Status)

	// published templates are frozen
	_, err = svc.AddPage(ctx, tmpl.ID, "Page 2")
	assert.ErrorIs(t, err, template.ErrNotEditable)

	_, err = svc.Publish(ctx, "nope")
	assert.ErrorIs(t, err, template.ErrNotFound)
}

func TestService_builderMutations(t *testing.T) {
	svc, usrRepo := setup(t)
	ctx := context.Background()

	creator := createUser(t, usrRepo, "Ins", "ins@test.cd", user.RoleInspector)
	tmpl, err := svc.CreateDraft(ctx, creator, template.NewDraft{Title: "WIP"})
	require.NoError(t, err)

	tmpl, err = svc.AddTitleField(ctx, tmpl.ID, template.NewTitleField{Label: "Site", Type: template.TypeSite})
	require.NoError(t, err)
	tmpl, err = svc.AddTitleField(ctx, tmpl.ID, template.NewTitleField{Label: "Date", Type: template.TypeDate})
	require.NoError(t, err)
	require.Len(t, tmpl.TitleFields, 2)

	fld1, fld2 := tmpl.TitleFields[0], tmpl.TitleFields[1]

	tmpl, err = svc.MoveTitleField(ctx, tmpl.ID, 1, template.Up)
	require.NoError(t, err)
	assert.Equal(t, []string{fld2.ID, fld1.ID}, tmpl.TitleFields.IDs())

	// boundary moves are silent no-ops
	tmpl, err = svc.MoveTitleField(ctx, tmpl.ID, 0, template.Up)
	require.NoError(t, err)
	assert.Equal(t, []string{fld2.ID, fld1.ID}, tmpl.TitleFields.IDs())

	tmpl, err = svc.ReorderTitleField(ctx, tmpl.ID, fld2.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{fld1.ID, fld2.ID}, tmpl.TitleFields.IDs())

	// pages and questions
	tmpl, err = svc.AddPage(ctx, tmpl.ID, "Page 2")
	require.NoError(t, err)
	require.Len(t, tmpl.Pages, 2)
	pg1, pg2 := tmpl.Pages[0], tmpl.Pages[1]

	tmpl, err = svc.ReorderPage(ctx, tmpl.ID, pg2.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{pg2.ID, pg1.ID}, tmpl.Pages.IDs())

	tmpl, err = svc.AddQuestion(ctx, tmpl.ID, pg1.ID, template.NewQuestion{Text: "Count?", Type: template.TypeNumber})
	require.NoError(t, err)
	assert.Len(t, tmpl.Page(pg1.ID).Questions, 2)

	// min-cardinality removes are silent no-ops
	onlyQ := tmpl.Page(pg2.ID).Questions[0]
	tmpl, err = svc.RemoveQuestion(ctx, tmpl.ID, pg2.ID, onlyQ.ID)
	require.NoError(t, err)
	assert.Len(t, tmpl.Page(pg2.ID).Questions, 1)

	tmpl, err = svc.RemovePage(ctx, tmpl.ID, pg2.ID)
	require.NoError(t, err)
	require.Len(t, tmpl.Pages, 1)

	tmpl, err = svc.RemovePage(ctx, tmpl.ID, pg1.ID)
	require.NoError(t, err)
	assert.Len(t, tmpl.Pages, 1)
}
