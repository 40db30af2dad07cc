package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
)

func newTemplatePayload(managerEmail string) map[string]interface{} {
	return map[string]interface{}{
		"title":         "Incoming QC",
		"description":   "Incoming goods inspection",
		"manager_email": managerEmail,
		"pages": []map[string]interface{}{
			{
				"title": "Visual check",
				"questions": []map[string]interface{}{
					{"text": "Any scratches?", "type": "yesno"},
				},
			},
		},
	}
}

func TestTemplateAPI_create(t *testing.T) {
	env := setupAPI(t)

	manager := env.createUser(t, "Manny", "manager@test.cd", "s3cr3t", user.RoleManager)
	creator := env.createUser(t, "Crea", "creator@test.cd", "s3cr3t", user.RoleInspector)
	token := env.getToken(t, creator)

	rec := env.request(t, http.MethodPost, "/v1/templates", token, newTemplatePayload(manager.Email))
	requireCode(t, rec, http.StatusCreated)

	var tmpl template.Template
	decode(t, rec, &tmpl)
	assert.NotEmpty(t, tmpl.ID)
	assert.Equal(t, template.StatusDraft, tmpl.Status)
	assert.Equal(t, manager.ID, tmpl.ManagerID)
	assert.Equal(t, creator.ID, tmpl.CreatorID)
	require.Len(t, tmpl.Pages, 1)
	require.Len(t, tmpl.Pages[0].Questions, 1)

	t.Run("auth required", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/templates", "", newTemplatePayload(manager.Email))
		requireCode(t, rec, http.StatusUnauthorized)
	})

	t.Run("unknown manager email", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/templates", token, newTemplatePayload("nobody@test.cd"))
		requireCode(t, rec, http.StatusBadRequest)
	})

	t.Run("manager email must belong to a manager", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/templates", token, newTemplatePayload(creator.Email))
		requireCode(t, rec, http.StatusBadRequest)
	})

	t.Run("pages are required", func(t *testing.T) {
		payload := newTemplatePayload(manager.Email)
		payload["pages"] = []map[string]interface{}{}
		rec := env.request(t, http.MethodPost, "/v1/templates", token, payload)
		requireCode(t, rec, http.StatusBadRequest)
	})
}

func TestTemplateAPI_builder(t *testing.T) {
	env := setupAPI(t)

	creator := env.createUser(t, "Crea", "creator@test.cd", "s3cr3t", user.RoleInspector)
	token := env.getToken(t, creator)

	rec := env.request(t, http.MethodPost, "/v1/templates/drafts", token, map[string]interface{}{})
	requireCode(t, rec, http.StatusCreated)

	var tmpl template.Template
	decode(t, rec, &tmpl)
	require.Len(t, tmpl.Pages, 1, "empty draft is seeded with one page")
	require.Len(t, tmpl.Pages[0].Questions, 1)

	base := "/v1/templates/" + tmpl.ID

	t.Run("title fields", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, base+"/title-fields", token,
			map[string]interface{}{"label": "Site", "type": "site"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		require.Len(t, tmpl.TitleFields, 1)

		rec = env.request(t, http.MethodPost, base+"/title-fields", token,
			map[string]interface{}{"label": "Inspected on", "type": "date"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		require.Len(t, tmpl.TitleFields, 2)

		// moving the first element up falls off the edge; nothing changes
		rec = env.request(t, http.MethodPost, base+"/title-fields/move", token,
			map[string]interface{}{"index": 0, "direction": "up"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Equal(t, "Site", tmpl.TitleFields[0].Label)

		rec = env.request(t, http.MethodPost, base+"/title-fields/move", token,
			map[string]interface{}{"index": 0, "direction": "down"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Equal(t, "Inspected on", tmpl.TitleFields[0].Label)

		rec = env.request(t, http.MethodPost, base+"/title-fields/"+tmpl.TitleFields[1].ID+"/reorder", token,
			map[string]interface{}{"target": 0})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Equal(t, "Site", tmpl.TitleFields[0].Label)

		rec = env.request(t, http.MethodPost, base+"/title-fields", token,
			map[string]interface{}{"label": "Free form", "type": "yesno"})
		requireCode(t, rec, http.StatusBadRequest)
	})

	t.Run("pages and questions", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, base+"/pages", token,
			map[string]interface{}{"title": "Packaging"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		require.Len(t, tmpl.Pages, 2)
		require.Len(t, tmpl.Pages[1].Questions, 1, "new page is seeded with one question")

		pg := tmpl.Pages[1]
		rec = env.request(t, http.MethodPost, base+"/pages/"+pg.ID+"/questions", token,
			map[string]interface{}{"text": "Cartons sealed?", "type": "yesno"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		require.Len(t, tmpl.Pages[1].Questions, 2)

		rec = env.request(t, http.MethodPost, base+"/pages/move", token,
			map[string]interface{}{"index": 1, "direction": "up"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Equal(t, "Packaging", tmpl.Pages[0].Title)

		// the last question of a page cannot be removed
		solo := tmpl.Pages[1]
		require.Len(t, solo.Questions, 1)
		rec = env.request(t, http.MethodDelete, base+"/pages/"+solo.ID+"/questions/"+solo.Questions[0].ID, token, nil)
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Len(t, tmpl.Pages[1].Questions, 1)

		// removing a page is fine while more than one remains
		rec = env.request(t, http.MethodDelete, base+"/pages/"+tmpl.Pages[0].ID, token, nil)
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		require.Len(t, tmpl.Pages, 1)

		// but the last page stays put
		rec = env.request(t, http.MethodDelete, base+"/pages/"+tmpl.Pages[0].ID, token, nil)
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Len(t, tmpl.Pages, 1)
	})

	t.Run("unknown template", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/v1/templates/nope/pages", token,
			map[string]interface{}{"title": "Lost"})
		requireCode(t, rec, http.StatusNotFound)
	})
}

func TestTemplateAPI_publish(t *testing.T) {
	env := setupAPI(t)

	manager := env.createUser(t, "Manny", "manager@test.cd", "s3cr3t", user.RoleManager)
	inspector := env.createUser(t, "Ins", "inspector@test.cd", "s3cr3t", user.RoleInspector)
	managerToken := env.getToken(t, manager)

	rec := env.request(t, http.MethodPost, "/v1/templates", managerToken, newTemplatePayload(manager.Email))
	requireCode(t, rec, http.StatusCreated)

	var tmpl template.Template
	decode(t, rec, &tmpl)
	base := "/v1/templates/" + tmpl.ID

	t.Run("only the owner may update", func(t *testing.T) {
		rec := env.request(t, http.MethodPut, base, env.getToken(t, inspector),
			map[string]interface{}{"title": "Hijacked"})
		requireCode(t, rec, http.StatusForbidden)

		rec = env.request(t, http.MethodPut, base, managerToken,
			map[string]interface{}{"title": "Incoming QC v2"})
		requireCode(t, rec, http.StatusOK)
		decode(t, rec, &tmpl)
		assert.Equal(t, "Incoming QC v2", tmpl.Title)
	})

	t.Run("inspectors may not publish", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, base+"/publish", env.getToken(t, inspector), nil)
		requireCode(t, rec, http.StatusForbidden)
	})

	rec = env.request(t, http.MethodPost, base+"/publish", managerToken, nil)
	requireCode(t, rec, http.StatusOK)
	decode(t, rec, &tmpl)
	assert.Equal(t, template.StatusPublished, tmpl.Status)

	t.Run("published templates are frozen", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, base+"/pages", managerToken,
			map[string]interface{}{"title": "Late addition"})
		requireCode(t, rec, http.StatusConflict)
	})
}

func TestTemplateAPI_aqlCriteria(t *testing.T) {
	env := setupAPI(t)

	usr := env.createUser(t, "Awe", "awe@test.cd", "s3cr3t", user.RoleManager)
	token := env.getToken(t, usr)

	rec := env.request(t, http.MethodGet, "/v1/templates/aql-criteria?lot_size=500&aql_level=2.5", token, nil)
	requireCode(t, rec, http.StatusOK)

	var criteria inspection.AQLCriteria
	decode(t, rec, &criteria)
	assert.Equal(t, 50, criteria.SampleSize)
	assert.Equal(t, 0, criteria.CriticalDefectsAllowed)
	assert.Equal(t, 1, criteria.MajorDefectsAllowed)
	assert.Equal(t, 2, criteria.MinorDefectsAllowed)

	t.Run("lot size is required", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/v1/templates/aql-criteria", token, nil)
		requireCode(t, rec, http.StatusBadRequest)
	})
}
