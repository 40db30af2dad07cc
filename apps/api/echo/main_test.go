package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/audit"
	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/task"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
	emailsvc "github.com/streamlineer/streamlineer/services/email"
	logsvc "github.com/streamlineer/streamlineer/services/logger"
	dummydb "github.com/streamlineer/streamlineer/storage/database/dummy"
)

type testEnv struct {
	app     Server
	conf    *core.Config
	db      *dummydb.DB
	usrRepo user.Repository
	tmplSvc template.Service
	taskSvc task.Service
	inspSvc inspection.Service
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)

	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	tmplSvc := template.NewService(dummydb.NewTemplateRepository(db), usrSvc)
	taskSvc := task.NewService(dummydb.NewTaskRepository(db))
	inspSvc := inspection.NewService(
		dummydb.NewInspectionRepository(db), tmplSvc, usrSvc, taskSvc, mailSvc, auditSvc)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	template.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		TemplateSvc:   tmplSvc,
		InspectionSvc: inspSvc,
		TaskSvc:       taskSvc,
		Validate:      validate,
		Translator:    translator,
	})

	return &testEnv{
		app:     app,
		conf:    conf,
		db:      db,
		usrRepo: usrRepo,
		tmplSvc: tmplSvc,
		taskSvc: taskSvc,
		inspSvc: inspSvc,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (env *testEnv) createUser(t *testing.T, first, email, pwd, role string) user.User {
	t.Helper()

	usr := user.User{
		FirstName:    first,
		Email:        email,
		Organization: "Acme",
		Location:     "Plant 7",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := generateToken(getUserClaims(usr, tokenTypeAccess, env.conf), env.conf)
	require.NoError(t, err)
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.app.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func requireCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

func TestHome(t *testing.T) {
	env := setupAPI(t)

	rec := env.request(t, http.MethodGet, "/", "", nil)
	requireCode(t, rec, http.StatusOK)
	require.Contains(t, rec.Body.String(), "Streamlineer")
}

func TestValidationFailureRendersFieldErrors(t *testing.T) {
	env := setupAPI(t)

	// struct validation failures render as a 400 field-error map,
	// never as a server error
	rec := env.request(t, http.MethodPost, "/v1/users/register", "",
		map[string]interface{}{"email": "not-an-email"})
	requireCode(t, rec, http.StatusBadRequest)

	var fldErrs map[string]string
	decode(t, rec, &fldErrs)
	require.NotEmpty(t, fldErrs["email"])
	require.NotEmpty(t, fldErrs["firstName"])
	require.NotEmpty(t, fldErrs["password"])

	// sentinel domain errors still map through the status table
	usr := env.createUser(t, "Awe", "awe@test.cd", "s3cr3t", user.RoleInspector)
	rec = env.request(t, http.MethodGet, "/v1/templates/nope", env.getToken(t, usr), nil)
	requireCode(t, rec, http.StatusNotFound)
}
