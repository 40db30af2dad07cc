package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/template"
	"github.com/streamlineer/streamlineer/core/user"
)

type templateApi struct {
	deps ServerDeps
}

func registerTemplateAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := templateApi{deps: deps}

	tg := g.Group("/templates", jwt)

	tg.POST("", api.create)
	tg.POST("/drafts", api.createDraft)
	tg.GET("", api.query)
	tg.GET("/aql-criteria", api.aqlCriteria)

	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/publish", api.publish, roleMiddleware(user.RoleManager))
	dg.PUT("/aql", api.updateAQL)

	// builder mutations over the ordered collections
	dg.POST("/title-fields", api.addTitleField)
	dg.DELETE("/title-fields/:fieldID", api.removeTitleField)
	dg.POST("/title-fields/move", api.moveTitleField)
	dg.POST("/title-fields/:fieldID/reorder", api.reorderTitleField)

	dg.POST("/pages", api.addPage)
	dg.DELETE("/pages/:pageID", api.removePage)
	dg.POST("/pages/move", api.movePage)
	dg.POST("/pages/:pageID/reorder", api.reorderPage)

	dg.POST("/pages/:pageID/questions", api.addQuestion)
	dg.DELETE("/pages/:pageID/questions/:questionID", api.removeQuestion)
	dg.POST("/pages/:pageID/questions/move", api.moveQuestion)
	dg.POST("/pages/:pageID/questions/:questionID/reorder", api.reorderQuestion)
}

// Handlers

func (api *templateApi) create(ctx echo.Context) error {
	var data template.NewTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTemplate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	creator, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tmpl, err := api.deps.TemplateSvc.Create(ctx.Request().Context(), creator, data)
	if err != nil {
		return errors.Wrap(err, "creating template")
	}
	return ctx.JSON(http.StatusCreated, tmpl)
}

func (api *templateApi) createDraft(ctx echo.Context) error {
	var data template.NewDraft
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDraft")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	creator, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tmpl, err := api.deps.TemplateSvc.CreateDraft(ctx.Request().Context(), creator, data)
	if err != nil {
		return errors.Wrap(err, "creating draft")
	}
	return ctx.JSON(http.StatusCreated, tmpl)
}

func (api *templateApi) query(ctx echo.Context) error {
	filter := new(template.Filter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []template.Template{})
	}

	// non-IT users only see their organization's templates
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsIT() {
		filter.Organization = ctxUsr.Organization
	}

	tmpls, err := api.deps.TemplateSvc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying templates")
	}
	if tmpls == nil {
		tmpls = []template.Template{}
	}
	return ctx.JSON(http.StatusOK, tmpls)
}

func (api *templateApi) aqlCriteria(ctx echo.Context) error {
	var data AQLCriteriaRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AQLCriteriaRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inspection.CalculateAQLCriteria(data.LotSize, data.AQLLevel))
}

func (api *templateApi) retrieve(ctx echo.Context) error {
	tmpl, err := api.deps.TemplateSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) update(ctx echo.Context) error {
	var data template.UpdateTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTemplate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tmpl, err := api.deps.TemplateSvc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) destroy(ctx echo.Context) error {
	if err := api.deps.TemplateSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting template")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *templateApi) publish(ctx echo.Context) error {
	tmpl, err := api.deps.TemplateSvc.Publish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) updateAQL(ctx echo.Context) error {
	var data template.AQLConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AQLConfig")
	}

	tmpl, err := api.deps.TemplateSvc.UpdateAQLConfig(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

// Builder mutation handlers. Rejected operations return the unchanged
// template with 200; the editor state simply stays as-is.

func (api *templateApi) addTitleField(ctx echo.Context) error {
	var data template.NewTitleField
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTitleField")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	tmpl, err := api.deps.TemplateSvc.AddTitleField(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) removeTitleField(ctx echo.Context) error {
	tmpl, err := api.deps.TemplateSvc.RemoveTitleField(ctx.Request().Context(), ctx.Param("id"), ctx.Param("fieldID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) moveTitleField(ctx echo.Context) error {
	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tmpl, err := api.deps.TemplateSvc.MoveTitleField(ctx.Request().Context(), ctx.Param("id"), data.Index, template.Direction(data.Direction))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) reorderTitleField(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	tmpl, err := api.deps.TemplateSvc.ReorderTitleField(ctx.Request().Context(), ctx.Param("id"), ctx.Param("fieldID"), data.Target)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) addPage(ctx echo.Context) error {
	var data AddPageRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddPageRequest")
	}

	tmpl, err := api.deps.TemplateSvc.AddPage(ctx.Request().Context(), ctx.Param("id"), data.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) removePage(ctx echo.Context) error {
	tmpl, err := api.deps.TemplateSvc.RemovePage(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) movePage(ctx echo.Context) error {
	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tmpl, err := api.deps.TemplateSvc.MovePage(ctx.Request().Context(), ctx.Param("id"), data.Index, template.Direction(data.Direction))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) reorderPage(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	tmpl, err := api.deps.TemplateSvc.ReorderPage(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"), data.Target)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) addQuestion(ctx echo.Context) error {
	var data template.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	tmpl, err := api.deps.TemplateSvc.AddQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) removeQuestion(ctx echo.Context) error {
	tmpl, err := api.deps.TemplateSvc.RemoveQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"), ctx.Param("questionID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) moveQuestion(ctx echo.Context) error {
	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tmpl, err := api.deps.TemplateSvc.MoveQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"), data.Index, template.Direction(data.Direction))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *templateApi) reorderQuestion(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	tmpl, err := api.deps.TemplateSvc.ReorderQuestion(ctx.Request().Context(), ctx.Param("id"), ctx.Param("pageID"), ctx.Param("questionID"), data.Target)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tmpl)
}

type (
	// MoveRequest nudges the element at Index one step in Direction.
	MoveRequest struct {
		Index     int    `json:"index"`
		Direction string `json:"direction" validate:"required,oneof=up down"`
	}

	// ReorderRequest drops a dragged element at the Target position.
	ReorderRequest struct {
		Target int `json:"target"`
	}

	AddPageRequest struct {
		Title string `json:"title"`
	}

	AQLCriteriaRequest struct {
		LotSize  int     `query:"lot_size" validate:"required,min=1"`
		AQLLevel float64 `query:"aql_level"`
	}
)

func (mr *MoveRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(mr)
}

func (cr *AQLCriteriaRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}
