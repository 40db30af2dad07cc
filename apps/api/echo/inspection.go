package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core/inspection"
	"github.com/streamlineer/streamlineer/core/user"
)

type inspectionApi struct {
	deps ServerDeps
}

func registerInspectionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := inspectionApi{deps: deps}

	ig := g.Group("/inspections", jwt)

	ig.POST("/assign", api.assign, roleMiddleware(user.RoleManager))
	ig.GET("/assigned", api.listAssigned, roleMiddleware(user.RoleInspector))
	ig.GET("/pending-reviews", api.pendingReviews, roleMiddleware(user.RoleManager))
	ig.GET("/completed", api.listCompleted)

	dg := ig.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/submit", api.submit)
	dg.POST("/approve", api.approve, roleMiddleware(user.RoleManager))
	dg.GET("/aql-results", api.aqlResults)
}

// Handlers

func (api *inspectionApi) assign(ctx echo.Context) error {
	var data inspection.AssignInspection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignInspection")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	mgr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insp, err := api.deps.InspectionSvc.Assign(ctx.Request().Context(), mgr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, insp)
}

func (api *inspectionApi) listAssigned(ctx echo.Context) error {
	inspector, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insps, err := api.deps.InspectionSvc.ListAssigned(ctx.Request().Context(), inspector)
	if err != nil {
		return errors.Wrap(err, "listing assigned inspections")
	}
	if insps == nil {
		insps = []inspection.Inspection{}
	}
	return ctx.JSON(http.StatusOK, insps)
}

func (api *inspectionApi) pendingReviews(ctx echo.Context) error {
	mgr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insps, err := api.deps.InspectionSvc.PendingReviews(ctx.Request().Context(), mgr)
	if err != nil {
		return errors.Wrap(err, "listing pending reviews")
	}
	if insps == nil {
		insps = []inspection.Inspection{}
	}
	return ctx.JSON(http.StatusOK, insps)
}

func (api *inspectionApi) listCompleted(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insps, err := api.deps.InspectionSvc.Completed(ctx.Request().Context(), ctxUsr)
	if err != nil {
		return errors.Wrap(err, "listing completed inspections")
	}
	if insps == nil {
		insps = []inspection.Inspection{}
	}
	return ctx.JSON(http.StatusOK, insps)
}

func (api *inspectionApi) retrieve(ctx echo.Context) error {
	insp, err := api.deps.InspectionSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, insp)
}

func (api *inspectionApi) submit(ctx echo.Context) error {
	var data inspection.SubmitInspection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitInspection")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insp, err := api.deps.InspectionSvc.Submit(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, insp)
}

func (api *inspectionApi) approve(ctx echo.Context) error {
	mgr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	insp, err := api.deps.InspectionSvc.Approve(ctx.Request().Context(), mgr, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, insp)
}

func (api *inspectionApi) aqlResults(ctx echo.Context) error {
	insp, err := api.deps.InspectionSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, AQLResultsResponse{
		InspectionID:     insp.ID,
		Passed:           insp.AQLPassed,
		DefectCounts:     insp.DefectCounts,
		RejectionReasons: insp.AQLRejectionReasons,
		Results:          insp.AQLResults,
	})
}

type AQLResultsResponse struct {
	InspectionID     string                      `json:"inspection_id"`
	Passed           bool                        `json:"passed"`
	DefectCounts     inspection.DefectCounts     `json:"defect_counts"`
	RejectionReasons inspection.RejectionReasons `json:"rejection_reasons"`
	Results          inspection.AQLResult        `json:"aql_results"`
}
