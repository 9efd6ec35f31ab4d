package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core"
	"github.com/groupstudy/server/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	g := e.Group("/assignments")

	// un-authed endpoints
	g.GET("", api.query)
	g.GET("/search", api.search)
	g.GET("/difficulty/:level", api.filterByDifficulty)
	g.GET("/:id", api.retrieve)
	g.POST("", api.create)
	g.DELETE("/:id", api.destroy)

	// authed endpoints
	g.PUT("/:id", api.update, jwt)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}

	return ctx.JSON(http.StatusCreated, CreateAssignmentResponse{
		Message:      "Assignment created successfully",
		AssignmentID: a.ID,
	})
}

func (api *assignmentApi) query(ctx echo.Context) error {
	assignments, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) search(ctx echo.Context) error {
	q := core.CleanString(ctx.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query is required")
	}

	assignments, err := api.svc.Search(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "searching assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) filterByDifficulty(ctx echo.Context) error {
	assignments, err := api.svc.FilterByDifficulty(ctx.Request().Context(), ctx.Param("level"))
	if err != nil {
		return errors.Wrap(err, "filtering assignments by difficulty")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return errHttpInvalidID
	}

	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding assignment by id")
	}
	return ctx.JSON(http.StatusOK, a)
}

// update applies a full-field replacement at the given id. An unknown id is
// not an error: a document is created at that id (upsert-on-missing).
func (api *assignmentApi) update(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return errHttpInvalidID
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Upsert(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "upserting assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return errHttpInvalidID
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Assignment deleted successfully"})
}

type (
	CreateAssignmentResponse struct {
		Message      string             `json:"message"`
		AssignmentID primitive.ObjectID `json:"assignmentId"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
