package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core"
	"github.com/groupstudy/server/core/submission"
)

var errHttpAlreadyTaken = echo.NewHTTPError(http.StatusConflict, "assignment is already taken")

type submissionApi struct {
	svc      *submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc *submission.Service, validate *validator.Validate) {
	api := submissionApi{svc: svc, validate: validate}

	g := e.Group("/submissions")

	// un-authed endpoints
	g.POST("", api.create)
	g.PATCH("/:id", api.update)

	// authed endpoints, scoped to the owning email
	g.GET("/by-email/:email", api.querySubmitted, jwt, ownerMiddleware())
	g.GET("/pending/:email", api.queryPending, jwt, ownerMiddleware())
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case submission.ErrInvalidID:
			return core.NewValidationError(nil, core.FieldError{Field: "assignmentId", Error: submission.ErrInvalidID.Error()})
		case submission.ErrAlreadySubmitted:
			return errHttpAlreadyTaken
		}
		return errors.Wrap(err, "creating submission")
	}

	return ctx.JSON(http.StatusCreated, CreateSubmissionResponse{
		Message:      "Submission created successfully",
		SubmissionID: s.ID,
	})
}

func (api *submissionApi) querySubmitted(ctx echo.Context) error {
	email := core.CleanString(ctx.Param("email"), true /* lower */)
	submissions, err := api.svc.FilterBySubmitter(ctx.Request().Context(), email)
	if err != nil {
		return errors.Wrap(err, "querying submissions by submitter")
	}
	if submissions == nil {
		submissions = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, submissions)
}

func (api *submissionApi) queryPending(ctx echo.Context) error {
	email := core.CleanString(ctx.Param("email"), true /* lower */)
	submissions, err := api.svc.FilterPending(ctx.Request().Context(), email)
	if err != nil {
		return errors.Wrap(err, "querying pending submissions")
	}
	if submissions == nil {
		submissions = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, submissions)
}

// update applies a partial update; grading sets marks, feedback and
// status=completed in a single call.
func (api *submissionApi) update(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return errHttpInvalidID
	}

	var data submission.UpdateSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.IsZero() {
		return core.NewValidationError(errors.New("update data is required"))
	}

	s, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating submission")
	}
	return ctx.JSON(http.StatusOK, s)
}

type CreateSubmissionResponse struct {
	Message      string             `json:"message"`
	SubmissionID primitive.ObjectID `json:"submissionId"`
}
