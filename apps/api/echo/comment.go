package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core/comment"
	"github.com/trezcool/tesina/core/task"
)

type commentApi struct {
	svc      comment.ServiceInterface
	validate *validator.Validate
}

func registerCommentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc comment.ServiceInterface, validate *validator.Validate) {
	api := commentApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/comments", jwt)
	cg.POST("/:taskID", api.create)
	cg.GET("/:taskID/user/:userID", api.list)
}

// Handlers

func (api *commentApi) create(ctx echo.Context) error {
	var data comment.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	// input validation runs before the task is even looked up
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	taskID, err := strconv.Atoi(ctx.Param("taskID"))
	if err != nil {
		return errHttpNotFound
	}

	if _, err := api.svc.Add(taskID, data); err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, task.ErrNotFound.Error())
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, MessageResponse{Message: "comment added"})
}

func (api *commentApi) list(ctx echo.Context) error {
	taskID, err := strconv.Atoi(ctx.Param("taskID"))
	if err != nil {
		return errHttpNotFound
	}
	userID, err := strconv.Atoi(ctx.Param("userID"))
	if err != nil {
		return errHttpNotFound
	}

	views, err := api.svc.ListForTaskUser(taskID, userID)
	if err != nil {
		if errors.Cause(err) == comment.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, comment.ErrNotFound.Error())
		}
		return err
	}
	return ctx.JSON(http.StatusOK, views)
}
