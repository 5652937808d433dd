package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/search"
	"github.com/hachrisjordan/newroutebuilder-sub001/web/model"
)

type SearchHandler struct {
	engine   *search.Engine
	validate *validator.Validate
}

func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Search composes itineraries for one request and returns them together
// with the shareable result key.
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.engine.ComposeItineraries(ctx, req.ToRequest())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Project filters, sorts and paginates a previously composed result.
func (h *SearchHandler) Project(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, metadata, err := h.engine.Project(ctx, req.Key, req.Options()...)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, model.ProjectResponse{
		Page:     page,
		Metadata: metadata,
	})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, search.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, search.ErrAirportNotFound), errors.Is(err, search.ErrNoRoute), errors.Is(err, search.ErrResultNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusRequestTimeout, err)

	default:
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
}
