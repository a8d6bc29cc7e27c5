package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/namsos-athenaeum/athenaeum/internal/dto"
	"github.com/namsos-athenaeum/athenaeum/internal/service"
	"github.com/namsos-athenaeum/athenaeum/internal/views"
)

type SubmissionHandler struct {
	svc service.SubmissionService
}

func NewSubmissionHandler(svc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/skjema", h.Submit)
}

// Submit answers every decided submission with the result page, accepted or not.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var form dto.SubmissionForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Ugyldig skjema")
	}

	decision, err := h.svc.Submit(c.Request().Context(), form.ToBookingRequest(c.RealIP()))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedMode) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Tjenesten er feilkonfigurert").SetInternal(err)
		}
		return err
	}

	return render(c, http.StatusOK, views.Tilbakemelding(dto.ToResultPage(decision)))
}
