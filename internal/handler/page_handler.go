package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/namsos-athenaeum/athenaeum/internal/dto"
	"github.com/namsos-athenaeum/athenaeum/internal/views"
)

type PageHandler struct {
	siteKey   string
	resources []string
}

func NewPageHandler(siteKey string, resources []string) *PageHandler {
	return &PageHandler{siteKey: siteKey, resources: resources}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.static(views.Forside))
	e.GET("/kalender", h.static(views.Kalender))
	e.GET("/vilkaar", h.static(views.Vilkaar))
	e.GET("/lokalene", h.static(views.Lokalene))
	e.GET("/priser", h.static(views.Priser))
	e.GET("/kontaktskjema", h.ContactForm)
	e.GET("/health", h.Health)
}

func (h *PageHandler) static(page func() templ.Component) echo.HandlerFunc {
	return func(c echo.Context) error {
		return render(c, http.StatusOK, page())
	}
}

func (h *PageHandler) ContactForm(c echo.Context) error {
	return render(c, http.StatusOK, views.Kontaktskjema(h.siteKey, h.resources))
}

func (h *PageHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
