package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/namsos-athenaeum/athenaeum/internal/dto"
	"github.com/namsos-athenaeum/athenaeum/internal/views"
	"go.uber.org/zap"
)

const internalErrorMessage = "Noe gikk galt. Vennligst prøv igjen senere."

// ErrorHandler renders errors as an HTML error page, or as JSON when the
// client asked for it.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := internalErrorMessage

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
			_ = c.JSON(code, dto.ErrorResponse{Message: msg})
			return
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if err := views.ErrorPage(code, msg).Render(c.Request().Context(), c.Response()); err != nil {
			log.Warn("render error page", zap.Error(err))
		}
	}
}
