package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/namsos-athenaeum/athenaeum/pkg/accesslog"
	"go.uber.org/zap"
)

type AccessWriter interface {
	WriteEntry(e accesslog.Entry) error
}

// RequestLog logs every request to zap and, when access is non-nil, to the
// access log file.
func RequestLog(log *zap.Logger, access AccessWriter) echo.MiddlewareFunc {
	return echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		HandleError:  true,
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogProtocol:  true,
		LogReferer:   true,
		LogUserAgent: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)

			if access == nil {
				return nil
			}
			size := c.Response().Header().Get(echo.HeaderContentLength)
			if size == "" && c.Response().Size > 0 {
				size = strconv.FormatInt(c.Response().Size, 10)
			}
			entry := accesslog.Entry{
				ForwardedFor:   c.Request().Header.Get(echo.HeaderXForwardedFor),
				Time:           v.StartTime,
				Method:         v.Method,
				URI:            v.URI,
				Proto:          v.Protocol,
				Status:         v.Status,
				ContentLength:  size,
				Latency:        v.Latency,
				Referer:        v.Referer,
				AcceptLanguage: c.Request().Header.Get("Accept-Language"),
				UserAgent:      v.UserAgent,
			}
			if err := access.WriteEntry(entry); err != nil {
				log.Warn("write access log", zap.Error(err))
			}
			return nil
		},
	})
}
