package middleware

import (
	"io"
	"time"

	"wiz-academy/common"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoggerConfig struct {
	// SkipPaths is an url path array which logs are not written.
	SkipPaths []string
}

// LoggingMiddleware writes one structured line per request through the service logger.
func (m *middlewares) LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc {
	var conf LoggerConfig
	if len(config) > 0 {
		conf = config[0]
	} else {
		conf = LoggerConfig{SkipPaths: []string{"/health", "/metrics"}}
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: conf.SkipPaths,
		Formatter: func(param gin.LogFormatterParams) string {
			latency := param.Latency
			if latency > time.Minute {
				latency = latency.Truncate(time.Second)
			}

			fields := []log.Field{
				log.Method(param.Method),
				log.String("path", param.Path),
				log.StatusCode(param.StatusCode),
				log.Duration("latency", latency),
				log.String("client_ip", param.ClientIP),
				log.String("user_agent", param.Request.UserAgent()),
				log.Int("body_size", param.BodySize),
			}
			if requestID, ok := param.Keys[common.RequestIDContextKey].(string); ok {
				fields = append(fields, log.RequestID(requestID))
			}
			if param.ErrorMessage != "" {
				fields = append(fields, log.String("error", param.ErrorMessage))
			}

			switch {
			case param.StatusCode >= 500:
				m.logger.Error("HTTP Request", fields...)
			case param.StatusCode >= 400:
				m.logger.Warn("HTTP Request", fields...)
			default:
				m.logger.Info("HTTP Request", fields...)
			}
			return ""
		},
		Output: io.Discard,
	})
}

// RequestIDMiddleware propagates X-Request-ID, generating one when the caller sent none.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeader, requestID)
		c.Set(common.RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
