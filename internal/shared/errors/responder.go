package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "X-Request-ID"

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details, consulting its mappers before the generic fallbacks.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

type ResponderOption func(*Responder)

// WithBaseURI is prepended to relative problem type URIs.
func WithBaseURI(uri string) ResponderOption {
	return func(r *Responder) {
		r.baseURI = uri
	}
}

// WithMappers appends error mappers; the first match wins.
func WithMappers(mappers ...ErrorMapper) ResponderOption {
	return func(r *Responder) {
		r.mappers = append(r.mappers, mappers...)
	}
}

// WithLogger sets the logger for server-side problems. Defaults to slog.Default at response time.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) {
		r.logger = logger
	}
}

func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultResponder = NewResponder()

// Respond sends a ProblemDetail with the request path as instance and the correlation id as an extension.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	requestID := c.GetString(RequestIDKey)
	if requestID != "" {
		problem = problem.WithExtension("requestId", requestID)
	}
	if problem.Status >= 500 {
		r.log().LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
			slog.Int("status", problem.Status),
			slog.String("instance", problem.Instance),
			slog.String("request.id", requestID),
			slog.String("detail", problem.Detail))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err through the mappers. Unmapped errors that already are problems pass
// through, a blown deadline becomes 504, and anything else is a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	switch {
	case errors.As(err, &problem):
		r.Respond(c, problem)
	case errors.Is(err, context.DeadlineExceeded):
		r.Respond(c, ErrGatewayTimeout.WithDetail(err.Error()))
	default:
		r.Respond(c, ErrInternal.WithDetail(err.Error()))
	}
}

func (r *Responder) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Respond writes problem with the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	defaultResponder.Respond(c, problem)
}
