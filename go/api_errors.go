package adminserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/storefront-admin/internal/domains/orders/application"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-admin/internal/shared/errors"
)

var responder = apierrors.NewResponder(apierrors.WithMappers(orderProblem))

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondOrderServiceError turns an orders service error into an RFC 7807 response.
func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// orderProblem checks credentials first: a failed mutation may wrap an unauthorized backend answer.
func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrRejected):
		return apierrors.ErrConflict.WithDetail(err.Error()).WithExtension("reason", rejectionReason(err)), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrMutationFailed):
		return apierrors.ErrBadGateway.WithDetail(err.Error()).WithExtension("resynced", true), true
	case errors.Is(err, ports.ErrBackendUnavailable), errors.Is(err, ports.ErrBackendRejected):
		return apierrors.ErrBadGateway.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, application.ErrMutationInFlight):
		return "mutation_in_flight"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, domain.ErrPaymentLocked):
		return "payment_locked"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "rejected"
	}
}
