package marketplaceserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	clusterdomain "github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
	ordersapp "github.com/minglemakers/minglemakers-api/internal/domains/orders/application"
	orderdomain "github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	orderports "github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	apierrors "github.com/minglemakers/minglemakers-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", mapOrderError, mapClusterError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError maps application errors to problem details; unknown errors become 500s.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrStatusConflict):
		return apierrors.ErrStatusConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrAlreadyExists):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrCorruptOrder), errors.Is(err, orderdomain.ErrUnknownStatus):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapClusterError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, clusterdomain.ErrEmptyClusterID) || errors.Is(err, clusterdomain.ErrInvalidCoordinates) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
