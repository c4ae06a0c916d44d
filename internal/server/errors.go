package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	documentdomain "github.com/veloship/veloship/internal/document/domain"
	notificationdomain "github.com/veloship/veloship/internal/notification/domain"
	paymentdomain "github.com/veloship/veloship/internal/payment/domain"
	quotedomain "github.com/veloship/veloship/internal/quote/domain"
	shipmentdomain "github.com/veloship/veloship/internal/shipment/domain"
	"github.com/veloship/veloship/internal/transition"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isTransitionDenied(err):
		return http.StatusConflict, errorPayload{
			Type:    "transition_denied",
			Message: err.Error(),
		}
	case errors.Is(err, customerdomain.ErrEmailTaken):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// isTransitionDenied covers the lifecycle rules: a denied transition is
// a conflict with current state, not a malformed request.
func isTransitionDenied(err error) bool {
	return errors.Is(err, transition.ErrNotAllowed) ||
		errors.Is(err, transition.ErrTerminal)
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, transition.ErrUnknownStatus),
		errors.Is(err, transition.ErrReasonTooShort),
		errors.Is(err, activitydomain.ErrInvalidAction),
		errors.Is(err, quotedomain.ErrQuoteExpired),
		errors.Is(err, paymentdomain.ErrRefundTooLarge):
		return true
	case isBookingValidationError(err),
		isCustomerValidationError(err),
		isQuoteValidationError(err),
		isPaymentValidationError(err),
		isDocumentValidationError(err),
		isShipmentValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, bookingdomain.ErrNotFound),
		errors.Is(err, quotedomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, shipmentdomain.ErrNotFound),
		errors.Is(err, notificationdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isBookingValidationError(err error) bool {
	switch err {
	case bookingdomain.ErrInvalidCustomer,
		bookingdomain.ErrInvalidAmount,
		bookingdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch err {
	case customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidEmail,
		customerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isQuoteValidationError(err error) bool {
	switch err {
	case quotedomain.ErrInvalidCustomer,
		quotedomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidBooking,
		paymentdomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidBooking,
		documentdomain.ErrInvalidType,
		documentdomain.ErrInvalidFile:
		return true
	default:
		return false
	}
}

func isShipmentValidationError(err error) bool {
	switch err {
	case shipmentdomain.ErrInvalidBooking,
		shipmentdomain.ErrInvalidLocation:
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}
