package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError writes a business error with its mapped status; anything else is
// reported as an internal error under fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusFor(err), be.Code, messages[be.Kind])
		return
	}
	_ = c.Error(err)
	Internal(c, fallbackCode, "Internal error.")
}

var messages = map[Kind]string{
	KindValidation:          "Invalid request.",
	KindNotFound:            "Resource not found.",
	KindNoCandidateResource: "No candidate resource available.",
	KindNoFeasibleSlot:      "No feasible slot in the search window.",
	KindInvalidState:        "Operation not allowed in the current state.",
	KindConflict:            "The schedule changed concurrently.",
}

// IsExclusionConflict reports Postgres exclusion or unique violations, which
// the appointment tables raise when two writers book the same interval.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
