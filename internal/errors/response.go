package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // Turkish, user facing
}

// Default messages for codes that are answered the same way everywhere
var defaultMessages = map[string]string{
	AuthUnauthorized:    "Giriş yapmanız gerekiyor",
	AuthTokenInvalid:    "Geçersiz oturum anahtarı",
	AuthTokenExpired:    "Oturum süresi doldu",
	AuthTokenRevoked:    "Oturum sonlandırıldı",
	AuthzForbidden:      "Bu işlem için yetkiniz yok",
	AuthzOwnerOnly:      "Bu ürün üzerinde yalnızca sahibi işlem yapabilir",
	AuthzFarmerOnly:     "Yalnızca çiftçiler ürün ekleyebilir",
	InternalServerError: "Sunucu hatası oluştu. Lütfen daha sonra tekrar deneyin",
}

// RespondWithError writes the error body. An empty message falls back to the
// code's default text when one is registered.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	if message == "" {
		message = defaultMessages[errorCode]
	}
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithInfo writes a parsed database error with the status its code implies
func RespondWithInfo(c *gin.Context, info ErrorInfo) {
	RespondWithError(c, StatusFor(info.Code), info.Code, info.Message)
}

// StatusFor maps the generic codes produced by ParseError to an HTTP status
func StatusFor(code string) int {
	switch code {
	case ResourceNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, AuthEmailAlreadyExists, ReviewAlreadyExists:
		return http.StatusConflict
	case ValidationRequired, ValidationInvalidInput, ValidationInvalidFormat, ReviewInvalidRating:
		return http.StatusBadRequest
	case InternalExternalAPI:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

// OwnerOnly rejects a change to a product the caller does not own
func OwnerOnly(c *gin.Context) {
	RespondWithError(c, http.StatusForbidden, AuthzOwnerOnly, "")
}

// FarmerOnly rejects a buyer on a farmer route
func FarmerOnly(c *gin.Context) {
	RespondWithError(c, http.StatusForbidden, AuthzFarmerOnly, "")
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func TooLarge(c *gin.Context, message string) {
	RespondWithError(c, http.StatusRequestEntityTooLarge, UploadFileTooLarge, message)
}

func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Girilen bilgiler geçersiz",
		Fields:  fields,
	})
}
