package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a code plus the message shown to the user
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a database error to a user-facing code and message without
// leaking driver details. Both postgres and sqlite error texts are recognized.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Sunucu hatası oluştu",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 23505
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 23503
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	// 23502
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Zorunlu alanlar eksik",
		}
	}

	// 23514
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStrLower)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Harici servise bağlanılamadı. Lütfen daha sonra tekrar deneyin",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Bu e-posta adresi zaten kullanımda",
		}
	}

	if strings.Contains(errLower, "idx_review_pair") || strings.Contains(errLower, "reviews.") {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "Bu kullanıcıyı zaten değerlendirdiniz",
		}
	}

	if strings.Contains(errLower, "idx_location_triple") || strings.Contains(errLower, "locations.") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Bu konum zaten kayıtlı",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Bu kayıt zaten mevcut",
	}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Bağlı kayıtlar olduğu için silinemez",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    UserNotFound,
			Message: "Kullanıcı bulunamadı",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "Ürün bulunamadı",
		}
	}

	// sqlite does not name the constraint
	if strings.Contains(strings.ToLower(context), "delete") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Bağlı kayıtlar olduğu için silinemez",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "İlişkili kayıt bulunamadı",
	}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "Puan 1 ile 5 arasında olmalıdır",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidRange,
		Message: "Girilen değer geçerli aralıkta değil",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "subcategory"):
		return "Alt kategori bulunamadı"
	case strings.Contains(contextLower, "category"):
		return "Kategori bulunamadı"
	case strings.Contains(contextLower, "user"):
		return "Kullanıcı bulunamadı"
	case strings.Contains(contextLower, "location"):
		return "Konum bulunamadı"
	case strings.Contains(contextLower, "product"):
		return "Ürün bulunamadı"
	case strings.Contains(contextLower, "media"):
		return "Medya bulunamadı"
	case strings.Contains(contextLower, "review"):
		return "Değerlendirme bulunamadı"
	case strings.Contains(contextLower, "message"):
		return "Mesaj bulunamadı"
	case strings.Contains(contextLower, "notification"):
		return "Bildirim bulunamadı"
	}

	return "İstenen kayıt bulunamadı"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Kayıt oluşturulurken bir hata oluştu. Lütfen daha sonra tekrar deneyin"
	case strings.Contains(contextLower, "update"):
		return "Güncelleme sırasında bir hata oluştu. Lütfen daha sonra tekrar deneyin"
	case strings.Contains(contextLower, "delete"):
		return "Silme sırasında bir hata oluştu. Lütfen daha sonra tekrar deneyin"
	}

	return "Sunucu hatası oluştu. Lütfen daha sonra tekrar deneyin"
}

// ParseAndRespond writes err as the response body with the status its
// parsed code implies
func ParseAndRespond(c *gin.Context, err error, context string) {
	RespondWithInfo(c, ParseError(err, context))
}
