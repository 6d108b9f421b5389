package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized text.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED" // logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden  = "AUTHZ_FORBIDDEN"
	AuthzFarmerOnly = "AUTHZ_FARMER_ONLY"
	AuthzOwnerOnly  = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationTooShort      = "VALIDATION_TOO_SHORT"
	ValidationTooLong       = "VALIDATION_TOO_LONG"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== User (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== Location (LOCATION_) ====================
	LocationNotFound = "LOCATION_NOT_FOUND"
	LocationInUse    = "LOCATION_IN_USE" // referenced by users or products

	// ==================== Category (CATEGORY_) ====================
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	CategoryInUse       = "CATEGORY_IN_USE"
	SubCategoryNotFound = "SUBCATEGORY_NOT_FOUND"
	SubCategoryInUse    = "SUBCATEGORY_IN_USE"
	SubCategoryMismatch = "SUBCATEGORY_MISMATCH" // subcategory of another category

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Media (MEDIA_) ====================
	MediaNotFound = "MEDIA_NOT_FOUND"

	// ==================== Review (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewSelf          = "REVIEW_SELF"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Message (MESSAGE_) ====================
	MessageNotFound = "MESSAGE_NOT_FOUND"

	// ==================== Notification (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
