package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter        ErrorCode = 100
	ErrCodeInvalidConfiguration    ErrorCode = 101
	ErrCodeInsufficientData        ErrorCode = 106
	ErrCodeInvalidType             ErrorCode = 107
	ErrCodeInvalidPeriod           ErrorCode = 108
	ErrCodeMissingParameter        ErrorCode = 109
	ErrCodeInvalidVersion          ErrorCode = 110
	ErrCodeInvalidThreshold        ErrorCode = 112
	ErrCodeInvalidStdDevMultiplier ErrorCode = 113

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeMissingColumn         ErrorCode = 206
	ErrCodeUnorderedData         ErrorCode = 207
	ErrCodeWriteFailed           ErrorCode = 208

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Engine errors (600-699)
	ErrCodeEngineNotInitialized ErrorCode = 600
	ErrCodeCancelled            ErrorCode = 601
	ErrCodeEngineNoDataPaths    ErrorCode = 602
	ErrCodeEngineNoOutput       ErrorCode = 603
)
