package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WrapError 以預定義錯誤為模板包裝原始錯誤
func WrapError(template *CustomError, err error) *CustomError {
	return &CustomError{
		Code:    template.Code,
		Message: template.Message,
		Status:  template.Status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsErrorCode 檢查錯誤是否帶有指定代碼
func IsErrorCode(err error, code string) bool {
	if ce, ok := AsCustomError(err); ok {
		return ce.Code == code
	}
	return false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503

	// 輸入錯誤（不可重試，直接回報呼叫方）
	ErrCodeEmptyInventory = "EMPTY_INVENTORY" // 409：冰箱沒有可用食材
	ErrCodeNoSession      = "NO_SESSION"      // 404：用戶沒有進行中的對話
	ErrCodeSessionExpired = "SESSION_EXPIRED" // 410：修改次數達到上限
	ErrCodeMalformedDraft = "MALFORMED_DRAFT" // 502：AI 回傳的食譜無法解析
	ErrCodeMalformedScan  = "MALFORMED_SCAN"  // 502：收據辨識結果無法解析
	ErrCodeNoUsedItems    = "NO_USED_ITEMS"   // 422：食譜沒有列出要扣除的食材

	// 協作方錯誤（網路或服務失敗）
	ErrCodeAIService = "AI_SERVICE_ERROR" // 503：生成服務失敗
	ErrCodeStore     = "STORE_ERROR"      // 503：遠端資料庫失敗
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrRequestTooLarge = NewError(ErrCodeRequestTooLarge, "請求體過大", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)

	// 業務錯誤：輸入錯誤
	ErrEmptyInventory = NewError(ErrCodeEmptyInventory, "冰箱是空的，沒有可用食材", http.StatusConflict, nil)
	ErrNoSession      = NewError(ErrCodeNoSession, "用戶沒有進行中的食譜對話", http.StatusNotFound, nil)
	ErrSessionExpired = NewError(ErrCodeSessionExpired, "食譜修改次數已達上限", http.StatusGone, nil)
	ErrMalformedDraft = NewError(ErrCodeMalformedDraft, "AI 回傳的食譜格式無法解析", http.StatusBadGateway, nil)
	ErrMalformedScan  = NewError(ErrCodeMalformedScan, "收據辨識結果無法解析", http.StatusBadGateway, nil)
	ErrNoUsedItems    = NewError(ErrCodeNoUsedItems, "食譜沒有列出要扣除的食材", http.StatusUnprocessableEntity, nil)

	// 業務錯誤：協作方錯誤
	ErrAIService = NewError(ErrCodeAIService, "AI 服務錯誤", http.StatusServiceUnavailable, nil)
	ErrStore     = NewError(ErrCodeStore, "遠端資料庫錯誤", http.StatusServiceUnavailable, nil)
)

// 快取哨兵錯誤（內部流程控制，不對外暴露）
var (
	ErrCacheMiss = errors.New("cache miss")
	ErrCacheFull = errors.New("cache full")
)

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
