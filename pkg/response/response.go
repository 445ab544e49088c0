// Package response 统一 HTTP 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 响应体
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// PageData 分页数据
type PageData struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

// Success 200 成功响应
func Success(c *gin.Context, data any) {
	SuccessWithStatus(c, http.StatusOK, data)
}

// SuccessWithStatus 指定状态码的成功响应
func SuccessWithStatus(c *gin.Context, status int, data any) {
	c.JSON(status, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, items any, total int64) {
	Success(c, PageData{Items: items, Total: total})
}

// ErrorWithStatus 错误响应并中止后续 handler
func ErrorWithStatus(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    status,
		Message: message,
		Details: details,
	})
}
