// Package response 提供统一的 HTTP 响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/catalogmarket/pkg/errs"
)

// Success 返回 200 和数据
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 返回 201 和数据
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Message 返回 200 和提示信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Error 根据错误类别返回对应状态码
func Error(c *gin.Context, err error) {
	c.JSON(errs.HTTPStatus(err), gin.H{"message": err.Error()})
}

// ErrorWithStatus 返回指定状态码的错误
func ErrorWithStatus(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
