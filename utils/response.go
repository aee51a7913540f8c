package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success responses carry {"success": true, "data": ...}; errors carry
// {"success": false, "message": ...}. List responses add pagination fields at
// the top level.

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func JSON200WithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func JSON201(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func JSON200List(c *gin.Context, data interface{}, count int, total int64, page, pages int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   count,
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    data,
	})
}

func JSON400(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func JSON401(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

func JSON403(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"success": false, "message": message})
}

func JSON404(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}

func JSON500(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": message})
}
