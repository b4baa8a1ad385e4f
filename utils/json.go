package utils

import "github.com/gin-gonic/gin"

// Success writes a success JSON response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

// Fail writes an error JSON response.
func Fail(c *gin.Context, err error) {
	c.JSON(400, gin.H{
		"code": -1,
		"msg":  err.Error(),
	})
}

// FailCode writes an error JSON response with an explicit code, used
// by the upload boundary where clients dispatch on 403/404/500.
func FailCode(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
		"code":    code,
	})
}
