package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the response envelope of every API endpoint. Failures carry
// data.message.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Data: gin.H{"message": message}})
}
