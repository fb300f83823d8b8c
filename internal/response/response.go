package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the reply envelope shared with the platform's own convention:
// ec 200 acknowledges a webhook, ec 500 reports a processing failure, and
// data carries payloads on the admin surface.
type Body struct {
	EC   int         `json:"ec"`
	EM   string      `json:"em"`
	Data interface{} `json:"data,omitempty"`
}

// OK acknowledges with an empty message
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, Body{EC: 200, EM: ""})
}

// OKMessage acknowledges with an informational message
func OKMessage(c *gin.Context, em string) {
	c.JSON(http.StatusOK, Body{EC: 200, EM: em})
}

// OKData returns a payload
func OKData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{EC: 200, EM: "", Data: data})
}

// ServerError reports a processing failure
func ServerError(c *gin.Context, em string) {
	c.JSON(http.StatusInternalServerError, Body{EC: 500, EM: em})
}

// Error reports a failure with an explicit HTTP status
func Error(c *gin.Context, status int, em string) {
	c.JSON(status, Body{EC: status, EM: em})
}
