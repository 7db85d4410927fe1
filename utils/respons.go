package utils

import "github.com/gin-gonic/gin"

// RespondJSON writes the payload as the response body.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// RespondError writes the {error: string} failure shape every endpoint uses.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}
