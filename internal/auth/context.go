package auth

import "github.com/gin-gonic/gin"

const subjectKey = "apiSubject"

// GetSubject returns the authenticated API client's name or empty string.
func GetSubject(c *gin.Context) string {
	if v, ok := c.Get(subjectKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
