package handlers_test

import "github.com/gin-gonic/gin"

// newTestRouter returns a bare engine to mount the handler under test on.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
