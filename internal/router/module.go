package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (auth, checklists, debug metrics) that knows
// how to register its own routes on the shared /api group
type Module interface {
	Register(rg *gin.RouterGroup)
}
