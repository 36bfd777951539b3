package route

import (
	"github.com/gin-gonic/gin"
)

type CommandHandler interface {
	Dispatch(c *gin.Context)
	GetResult(c *gin.Context)
}

func RegisterCommandRoutes(g *gin.RouterGroup, h CommandHandler) {
	g.GET("/results/:id", h.GetResult)
	g.POST("/:resource/:action", h.Dispatch)
}
