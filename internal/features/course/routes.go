package course

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches course endpoints to the router. The authenticated
// middleware must run first so every handler sees a principal; role and
// ownership checks live in the handlers themselves.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated gin.HandlerFunc) {
	courses := router.Group("/courses", authenticated)

	courses.GET("", handler.List)
	courses.GET("/enrolled", handler.Enrolled)
	courses.GET("/my-courses", handler.MyCourses)
	courses.GET("/:id", handler.GetByID)
	courses.GET("/:id/students", handler.Students)
	courses.POST("", handler.Create)
	courses.POST("/:id/enroll", handler.Enroll)
	courses.PUT("/:id", handler.Update)
	courses.DELETE("/:id", handler.Delete)
}
