package api

import (
	"github.com/Lllllllleong/passscan/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxMultipartMemory is how much of a scan upload is held in memory before spilling to disk.
const maxMultipartMemory = 32 << 20

// NewRouter builds the gin engine for the scan API.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	router.GET("/", h.Info)
	router.GET("/health", h.Health)
	router.POST("/scan", h.Scan)

	return router
}
