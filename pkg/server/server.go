// Package server exposes the document generators over a small gin HTTP
// surface.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proposalgen/pkg/invoice"
	"proposalgen/pkg/proposal"
)

// Server wires the generators to their routes.
type Server struct {
	Proposals *proposal.Generator
	Invoices  *invoice.Generator
	Version   string
	Log       logrus.FieldLogger
}

// Router builds the gin engine: recovery, request ids, CORS restricted to
// the given origins, and the three routes of the service.
func (s *Server) Router(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())

	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) > 0 {
		corsConfig.AllowOrigins = corsOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Accept", requestIDHeader)
	r.Use(cors.New(corsConfig))

	r.POST("/generate-word", s.handleGenerateWord)
	r.POST("/generate-invoice-excel", s.handleGenerateInvoice)
	r.GET("/health", s.handleHealth)
	return r
}
