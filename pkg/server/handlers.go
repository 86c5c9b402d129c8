package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"proposalgen/pkg/invoice"
	"proposalgen/pkg/proposal"
)

func (s *Server) handleGenerateWord(c *gin.Context) {
	var req proposal.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	result, err := s.Proposals.Generate(&req)
	s.respondDocument(c, result, err)
}

func (s *Server) handleGenerateInvoice(c *gin.Context) {
	var req invoice.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	result, err := s.Invoices.Generate(&req)
	s.respondDocument(c, result, err)
}

// respondDocument maps a generation outcome to the wire: 404 for a missing
// template, 500 for anything else, otherwise the binary as an attachment.
func (s *Server) respondDocument(c *gin.Context, result *proposal.Result, err error) {
	if err != nil {
		if errors.Is(err, proposal.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Template not found"})
			return
		}
		s.Log.WithError(err).Error("document generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.Version})
}
