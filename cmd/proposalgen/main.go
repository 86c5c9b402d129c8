package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proposalgen/pkg/config"
	"proposalgen/pkg/invoice"
	"proposalgen/pkg/proposal"
	"proposalgen/pkg/server"
)

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("configuration failed")
	}

	log := newLogger(cfg.Logging)
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &server.Server{
		Proposals: proposal.NewGenerator(cfg.Templates.Proposal, log),
		Invoices:  invoice.NewGenerator(cfg.Templates.Invoice, log),
		Version:   cfg.App.Version,
		Log:       log,
	}

	addr := cfg.Server.Addr()
	log.WithFields(logrus.Fields{
		"addr":    addr,
		"version": cfg.App.Version,
	}).Info("starting " + cfg.App.Name)

	if err := srv.Router(cfg.Server.CORSOrigins).Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
