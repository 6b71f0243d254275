package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"clinica-ia/internal/config"
	"clinica-ia/internal/database"
)

// Check statuses
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusWarning = "warning"
	StatusSkipped = "skipped"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Status  string
	Message string
	Error   error
}

// Checker performs pre-flight checks before the server starts
type Checker struct {
	cfg *config.Config
	db  database.Pinger
	log logrus.FieldLogger
}

// NewChecker creates a new preflight checker. db may be nil.
func NewChecker(cfg *config.Config, db database.Pinger, log logrus.FieldLogger) *Checker {
	return &Checker{cfg: cfg, db: db, log: log}
}

// RunAll runs all preflight checks, logs a summary and returns the results
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	results := []CheckResult{
		c.checkEnvironment(),
		c.checkModelArtifact(),
		c.checkDatabase(ctx),
	}

	var passed, failed, warnings int
	for _, result := range results {
		entry := c.log.WithFields(logrus.Fields{"check": result.Name, "status": result.Status})
		switch result.Status {
		case StatusPass, StatusSkipped:
			entry.Info(result.Message)
			passed++
		case StatusWarning:
			entry.Warn(result.Message)
			warnings++
		case StatusFail:
			if result.Error != nil {
				entry = entry.WithError(result.Error)
			}
			entry.Error(result.Message)
			failed++
		}
	}

	c.log.WithFields(logrus.Fields{
		"passed":   passed,
		"failed":   failed,
		"warnings": warnings,
	}).Info("pre-flight checks finished")

	return results
}

// HasFailures returns true if any check failed
func HasFailures(results []CheckResult) bool {
	for _, result := range results {
		if result.Status == StatusFail {
			return true
		}
	}
	return false
}

func (c *Checker) checkEnvironment() CheckResult {
	result := CheckResult{Name: "Environment"}
	switch c.cfg.App.Env {
	case config.EnvProduction, config.EnvDevelopment, config.EnvTesting:
		result.Status = StatusPass
		result.Message = fmt.Sprintf("running in %s mode", c.cfg.App.Env)
	default:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("unrecognised FLASK_ENV %q, treated as non-development", c.cfg.App.Env)
	}
	return result
}

func (c *Checker) checkModelArtifact() CheckResult {
	result := CheckResult{Name: "Model Artifact"}
	info, err := os.Stat(c.cfg.App.ModelPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("model file %s not found", c.cfg.App.ModelPath)
	case err != nil:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("model file %s is not readable", c.cfg.App.ModelPath)
		result.Error = err
	case info.IsDir():
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("model path %s is a directory", c.cfg.App.ModelPath)
	default:
		result.Status = StatusPass
		result.Message = fmt.Sprintf("model file %s present (%d bytes)", c.cfg.App.ModelPath, info.Size())
	}
	return result
}

func (c *Checker) checkDatabase(ctx context.Context) CheckResult {
	result := CheckResult{Name: "Database Connection"}
	if c.db == nil {
		result.Status = StatusSkipped
		result.Message = "no database configured"
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.db.Ping(ctx); err != nil {
		result.Status = StatusFail
		result.Message = "database is unreachable"
		result.Error = err
		return result
	}

	result.Status = StatusPass
	result.Message = "database connection ok"
	return result
}
