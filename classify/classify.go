// Package classify adds optional AI triage to a report before it is stored.
package classify

import (
	"context"
	"time"

	"canal-denuncies/models"

	"github.com/apex/log"
)

type Classifier interface {
	Classify(ctx context.Context, description string) (*models.AIAnalysis, error)
}

// New returns a Gemini classifier, or nil when no API key is configured.
func New(apiKey, model string) Classifier {
	if apiKey == "" || apiKey == "undefined" {
		log.Warn("GEMINI_API_KEY not set, AI analysis disabled")
		return nil
	}
	return NewGemini(apiKey, model)
}

// Enrich attaches an analysis to the report when the classifier succeeds. It never
// fails: a nil classifier or any error leaves the report unchanged.
func Enrich(ctx context.Context, c Classifier, report *models.Report) bool {
	if c == nil || report == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	analysis, err := c.Classify(ctx, report.Facts.Description)
	if err != nil {
		log.WithError(err).WithField("report", report.ID).Warn("AI analysis skipped")
		return false
	}
	report.AIAnalysis = analysis
	return true
}
