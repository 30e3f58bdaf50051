// Package csp receives Content-Security-Policy violation reports.
package csp

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/wolfman30/trades-booking-api/pkg/logging"
)

const maxReportBody = 64 << 10

var errEmptyReport = errors.New("csp: empty report")

// Violation is the subset of a CSP report worth logging.
type Violation struct {
	DocumentURI        string `json:"document-uri"`
	Referrer           string `json:"referrer"`
	ViolatedDirective  string `json:"violated-directive"`
	EffectiveDirective string `json:"effective-directive"`
	OriginalPolicy     string `json:"original-policy"`
	BlockedURI         string `json:"blocked-uri"`
	SourceFile         string `json:"source-file"`
	LineNumber         int    `json:"line-number"`
	Disposition        string `json:"disposition"`
}

type legacyReport struct {
	Report *Violation `json:"csp-report"`
}

// reportingAPIEntry is one element of an application/reports+json body.
type reportingAPIEntry struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Body struct {
		DocumentURL        string `json:"documentURL"`
		Referrer           string `json:"referrer"`
		EffectiveDirective string `json:"effectiveDirective"`
		OriginalPolicy     string `json:"originalPolicy"`
		BlockedURL         string `json:"blockedURL"`
		SourceFile         string `json:"sourceFile"`
		LineNumber         int    `json:"lineNumber"`
		Disposition        string `json:"disposition"`
	} `json:"body"`
}

// Recorder counts received violations.
type Recorder interface {
	ObserveCSPViolation(directive string)
}

// Handler logs CSP violation reports.
type Handler struct {
	metrics Recorder
	logger  *logging.Logger
}

func NewHandler(metrics Recorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{metrics: metrics, logger: logger}
}

// Report handles POST /api/csp-report.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReportBody+1))
	if err != nil || len(body) > maxReportBody {
		http.Error(w, "invalid report", http.StatusBadRequest)
		return
	}

	violations, err := parseReports(r.Header.Get("Content-Type"), body)
	if err != nil {
		h.logger.Debug("rejected csp report", "error", err)
		http.Error(w, "invalid report", http.StatusBadRequest)
		return
	}

	for _, v := range violations {
		directive := v.EffectiveDirective
		if directive == "" {
			directive = v.ViolatedDirective
		}
		h.logger.Warn("csp violation",
			"document_uri", v.DocumentURI,
			"violated_directive", v.ViolatedDirective,
			"effective_directive", v.EffectiveDirective,
			"blocked_uri", v.BlockedURI,
			"source_file", v.SourceFile,
			"line_number", v.LineNumber,
			"disposition", v.Disposition,
		)
		if h.metrics != nil {
			h.metrics.ObserveCSPViolation(directive)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseReports(contentType string, body []byte) ([]Violation, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errEmptyReport
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)

	if mediaType == "application/reports+json" || trimmed[0] == '[' {
		var entries []reportingAPIEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, err
		}
		var out []Violation
		for _, e := range entries {
			if e.Type != "csp-violation" {
				continue
			}
			out = append(out, Violation{
				DocumentURI:        firstNonEmpty(e.Body.DocumentURL, e.URL),
				Referrer:           e.Body.Referrer,
				ViolatedDirective:  e.Body.EffectiveDirective,
				EffectiveDirective: e.Body.EffectiveDirective,
				OriginalPolicy:     e.Body.OriginalPolicy,
				BlockedURI:         e.Body.BlockedURL,
				SourceFile:         e.Body.SourceFile,
				LineNumber:         e.Body.LineNumber,
				Disposition:        e.Body.Disposition,
			})
		}
		if len(out) == 0 {
			return nil, errEmptyReport
		}
		return out, nil
	}

	var legacy legacyReport
	if err := json.Unmarshal(body, &legacy); err != nil {
		return nil, err
	}
	if legacy.Report == nil {
		return nil, errEmptyReport
	}
	return []Violation{*legacy.Report}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
