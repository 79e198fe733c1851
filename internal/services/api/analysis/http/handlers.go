// Package http provides http transport for analysis
package http

import (
	stdhttp "net/http"

	"jangat/internal/modkit/httpkit"
	"jangat/internal/services/api/analysis/domain"
	svc "jangat/internal/services/api/analysis/service"
)

// Register mounts analysis endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// one pasted document
	httpkit.PostJSON[domain.TextInput](r, "/text", h.text)

	// several documents side by side
	httpkit.PostJSON[domain.CompareInput](r, "/compare", h.compare)
}

// RegisterSubjects mounts the taxonomy listing; it lives outside the module prefix
func RegisterSubjects(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/subjects", h.subjects)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /subjects Analysis analysisSubjects
// @Summary Subjects and synonyms analyzed by this server
// @Tags Analysis
// @Produce json
// @Success 200 {object} domain.SubjectsResponse "ok"
// @Router /subjects [get]
func (h *handlers) subjects(r *stdhttp.Request) (any, error) {
	return h.svc.Subjects(r.Context())
}

// swagger:route POST /analysis/text Analysis analysisText
// @Summary Analyze one document
// @Tags Analysis
// @Accept json
// @Produce json
// @Param payload body domain.TextInput true "Document"
// @Success 200 {object} domain.AnalysisResponse "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "unknown subject"
// @Router /analysis/text [post]
func (h *handlers) text(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.AnalyzeText(r.Context(), in)
}

// swagger:route POST /analysis/compare Analysis analysisCompare
// @Summary Compare subject proportions across documents
// @Tags Analysis
// @Accept json
// @Produce json
// @Param payload body domain.CompareInput true "Documents"
// @Success 200 {object} domain.CompareResponse "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 422 {object} httpkit.Envelope "duplicate label"
// @Router /analysis/compare [post]
func (h *handlers) compare(r *stdhttp.Request, in domain.CompareInput) (any, error) {
	return h.svc.Compare(r.Context(), in)
}
