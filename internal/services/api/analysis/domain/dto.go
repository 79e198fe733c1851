// Package domain holds DTOs for analysis http and service contracts
package domain

import (
	"jangat/internal/core/engine"
	"jangat/internal/core/proportion"
	"jangat/internal/core/taxonomy"
)

// Settings are the per request overrides shared by both analysis endpoints.
// Empty values fall back to the server configuration
type Settings struct {
	// Subjects selects part of the taxonomy; empty or ["all"] keeps every subject
	Subjects    []string `json:"subjects,omitempty" validate:"omitempty,max=200,dive,notblank" example:"Santé,Emploi"`
	Policy      string   `json:"policy,omitempty" validate:"omitempty,oneof=share density" example:"share"`
	Dedup       string   `json:"dedup,omitempty" validate:"omitempty,oneof=position text" example:"position"`
	Language    string   `json:"language,omitempty" validate:"omitempty,max=32" example:"fr"`
	MaxEvidence *int     `json:"max_evidence,omitempty" validate:"omitempty,min=0,max=50" example:"2"`
}

// TextInput analyzes one pasted document
type TextInput struct {
	Settings
	Label string `json:"label,omitempty" validate:"omitempty,max=200" example:"programme 2027"`
	Text  string `json:"text" validate:"notblank" example:"La santé est notre priorité."`
}

// DocumentInput is one compared document, given either inline or as a URL
type DocumentInput struct {
	Label string `json:"label,omitempty" validate:"omitempty,max=200" example:"parti A"`
	Text  string `json:"text,omitempty" example:"L'école et la santé."`
	URL   string `json:"url,omitempty" validate:"omitempty,url,max=2048" example:"https://example.org/programme.pdf"`
}

// CompareInput compares several documents on the same subjects
type CompareInput struct {
	Settings
	Documents []DocumentInput `json:"documents" validate:"required,min=1,max=20,dive" example:"[]"`
}

// SubjectsResponse lists the taxonomy the server analyzes with
type SubjectsResponse struct {
	Fingerprint string             `json:"fingerprint" example:"9c1185a5c5e9fc54"`
	Subjects    []taxonomy.Subject `json:"subjects"`
}

// AnalysisResponse is one analyzed document
type AnalysisResponse struct {
	Label       string            `json:"label" example:"programme 2027"`
	Fingerprint string            `json:"fingerprint" example:"5b2e0a0c6b1d33f7"`
	Language    string            `json:"language" example:"fr"`
	Sentences   int               `json:"sentences" example:"42"`
	Policy      proportion.Policy `json:"policy"`
	Status      proportion.Status `json:"status"`
	Denominator int               `json:"denominator" example:"17"`
	Rows        []proportion.Row  `json:"rows"`
	Evidence    []engine.Evidence `json:"evidence"`
}

// DocumentOutcome summarizes one compared document
type DocumentOutcome struct {
	Label       string            `json:"label" example:"parti A"`
	Failed      bool              `json:"failed" example:"false"`
	Reason      string            `json:"reason,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Sentences   int               `json:"sentences" example:"42"`
	Status      proportion.Status `json:"status"`
	Evidence    []engine.Evidence `json:"evidence,omitempty"`
}

// CompareResponse is the comparison grid plus one summary per document
type CompareResponse struct {
	RunID     string            `json:"run_id" example:"5f0c2f4e-2a53-4c1b-9d55-3f7f1c0b8e2a"`
	Policy    proportion.Policy `json:"policy"`
	Taxonomy  string            `json:"taxonomy" example:"9c1185a5c5e9fc54"`
	Subjects  []string          `json:"subjects"`
	Documents []DocumentOutcome `json:"documents"`
	Cells     []engine.Cell     `json:"cells"`
}
