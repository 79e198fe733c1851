package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Subjects(ctx context.Context) (SubjectsResponse, error)
	AnalyzeText(ctx context.Context, in TextInput) (AnalysisResponse, error)
	Compare(ctx context.Context, in CompareInput) (CompareResponse, error)
}
