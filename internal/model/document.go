package model

import "time"

// Document is the complete PRD record assembled from one extraction run and
// handed to the renderer. All fields are plain data; the document holds no
// references back into the pipeline.
type Document struct {
	ProjectName  string `json:"project_name"`
	Version      string `json:"version"`
	CreationDate string `json:"creation_date"` // YYYY-MM-DD
	Overview     string `json:"overview"`

	Objectives  []string `json:"objectives"`
	TargetUsers []string `json:"target_users"`

	FunctionalRequirements    []RequirementItem `json:"functional_requirements"`
	NonFunctionalRequirements []RequirementItem `json:"non_functional_requirements"`
	TechnicalRequirements     []RequirementItem `json:"technical_requirements"`

	Constraints []string `json:"constraints"`
	Assumptions []string `json:"assumptions"`

	GeneratedAt time.Time `json:"generated_at"`
}

// RequirementCount returns the total number of requirements in the document.
func (d *Document) RequirementCount() int {
	return len(d.FunctionalRequirements) + len(d.NonFunctionalRequirements) + len(d.TechnicalRequirements)
}
