package model

// DefaultProjectName is used when no name pattern matches the transcript.
const DefaultProjectName = "未命名项目"

// ProjectInfo carries the project metadata extracted from a transcript.
// Objectives and TargetUsers are deduplicated; their order is an
// implementation detail consumers must not rely on.
type ProjectInfo struct {
	Name        string   `json:"name"`
	Overview    string   `json:"overview"`
	Objectives  []string `json:"objectives"`
	TargetUsers []string `json:"target_users"`
}

// Requirements groups extracted requirement items by category, each slice in
// extraction order (rule order, then match occurrence order).
type Requirements struct {
	Functional    []RequirementItem `json:"functional"`
	NonFunctional []RequirementItem `json:"non_functional"`
	Technical     []RequirementItem `json:"technical"`
}

// Total returns the number of items across all categories.
func (r Requirements) Total() int {
	return len(r.Functional) + len(r.NonFunctional) + len(r.Technical)
}
