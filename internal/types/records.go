package types

// SentenceRecord is one finished bullet: the group it came from, the text
// that will appear in the document, and review bookkeeping.
type SentenceRecord struct {
	GroupName string `json:"group_name"`
	GroupID   string `json:"group_id"`
	Text      string `json:"text"`
	Approved  bool   `json:"approved"`
	Attempts  int    `json:"attempts"`
	Feedback  string `json:"feedback,omitempty"`
}

// RoleRecord aggregates the processed output for one role: the resolved
// title and the constructed sentences in the resume's original group order.
type RoleRecord struct {
	Title     string           `json:"title"`
	Company   string           `json:"company"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Location  string           `json:"location"`
	Sentences []SentenceRecord `json:"sentences"`
}

// ProjectRecord aggregates the processed output for one project.
type ProjectRecord struct {
	Name      string           `json:"name"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Sentences []SentenceRecord `json:"sentences"`
}

// VerbPlan maps stable sentence ids to their pre-assigned leading action
// verbs. Computed once per run; read-only afterwards.
type VerbPlan map[string]string

// ContentReview is the whole-document critique returned by the content
// reviewing stage. All fields are best-effort.
type ContentReview struct {
	OverallAlignment     string            `json:"overall_alignment"`
	KeySkills            KeySkills         `json:"key_skills"`
	NarrativeAssessment  string            `json:"narrative_assessment"`
	Redundancies         []string          `json:"redundancies"`
	SuggestedImprovement []string          `json:"suggested_improvements"`
	Clutter              []string          `json:"clutter"`
	TitleRecommendations map[string]string `json:"title_recommendations"`
}

// KeySkills splits the job description's skills into covered and missing.
type KeySkills struct {
	Covered []string `json:"covered"`
	Missing []string `json:"missing"`
}

// CustomizedResume is the final aggregate handed to the assembler.
type CustomizedResume struct {
	Basics       Basics          `json:"basics"`
	Summary      string          `json:"summary"`
	Roles        []RoleRecord    `json:"roles"`
	Projects     []ProjectRecord `json:"projects,omitempty"`
	Education    []Education     `json:"education,omitempty"`
	Certificates []Certificate   `json:"certificates,omitempty"`
}
