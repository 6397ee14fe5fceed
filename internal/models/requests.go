package models

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	UserID           string   `json:"user_id"`
	UserEmail        *string  `json:"user_email,omitempty"`
	TargetRole       string   `json:"target_role"`
	CurrentSkills    []string `json:"current_skills"`
	TimeframeMonths  int      `json:"timeframe_months"`
	TimeframeDisplay string   `json:"timeframe_display,omitempty"`
	ResumeText       string   `json:"resume_text,omitempty"`
}

type AnalyzeResponse struct {
	AnalysisSections
	Branch    string   `json:"branch,omitempty"`
	Steps     []string `json:"steps,omitempty"`
	Readiness *int     `json:"readiness_score,omitempty"`
}

type BulkDeleteRequest struct {
	IDs    []string `json:"ids"`
	UserID string   `json:"user_id"`
}

type BulkArchiveRequest struct {
	IDs        []string `json:"ids"`
	UserID     string   `json:"user_id"`
	IsArchived bool     `json:"is_archived"`
}

// BulkFailure records why one id of a bulk request was not updated.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BulkResponse struct {
	Success   bool          `json:"success"`
	Updated   int           `json:"updated"`
	Failed    int           `json:"failed"`
	FailedIDs []string      `json:"failed_ids"`
	Failures  []BulkFailure `json:"failures"`
	Message   string        `json:"message"`
}

type ParseResumeResponse struct {
	Text            string   `json:"text"`
	Filename        string   `json:"filename"`
	ExtractedSkills []string `json:"extracted_skills"`
	Format          string   `json:"format"`
	StorageKey      string   `json:"storage_key,omitempty"`
}

type ResumeAnalysisRequest struct {
	ResumeText string `json:"resume_text"`
	TargetRole string `json:"target_role"`
}

type ExtractSkillsRequest struct {
	JobDescription string `json:"job_description"`
}

type ActivityRequest struct {
	UserID       string                 `json:"user_id"`
	UserEmail    *string                `json:"user_email,omitempty"`
	ActivityType string                 `json:"activity_type"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StoreSkillsRequest struct {
	UserID string   `json:"user_id"`
	Skills []string `json:"skills"`
	Level  string   `json:"level,omitempty"`
}

type ProgressRequest struct {
	UserID   string `json:"user_id"`
	Skill    string `json:"skill"`
	Progress int    `json:"progress"`
	Note     string `json:"note"`
}

type CompareSkillsRequest struct {
	JobSkills       string   `json:"job_skills"`
	CandidateSkills []string `json:"candidate_skills"`
}

// MarketRequest serves the market research endpoints; Roles is only read by the comparison.
type MarketRequest struct {
	Role     string   `json:"role"`
	Location string   `json:"location,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

type SkillAssessmentRequest struct {
	TargetRole     string   `json:"target_role"`
	CurrentSkills  []string `json:"current_skills"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

type LearningPlanRequest struct {
	SkillGaps      []string `json:"skill_gaps"`
	TimeframeWeeks int      `json:"timeframe_weeks"`
	Level          string   `json:"current_level"`
}

type ApplicationStrategyRequest struct {
	JobDescription  string `json:"job_description"`
	Background      string `json:"background"`
	MatchPercentage int    `json:"match_percentage"`
}

type ResumeSectionRequest struct {
	SectionText     string `json:"section_text"`
	JobRequirements string `json:"job_requirements"`
}

type InterviewRequest struct {
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
}

type JobMemoryRequest struct {
	UserID          string   `json:"user_id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	RequiredSkills  []string `json:"required_skills"`
	MatchPercentage float64  `json:"match_percentage"`
}

// AgentResponse wraps the free text produced by a single agent.
type AgentResponse struct {
	Agent  string `json:"agent"`
	Result string `json:"result"`
}
