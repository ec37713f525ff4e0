package api

import (
	"encoding/json"
	"strings"
	"time"
)

// StatusAnalyzing is the sentinel value the backend keeps in PredictedRole
// until the asynchronous analysis job finishes.
const StatusAnalyzing = "Analyzing..."

// TokenResponse is the login exchange result.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the backend's user profile.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRequest creates a new account. Signup does not log the user in;
// callers compose it with Login.
type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

// Resume is the resume resource as observed by the client. PredictedRole
// starts as StatusAnalyzing and is overwritten by the backend with a
// terminal value when analysis completes.
type Resume struct {
	ID                 int                `json:"id"`
	Title              string             `json:"title"`
	FileType           string             `json:"file_type"`
	ATSScore           float64            `json:"ats_score"`
	ScoreBreakdown     map[string]float64 `json:"score_breakdown"`
	MissingKeywords    []string           `json:"missing_keywords"`
	AIRewrittenContent string             `json:"ai_rewritten_content"`
	PredictedRole      string             `json:"predicted_role"`
	AIFeedback         string             `json:"ai_feedback"`
	CreatedAt          time.Time          `json:"created_at"`
	OwnerID            int                `json:"owner_id"`
}

// Analyzing reports whether the backend analysis is still pending.
func (r Resume) Analyzing() bool {
	return r.PredictedRole == StatusAnalyzing
}

// JobPosting is a job description submitted for matching.
type JobPosting struct {
	Title           string `json:"title"`
	Company         string `json:"company,omitempty"`
	DescriptionText string `json:"description_text"`
}

// JobMatch is a match or recommendation result.
type JobMatch struct {
	JobID                  int      `json:"job_id"`
	Title                  string   `json:"title"`
	Company                string   `json:"company"`
	Location               string   `json:"location"`
	SalaryRange            string   `json:"salary_range"`
	MatchPercentage        float64  `json:"match_percentage"`
	MissingSkills          []string `json:"missing_skills"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	ApplyLink              string   `json:"apply_link"`
}

// CareerProfile feeds the career prediction endpoint.
type CareerProfile struct {
	Branch    string   `json:"branch"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// Insight is the deep-analysis payload: role fit, gaps, roadmap and a
// rendered skill graph (base64 PNG).
type Insight struct {
	RecommendedRole string          `json:"recommended_role"`
	MarketDemand    string          `json:"market_demand"`
	SalaryRange     string          `json:"salary_range"`
	GrowthScore     float64         `json:"growth_score"`
	MissingSkills   []string        `json:"missing_skills"`
	DynamicRoadmap  json.RawMessage `json:"dynamic_roadmap"`
	SkillGraph      string          `json:"skill_graph"`
	Domain          string          `json:"domain"`
	MentorAdvice    string          `json:"mentor_advice"`
}

// Roadmap is a learning plan toward a target role.
type Roadmap struct {
	Steps []RoadmapStep `json:"steps"`
}

// RoadmapStep is one normalized roadmap entry. The backend's LLM output keys
// steps inconsistently ("Goal" vs "Goal Name", "Time" vs "Estimated Time",
// and so on); variance is absorbed here so callers see one schema.
type RoadmapStep struct {
	Goal     string
	Duration string
	Skills   []string
	Resource string
}

func (s *RoadmapStep) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Goal = firstString(raw, "Goal", "Goal Name", "goal")
	s.Duration = firstString(raw, "Time", "Estimated Time", "Duration", "period")
	s.Resource = firstString(raw, "Resource", "One Free Resource", "resource")

	skills := firstString(raw, "Skills", "Skills to Learn", "skills", "focus")
	for _, part := range strings.Split(skills, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			s.Skills = append(s.Skills, trimmed)
		}
	}
	return nil
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var str string
		if json.Unmarshal(val, &str) == nil && str != "" {
			return str
		}
	}
	return ""
}

// TransformResult is the JD-targeted rewrite response.
type TransformResult struct {
	Success         bool   `json:"success"`
	RewrittenResume string `json:"rewritten_resume"`
	Warning         string `json:"warning,omitempty"`
	Err             string `json:"error,omitempty"`
}

// Prediction is one predicted career path.
type Prediction struct {
	Role       string  `json:"role"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Strategy is a tier-specific resume strategy payload. Its shape is owned by
// the backend's strategy database, so it stays dynamic.
type Strategy map[string]interface{}
