package stub

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// throttle simulates the backend's per-minute AI rate limit by rejecting
// every Nth AI request when configured.
func (s *server) throttle() gin.HandlerFunc {
	var hits int64
	return func(c *gin.Context) {
		if s.opts.ThrottleEvery > 0 {
			if n := atomic.AddInt64(&hits, 1); n%int64(s.opts.ThrottleEvery) == 0 {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": gin.H{"code": "RATE_LIMITED", "message": "Rate limit exceeded: 5 per 1 minute"},
				})
				return
			}
		}
		c.Next()
	}
}

func (s *server) chat(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		ResumeID *int   `json:"resume_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "question is required"})
		return
	}
	reply := "Focus on measurable impact in your experience section."
	if req.ResumeID != nil {
		reply = "Looking at resume " + strconv.Itoa(*req.ResumeID) + ": " + reply
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// onePixelPNG is a valid 1x1 PNG, stood in for the rendered skill graph.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func (s *server) insight(c *gin.Context) {
	var req struct {
		ResumeText string   `json:"resume_text"`
		Skills     []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ResumeText == "" {
		c.JSON(http.StatusOK, gin.H{
			"recommended_role": "N/A",
			"mentor_advice":    "Resume content is empty. Please upload a valid resume to begin analysis.",
			"domain":           "Unknown",
			"missing_skills":   []string{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommended_role": "Backend Engineer",
		"market_demand":    "High",
		"salary_range":     "$95k - $140k",
		"growth_score":     8.2,
		"missing_skills":   []string{"Kubernetes", "gRPC"},
		"dynamic_roadmap":  gin.H{"steps": cannedRoadmapSteps()},
		"skill_graph":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG),
		"domain":           "Software Engineering",
		"mentor_advice":    "You are a strong candidate for a Backend Engineer role.",
	})
}

func (s *server) predict(c *gin.Context) {
	var req struct {
		Branch    string   `json:"branch"`
		Skills    []string `json:"skills"`
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid profile"})
		return
	}
	c.JSON(http.StatusOK, []gin.H{
		{"role": "Backend Engineer", "confidence": 0.82, "reason": "strong overlap with " + req.Branch},
		{"role": "Site Reliability Engineer", "confidence": 0.64, "reason": "infrastructure skills present"},
	})
}

func (s *server) strategy(c *gin.Context) {
	tier := c.Param("tier")
	c.JSON(http.StatusOK, gin.H{
		"tier":           tier,
		"bullet_formula": "Action Verb + Technical Tool + Scale + Measurable Impact",
		"focus_areas":    []string{"system design depth", "production metrics", "ownership stories"},
	})
}

func (s *server) roadmap(c *gin.Context) {
	var req struct {
		TargetRole string `json:"target_role"`
		ResumeID   int    `json:"resume_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetRole == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "target_role is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": cannedRoadmapSteps()})
}

// cannedRoadmapSteps deliberately mixes both key generations the real
// backend's LLM produces, so clients must normalize.
func cannedRoadmapSteps() []gin.H {
	return []gin.H{
		{"Goal": "Strengthen fundamentals", "Time": "1 month", "Skills": "data structures, SQL", "Resource": "CS50"},
		{"Goal Name": "Ship a production service", "Estimated Time": "2 months", "Skills to Learn": "Go, Docker", "One Free Resource": "Go by Example"},
	}
}

func (s *server) transform(c *gin.Context) {
	var req struct {
		ResumeText     string `json:"resume_text"`
		JobDescription string `json:"job_description"`
		Mode           string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ResumeText == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Resume content is empty."})
		return
	}

	out := gin.H{
		"success":          true,
		"rewritten_resume": "[" + req.Mode + "] " + req.ResumeText,
	}
	if len(req.ResumeText) < 80 {
		out["warning"] = "Resume text is very short; results may be generic."
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) enhanceGrammar(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "text is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enhanced_text": req.Text})
}

func (s *server) matchJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid resume id"})
		return
	}
	if _, ok := s.store.getResume(currentUserID(c), id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Resume not found"})
		return
	}

	var req struct {
		Title           string `json:"title"`
		Company         string `json:"company"`
		DescriptionText string `json:"description_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DescriptionText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "description_text is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match_percentage":        61.5,
		"missing_skills":          []string{"graphql", "redis"},
		"improvement_suggestions": []string{"Add missing keywords: graphql, redis"},
		"title":                   req.Title,
		"company":                 req.Company,
	})
}

func (s *server) recommendations(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid resume id"})
		return
	}
	if _, ok := s.store.getResume(currentUserID(c), id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Resume not found"})
		return
	}

	c.JSON(http.StatusOK, []gin.H{
		{
			"title":            "Backend Engineer",
			"company":          "Acme Corp",
			"location":         "Remote",
			"salary_range":     "$100k - $130k",
			"match_percentage": 78.0,
			"missing_skills":   []string{"kafka"},
			"apply_link":       "https://jobs.example.com/1",
		},
		{
			"title":            "Platform Engineer",
			"company":          "Initech",
			"location":         "Austin, TX",
			"salary_range":     "$110k - $150k",
			"match_percentage": 66.0,
			"missing_skills":   []string{"terraform", "aws"},
			"apply_link":       "https://jobs.example.com/2",
		},
	})
}
