// Package stub is a development stand-in for the resume-analyzer backend.
// It serves the same wire contract with canned analysis results so the CLI,
// the watcher and integration tests can run without the real service. No
// actual analysis happens here.
package stub

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Options tunes stub behavior.
type Options struct {
	// JWTSecret signs access tokens. A default is used when empty.
	JWTSecret string
	// AnalysisDelay is how long an uploaded resume stays in the
	// "Analyzing..." state before flipping to a terminal role.
	AnalysisDelay time.Duration
	// ThrottleEvery returns 429 on every Nth AI request when > 0, for
	// exercising the client's rate-limit path.
	ThrottleEvery int
}

// New constructs the stub router.
func New(opts Options) *gin.Engine {
	return newServer(opts).router()
}

func newServer(opts Options) *server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "stub-secret"
	}
	if opts.AnalysisDelay <= 0 {
		opts.AnalysisDelay = 15 * time.Second
	}
	return &server{
		opts:  opts,
		store: newStore(opts.AnalysisDelay),
	}
}

func (s *server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api.POST("/signup", s.signup)
	api.POST("/login/access-token", s.login)

	authed := api.Group("")
	authed.Use(s.requireBearer())
	authed.GET("/users/me", s.currentUser)

	authed.POST("/resumes/upload", s.uploadResume)
	authed.GET("/resumes/", s.listResumes)
	authed.GET("/resumes/:id", s.getResume)

	authed.POST("/jobs/match/:id", s.matchJob)
	authed.GET("/jobs/recommendations/:id", s.recommendations)

	ai := authed.Group("")
	ai.Use(s.throttle())
	for _, route := range []string{"/ai-mentor", "/career-guru"} {
		ai.POST(route+"/chat", s.chat)
	}
	ai.POST("/ai-mentor/insight", s.insight)
	ai.POST("/ai-mentor/predict", s.predict)
	ai.GET("/ai-mentor/strategy/:tier", s.strategy)
	ai.POST("/career-guru/roadmap", s.roadmap)
	ai.POST("/ai-rewrite/transform", s.transform)
	ai.POST("/ai-rewrite/enhance-grammar", s.enhanceGrammar)

	return r
}

type server struct {
	opts  Options
	store *store
}
