package stub

import (
	"strings"
	"sync"
	"time"
)

const statusAnalyzing = "Analyzing..."

type user struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	password string
}

type resume struct {
	ID                 int                `json:"id"`
	Title              string             `json:"title"`
	FileType           string             `json:"file_type"`
	ATSScore           float64            `json:"ats_score"`
	ScoreBreakdown     map[string]float64 `json:"score_breakdown"`
	MissingKeywords    []string           `json:"missing_keywords"`
	AIRewrittenContent string             `json:"ai_rewritten_content"`
	PredictedRole      string             `json:"predicted_role"`
	CreatedAt          time.Time          `json:"created_at"`
	OwnerID            int                `json:"owner_id"`
}

// store is the in-memory state behind the stub. Analysis is simulated
// lazily: a resume flips from the sentinel to a terminal role when it is
// read after the configured delay, so no background goroutine is needed.
type store struct {
	mu      sync.Mutex
	users   map[string]*user
	resumes map[int]*resume
	nextID  int
	delay   time.Duration
	now     func() time.Time
}

func newStore(delay time.Duration) *store {
	return &store{
		users:   make(map[string]*user),
		resumes: make(map[int]*resume),
		nextID:  1,
		delay:   delay,
		now:     time.Now,
	}
}

func (s *store) createUser(email, fullName, password string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return nil, false
	}
	u := &user{
		ID:        s.nextID,
		Email:     email,
		FullName:  fullName,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
		password:  password,
	}
	s.nextID++
	s.users[email] = u
	return u, true
}

func (s *store) authenticate(email, password string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.password != password {
		return nil, false
	}
	return u, true
}

func (s *store) findUser(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}

func (s *store) createResume(ownerID int, title, fileType string) *resume {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &resume{
		ID:            s.nextID,
		Title:         title,
		FileType:      fileType,
		PredictedRole: statusAnalyzing,
		CreatedAt:     s.now().UTC(),
		OwnerID:       ownerID,
	}
	s.nextID++
	s.resumes[r.ID] = r
	return r
}

func (s *store) getResume(ownerID, id int) (*resume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resumes[id]
	if !ok || r.OwnerID != ownerID {
		return nil, false
	}
	s.maybeFinishAnalysis(r)
	out := *r
	return &out, true
}

func (s *store) listResumes(ownerID int) []resume {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]resume, 0)
	for _, r := range s.resumes {
		if r.OwnerID != ownerID {
			continue
		}
		s.maybeFinishAnalysis(r)
		out = append(out, *r)
	}
	return out
}

// maybeFinishAnalysis flips a pending resume to a deterministic terminal
// state once the delay has elapsed. Callers hold the lock.
func (s *store) maybeFinishAnalysis(r *resume) {
	if r.PredictedRole != statusAnalyzing {
		return
	}
	if s.now().Sub(r.CreatedAt) < s.delay {
		return
	}
	r.PredictedRole = roleForTitle(r.Title)
	r.ATSScore = 72.5
	r.ScoreBreakdown = map[string]float64{
		"keywords_match":  68,
		"grammar_score":   81,
		"relevance_score": 70,
		"structure_score": 71,
	}
	r.MissingKeywords = []string{"kubernetes", "terraform"}
	r.AIRewrittenContent = "Rewritten resume for " + r.Title
}

func roleForTitle(title string) string {
	switch {
	case strings.Contains(strings.ToLower(title), "data"):
		return "Data Scientist"
	case strings.Contains(strings.ToLower(title), "front"):
		return "Frontend Engineer"
	default:
		return "Backend Engineer"
	}
}
