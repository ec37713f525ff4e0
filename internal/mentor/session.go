// Package mentor is the single configurable mentor front end. It replaces
// the product's three overlapping floating-assistant widgets with one
// session whose feature set is selected by capability, all backed by the
// same resource client.
package mentor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"resume-client/internal/api"
)

// Capability selects which mentor features a session exposes.
type Capability string

const (
	CapChat        Capability = "chat"
	CapRoadmap     Capability = "roadmap"
	CapFitAnalysis Capability = "fit-analysis"
	CapSkillGraph  Capability = "skill-graph"
)

// ErrCapabilityDisabled is returned when a session is asked for a feature it
// was not configured with.
var ErrCapabilityDisabled = errors.New("mentor capability not enabled for this session")

// Backend is the slice of the resource client a mentor session needs.
type Backend interface {
	Chat(ctx context.Context, question string, resumeID *int) (string, error)
	Roadmap(ctx context.Context, targetRole string, resumeID int) (api.Roadmap, error)
	Insight(ctx context.Context, resumeText string, skills []string) (api.Insight, error)
}

// Session is one mentor conversation bound to an optional resume.
type Session struct {
	backend    Backend
	caps       map[Capability]bool
	resumeID   *int
	transcript Transcript
}

// NewSession builds a session with the given capability set.
func NewSession(backend Backend, resumeID *int, caps ...Capability) *Session {
	enabled := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		enabled[c] = true
	}
	return &Session{backend: backend, caps: enabled, resumeID: resumeID}
}

// Transcript exposes the conversation so far.
func (s *Session) Transcript() *Transcript {
	return &s.transcript
}

// Ask sends a question. The backend is stateless, so prior turns are folded
// into the outgoing question to keep the conversation coherent.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if !s.caps[CapChat] {
		return "", fmt.Errorf("chat: %w", ErrCapabilityDisabled)
	}

	outgoing := question
	if history := s.renderHistory(); history != "" {
		outgoing = history + "\nUser: " + question
	}

	reply, err := s.backend.Chat(ctx, outgoing, s.resumeID)
	if err != nil {
		return "", err
	}

	s.transcript.Append(RoleUser, question)
	s.transcript.Append(RoleAssistant, reply)
	return reply, nil
}

// Roadmap generates a learning roadmap toward targetRole for the session's
// resume.
func (s *Session) Roadmap(ctx context.Context, targetRole string) (api.Roadmap, error) {
	if !s.caps[CapRoadmap] {
		return api.Roadmap{}, fmt.Errorf("roadmap: %w", ErrCapabilityDisabled)
	}
	if s.resumeID == nil {
		return api.Roadmap{}, errors.New("roadmap requires a resume")
	}
	return s.backend.Roadmap(ctx, targetRole, *s.resumeID)
}

// FitAnalysis runs the deep career analysis.
func (s *Session) FitAnalysis(ctx context.Context, resumeText string, skills []string) (api.Insight, error) {
	if !s.caps[CapFitAnalysis] {
		return api.Insight{}, fmt.Errorf("fit-analysis: %w", ErrCapabilityDisabled)
	}
	return s.backend.Insight(ctx, resumeText, skills)
}

// SkillGraphPNG decodes the insight's rendered skill graph.
func (s *Session) SkillGraphPNG(insight api.Insight) ([]byte, error) {
	if !s.caps[CapSkillGraph] {
		return nil, fmt.Errorf("skill-graph: %w", ErrCapabilityDisabled)
	}
	raw := insight.SkillGraph
	if idx := strings.Index(raw, "base64,"); idx >= 0 {
		raw = raw[idx+len("base64,"):]
	}
	if raw == "" {
		return nil, errors.New("insight carries no skill graph")
	}
	return base64.StdEncoding.DecodeString(raw)
}

func (s *Session) renderHistory() string {
	msgs := s.transcript.Messages()
	if len(msgs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			b.WriteString("User: ")
		case RoleAssistant:
			b.WriteString("Mentor: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
