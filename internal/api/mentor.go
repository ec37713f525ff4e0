package api

import (
	"context"
	"fmt"
)

type chatRequest struct {
	Question string `json:"question"`
	ResumeID *int   `json:"resume_id,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat sends one question to the mentor. The exchange is stateless
// server-side; callers resend prior turns conversationally if they want
// continuity.
func (c *Client) Chat(ctx context.Context, question string, resumeID *int) (string, error) {
	var out chatResponse
	err := c.postJSON(ctx, c.mentorRoute+"/chat", chatRequest{Question: question, ResumeID: resumeID}, &out)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

type insightRequest struct {
	ResumeText string   `json:"resume_text"`
	Skills     []string `json:"skills"`
}

// Insight requests the deep career analysis for a resume text and skill set.
func (c *Client) Insight(ctx context.Context, resumeText string, skills []string) (Insight, error) {
	var out Insight
	if err := c.postJSON(ctx, "/ai-mentor/insight", insightRequest{ResumeText: resumeText, Skills: skills}, &out); err != nil {
		return Insight{}, err
	}
	return out, nil
}

// PredictCareer returns predicted career paths for a profile.
func (c *Client) PredictCareer(ctx context.Context, profile CareerProfile) ([]Prediction, error) {
	var out []Prediction
	if err := c.postJSON(ctx, "/ai-mentor/predict", profile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Strategy fetches the resume strategy for a company tier.
func (c *Client) Strategy(ctx context.Context, tier string) (Strategy, error) {
	var out Strategy
	if err := c.getJSON(ctx, fmt.Sprintf("/ai-mentor/strategy/%s", tier), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type roadmapRequest struct {
	TargetRole string `json:"target_role"`
	ResumeID   int    `json:"resume_id"`
}

// Roadmap generates a learning roadmap toward a target role, grounded in the
// skills of the given resume. Step key variance is normalized by RoadmapStep.
func (c *Client) Roadmap(ctx context.Context, targetRole string, resumeID int) (Roadmap, error) {
	var out Roadmap
	if err := c.postJSON(ctx, "/career-guru/roadmap", roadmapRequest{TargetRole: targetRole, ResumeID: resumeID}, &out); err != nil {
		return Roadmap{}, err
	}
	return out, nil
}
