package api

import (
	"context"
	"fmt"
)

// MatchJob scores a resume against a specific job description.
func (c *Client) MatchJob(ctx context.Context, resumeID int, job JobPosting) (JobMatch, error) {
	var out JobMatch
	if err := c.postJSON(ctx, fmt.Sprintf("/jobs/match/%d", resumeID), job, &out); err != nil {
		return JobMatch{}, err
	}
	return out, nil
}

// Recommendations returns jobs the backend considers a fit for the resume.
func (c *Client) Recommendations(ctx context.Context, resumeID int) ([]JobMatch, error) {
	var out []JobMatch
	if err := c.getJSON(ctx, fmt.Sprintf("/jobs/recommendations/%d", resumeID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
