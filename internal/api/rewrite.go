package api

import "context"

type transformRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	Mode           string `json:"mode"`
}

// Transform rewrites a resume to align with a job description. Mode is "ATS"
// or "Creative"; empty defaults to "ATS".
func (c *Client) Transform(ctx context.Context, resumeText, jobDescription, mode string) (TransformResult, error) {
	if mode == "" {
		mode = "ATS"
	}
	var out TransformResult
	err := c.postJSON(ctx, "/ai-rewrite/transform", transformRequest{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		Mode:           mode,
	}, &out)
	if err != nil {
		return TransformResult{}, err
	}
	return out, nil
}

type grammarRequest struct {
	Text string `json:"text"`
}

type grammarResponse struct {
	EnhancedText string `json:"enhanced_text"`
}

// EnhanceGrammar polishes text while preserving its meaning.
func (c *Client) EnhanceGrammar(ctx context.Context, text string) (string, error) {
	var out grammarResponse
	if err := c.postJSON(ctx, "/ai-rewrite/enhance-grammar", grammarRequest{Text: text}, &out); err != nil {
		return "", err
	}
	return out.EnhancedText, nil
}
