package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadRequest carries a resume file for upload. Size and file-type limits
// are enforced server-side; the client only assembles the multipart body.
type UploadRequest struct {
	Title          string
	JobDescription string
	FileName       string
	File           io.Reader
}

// UploadResume uploads a resume for analysis. The returned resource carries
// the sentinel status until the backend's background analysis completes.
func (c *Client) UploadResume(ctx context.Context, req UploadRequest) (Resume, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", req.Title); err != nil {
		return Resume{}, fmt.Errorf("build upload form: %w", err)
	}
	if req.JobDescription != "" {
		if err := w.WriteField("job_description", req.JobDescription); err != nil {
			return Resume{}, fmt.Errorf("build upload form: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return Resume{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return Resume{}, fmt.Errorf("read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return Resume{}, fmt.Errorf("build upload form: %w", err)
	}

	var out Resume
	if err := c.do(ctx, http.MethodPost, "/resumes/upload", &buf, w.FormDataContentType(), &out); err != nil {
		return Resume{}, err
	}
	return out, nil
}

// ListResumes returns all resumes owned by the current user.
func (c *Client) ListResumes(ctx context.Context) ([]Resume, error) {
	var out []Resume
	if err := c.getJSON(ctx, "/resumes/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetResume fetches one resume by id.
func (c *Client) GetResume(ctx context.Context, id int) (Resume, error) {
	var out Resume
	if err := c.getJSON(ctx, fmt.Sprintf("/resumes/%d", id), &out); err != nil {
		return Resume{}, err
	}
	return out, nil
}
