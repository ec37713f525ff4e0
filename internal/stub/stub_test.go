package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-client/internal/api"
	"resume-client/internal/session"
	"resume-client/internal/watch"
)

func startStub(t *testing.T, opts Options) (*server, *httptest.Server) {
	t.Helper()
	s := newServer(opts)
	srv := httptest.NewServer(s.router())
	t.Cleanup(srv.Close)
	return s, srv
}

func doJSON(t *testing.T, method, rawURL, token string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, rawURL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signupAndLogin(t *testing.T, base string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/signup", "", map[string]string{
		"email":     "jane@example.com",
		"full_name": "Jane Doe",
		"password":  "s3cret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", resp.StatusCode)
	}

	form := url.Values{"username": {"jane@example.com"}, "password": {"s3cret"}}
	loginResp, err := http.PostForm(base+"/login/access-token", form)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", loginResp.StatusCode)
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatal("login returned empty access_token")
	}
	return token.AccessToken
}

func uploadResume(t *testing.T, base, token, title, filename string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("title", title); err != nil {
		t.Fatalf("write title: %v", err)
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte("resume body")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, base+"/resumes/upload", &buf)
	if err != nil {
		t.Fatalf("build upload: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSignupAndLogin(t *testing.T) {
	_, srv := startStub(t, Options{})
	base := srv.URL + "/api/v1"

	_ = signupAndLogin(t, base)

	dup := doJSON(t, http.MethodPost, base+"/signup", "", map[string]string{
		"email": "jane@example.com", "password": "other",
	})
	if dup.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %d, want 400", dup.StatusCode)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, dup, &body)
	if !strings.Contains(body.Detail, "already exists") {
		t.Fatalf("duplicate signup detail = %q", body.Detail)
	}

	bad, err := http.PostForm(base+"/login/access-token", url.Values{
		"username": {"jane@example.com"}, "password": {"wrong"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad login status = %d, want 400", bad.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, srv := startStub(t, Options{})
	base := srv.URL + "/api/v1"

	resp, err := http.Get(base + "/resumes/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d, want 401", resp.StatusCode)
	}

	forged := doJSON(t, http.MethodGet, base+"/users/me", "not-a-token", nil)
	if forged.StatusCode != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d, want 401", forged.StatusCode)
	}
}

func TestUploadValidation(t *testing.T) {
	_, srv := startStub(t, Options{})
	base := srv.URL + "/api/v1"
	token := signupAndLogin(t, base)

	missingTitle := uploadResume(t, base, token, "", "resume.pdf")
	if missingTitle.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing title status = %d, want 400", missingTitle.StatusCode)
	}

	badExt := uploadResume(t, base, token, "My Resume", "resume.txt")
	if badExt.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad extension status = %d, want 400", badExt.StatusCode)
	}

	ok := uploadResume(t, base, token, "My Resume", "resume.pdf")
	if ok.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", ok.StatusCode)
	}
	var created resume
	decodeBody(t, ok, &created)
	if created.PredictedRole != statusAnalyzing {
		t.Fatalf("fresh upload predicted_role = %q, want sentinel", created.PredictedRole)
	}
	if created.FileType != "pdf" {
		t.Fatalf("file_type = %q, want pdf", created.FileType)
	}
}

func TestAnalysisCompletesAfterDelay(t *testing.T) {
	s, srv := startStub(t, Options{AnalysisDelay: time.Minute})
	base := srv.URL + "/api/v1"

	var mu sync.Mutex
	now := time.Unix(1700000000, 0)
	s.store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	token := signupAndLogin(t, base)
	uploaded := uploadResume(t, base, token, "Data Platform Resume", "resume.pdf")
	var created resume
	decodeBody(t, uploaded, &created)

	pending := doJSON(t, http.MethodGet, fmt.Sprintf("%s/resumes/%d", base, created.ID), token, nil)
	var got resume
	decodeBody(t, pending, &got)
	if got.PredictedRole != statusAnalyzing {
		t.Fatalf("before delay predicted_role = %q, want sentinel", got.PredictedRole)
	}

	advance(2 * time.Minute)

	done := doJSON(t, http.MethodGet, fmt.Sprintf("%s/resumes/%d", base, created.ID), token, nil)
	decodeBody(t, done, &got)
	if got.PredictedRole != "Data Scientist" {
		t.Fatalf("after delay predicted_role = %q, want Data Scientist", got.PredictedRole)
	}
	if got.ATSScore == 0 || len(got.ScoreBreakdown) == 0 {
		t.Fatalf("terminal resume missing analysis payload: %+v", got)
	}
}

func TestThrottleEveryN(t *testing.T) {
	_, srv := startStub(t, Options{ThrottleEvery: 2})
	base := srv.URL + "/api/v1"
	token := signupAndLogin(t, base)

	question := map[string]string{"question": "How do I improve my resume?"}

	first := doJSON(t, http.MethodPost, base+"/ai-mentor/chat", token, question)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first chat status = %d, want 200", first.StatusCode)
	}

	second := doJSON(t, http.MethodPost, base+"/ai-mentor/chat", token, question)
	if second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second chat status = %d, want 429", second.StatusCode)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, second, &envelope)
	if envelope.Error.Code != "RATE_LIMITED" {
		t.Fatalf("throttle error code = %q, want RATE_LIMITED", envelope.Error.Code)
	}
}

// TestEndToEndClientFlow drives the real client, session store and watcher
// against the stub: signup, login, upload, poll until analysis completes.
func TestEndToEndClientFlow(t *testing.T) {
	_, srv := startStub(t, Options{AnalysisDelay: 60 * time.Millisecond})

	store := session.NewMemStore()
	client := api.New(api.Options{
		BaseURL:     srv.URL + "/api/v1",
		TokenSource: store,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.CurrentUser(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("CurrentUser before login = %v, want ErrUnauthorized", err)
	}

	if _, err := client.Signup(ctx, api.SignupRequest{
		Email:    "dev@example.com",
		FullName: "Dev User",
		Password: "hunter2",
	}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, err := client.Login(ctx, "dev@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := store.Set(token.AccessToken); err != nil {
		t.Fatalf("store token: %v", err)
	}

	me, err := client.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if me.Email != "dev@example.com" {
		t.Fatalf("CurrentUser email = %q", me.Email)
	}

	uploaded, err := client.UploadResume(ctx, api.UploadRequest{
		Title:    "Frontend Portfolio",
		FileName: "resume.pdf",
		File:     strings.NewReader("resume body"),
	})
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if !uploaded.Analyzing() {
		t.Fatalf("fresh upload predicted_role = %q, want sentinel", uploaded.PredictedRole)
	}

	var updates []watch.Update
	w := watch.New(func(ctx context.Context) (api.Resume, error) {
		return client.GetResume(ctx, uploaded.ID)
	}, watch.Options{Interval: 25 * time.Millisecond, MaxAttempts: 100})
	w.OnUpdate = func(u watch.Update) { updates = append(updates, u) }

	final, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if final.PredictedRole != "Frontend Engineer" {
		t.Fatalf("final predicted_role = %q, want Frontend Engineer", final.PredictedRole)
	}

	if len(updates) < 2 {
		t.Fatalf("expected loading and ready updates, got %d", len(updates))
	}
	if updates[0].State != watch.Loading {
		t.Fatalf("first update state = %v, want Loading", updates[0].State)
	}
	if last := updates[len(updates)-1]; last.State != watch.Ready {
		t.Fatalf("last update state = %v, want Ready", last.State)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, err := client.ListResumes(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("ListResumes after logout = %v, want ErrUnauthorized", err)
	}
}
