package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-client/internal/api"
	"resume-client/internal/extract"
	"resume-client/internal/watch"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func requireFlag(value, name string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("missing required flag -%s", name)
	}
	return value, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password (prompted when omitted)")
	fs.Parse(args)

	addr, err := requireFlag(*email, "email")
	if err != nil {
		return err
	}
	pass := *password
	if pass == "" {
		if pass, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	user, err := a.client.Signup(ctx, api.SignupRequest{Email: addr, FullName: *name, Password: pass})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Run: resume-cli login -email %s\n", user.Email, user.Email)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when omitted)")
	fs.Parse(args)

	addr, err := requireFlag(*email, "email")
	if err != nil {
		return err
	}
	pass := *password
	if pass == "" {
		if pass, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	token, err := a.client.Login(ctx, addr, pass)
	if err != nil {
		return err
	}
	if err := a.store.Set(token.AccessToken); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	fmt.Printf("Logged in as %s\n", addr)
	return nil
}

func (a *app) cmdLogout(args []string) error {
	newFlagSet("logout").Parse(args)
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	newFlagSet("whoami").Parse(args)
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> (id %d)\n", user.FullName, user.Email, user.ID)
	return nil
}

func (a *app) cmdUpload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload")
	file := fs.String("file", "", "resume file (.pdf or .docx)")
	title := fs.String("title", "", "resume title (defaults to the file name)")
	jd := fs.String("jd", "", "job description text to score against")
	jdFile := fs.String("jd-file", "", "job description file to score against")
	follow := fs.Bool("watch", false, "poll until analysis completes")
	fs.Parse(args)

	path, err := requireFlag(*file, "file")
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	jobDescription := *jd
	if *jdFile != "" {
		if jobDescription, err = extract.FromFile(*jdFile); err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
	}

	name := *title
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	resume, err := a.client.UploadResume(ctx, api.UploadRequest{
		Title:          name,
		JobDescription: jobDescription,
		FileName:       filepath.Base(path),
		File:           f,
	})
	if err != nil {
		return err
	}
	a.cache.InvalidatePrefix(ctx, "resumes/")

	fmt.Printf("Uploaded resume %d (%s), analysis in progress.\n", resume.ID, resume.Title)
	if !*follow {
		fmt.Printf("Run: resume-cli watch -id %d\n", resume.ID)
		return nil
	}
	return a.watchResume(ctx, resume.ID)
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	newFlagSet("list").Parse(args)

	var resumes []api.Resume
	err := a.cache.GetJSON(ctx, "resumes/list", &resumes, func(ctx context.Context) (interface{}, error) {
		return a.client.ListResumes(ctx)
	})
	if err != nil {
		return err
	}

	if len(resumes) == 0 {
		fmt.Println("No resumes yet. Run: resume-cli upload -file <path>")
		return nil
	}
	for _, r := range resumes {
		status := r.PredictedRole
		if r.Analyzing() {
			status = "analyzing"
		}
		fmt.Printf("%4d  %-30s  %-20s  ATS %.1f\n", r.ID, r.Title, status, r.ATSScore)
	}
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	fs := newFlagSet("show")
	id := fs.Int("id", 0, "resume id")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("missing required flag -id")
	}

	key := fmt.Sprintf("resumes/%d", *id)
	var resume api.Resume
	err := a.cache.GetJSON(ctx, key, &resume, func(ctx context.Context) (interface{}, error) {
		return a.client.GetResume(ctx, *id)
	})
	if err != nil {
		return err
	}
	// A pending result should not be served stale on the next show.
	if resume.Analyzing() {
		a.cache.Invalidate(ctx, key)
	}

	printResume(resume)
	return nil
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	fs := newFlagSet("watch")
	id := fs.Int("id", 0, "resume id")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("missing required flag -id")
	}
	return a.watchResume(ctx, *id)
}

func (a *app) watchResume(ctx context.Context, id int) error {
	w := watch.New(func(ctx context.Context) (api.Resume, error) {
		return a.client.GetResume(ctx, id)
	}, watch.Options{
		Interval:    a.cfg.PollInterval,
		Backoff:     1.5,
		MaxAttempts: 30,
	})
	w.OnUpdate = func(u watch.Update) {
		switch u.State {
		case watch.Pending:
			fmt.Printf("Analyzing... (attempt %d)\n", u.Attempt)
		case watch.Ready:
			fmt.Println("Analysis complete.")
		}
	}

	resume, err := w.Run(ctx)
	if err != nil {
		return err
	}
	a.cache.InvalidatePrefix(ctx, "resumes/")
	printResume(resume)
	return nil
}

func (a *app) cmdMatch(ctx context.Context, args []string) error {
	fs := newFlagSet("match")
	id := fs.Int("id", 0, "resume id")
	title := fs.String("title", "", "job title")
	company := fs.String("company", "", "company name")
	jd := fs.String("jd", "", "job description text")
	jdFile := fs.String("jd-file", "", "job description file")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("missing required flag -id")
	}

	description := *jd
	if *jdFile != "" {
		var err error
		if description, err = extract.FromFile(*jdFile); err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("provide a job description via -jd or -jd-file")
	}

	match, err := a.client.MatchJob(ctx, *id, api.JobPosting{
		Title:           *title,
		Company:         *company,
		DescriptionText: description,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Match: %.1f%%\n", match.MatchPercentage)
	if len(match.MissingSkills) > 0 {
		fmt.Printf("Missing skills: %s\n", strings.Join(match.MissingSkills, ", "))
	}
	for _, s := range match.ImprovementSuggestions {
		fmt.Printf("  - %s\n", s)
	}
	return nil
}

func (a *app) cmdRecommend(ctx context.Context, args []string) error {
	fs := newFlagSet("recommend")
	id := fs.Int("id", 0, "resume id")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("missing required flag -id")
	}

	var jobs []api.JobMatch
	key := fmt.Sprintf("jobs/recommendations/%d", *id)
	err := a.cache.GetJSON(ctx, key, &jobs, func(ctx context.Context) (interface{}, error) {
		return a.client.Recommendations(ctx, *id)
	})
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Println("No recommendations yet.")
		return nil
	}
	for _, j := range jobs {
		fmt.Printf("%-28s  %-16s  %5.1f%%  %s\n", j.Title, j.Company, j.MatchPercentage, j.SalaryRange)
		if j.ApplyLink != "" {
			fmt.Printf("    %s\n", j.ApplyLink)
		}
	}
	return nil
}

func printResume(r api.Resume) {
	fmt.Printf("Resume %d: %s (%s)\n", r.ID, r.Title, r.FileType)
	if r.Analyzing() {
		fmt.Println("Status: analysis in progress")
		return
	}
	fmt.Printf("Predicted role: %s\n", r.PredictedRole)
	fmt.Printf("ATS score: %.1f\n", r.ATSScore)
	for name, score := range r.ScoreBreakdown {
		fmt.Printf("  %-20s %.1f\n", name, score)
	}
	if len(r.MissingKeywords) > 0 {
		fmt.Printf("Missing keywords: %s\n", strings.Join(r.MissingKeywords, ", "))
	}
	if r.AIFeedback != "" {
		fmt.Printf("Feedback: %s\n", r.AIFeedback)
	}
}
