// Command resume-cli is a terminal client for the resume-analyzer backend:
// account management, resume upload with analysis watching, job matching and
// the AI mentor features, all over the versioned HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"resume-client/internal/api"
	"resume-client/internal/cache"
	"resume-client/internal/session"
	"resume-client/internal/shared/config"
	"resume-client/internal/shared/telemetry"
)

const usage = `Usage: resume-cli [-api URL] <command> [options]

Account:
  signup      create an account
  login       store a session token
  logout      clear the stored session
  whoami      show the logged-in user

Resumes:
  upload      upload a resume for analysis
  list        list your resumes
  show        show one resume
  watch       poll a resume until analysis completes

Jobs:
  match       score a resume against a job description
  recommend   list recommended jobs for a resume

Mentor:
  chat        interactive mentor conversation
  insight     deep career analysis of a resume file
  roadmap     learning roadmap toward a target role
  predict     predict career paths from a profile
  strategy    resume strategy for a company tier

Rewrite:
  rewrite     rewrite a resume against a job description
  grammar     polish the grammar of a text file
`

type app struct {
	cfg    config.Config
	store  *session.FileStore
	guard  session.Guard
	client *api.Client
	cache  *cache.Cache
}

func main() {
	apiOverride := flag.String("api", "", "backend origin (overrides RESUME_API_URL)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx, *apiOverride)
	defer a.cache.Close()

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(os.Stderr, "Not logged in. Run: resume-cli login")
		} else {
			fmt.Fprintln(os.Stderr, api.UserMessage(err))
		}
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newApp(ctx context.Context, apiOverride string) *app {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel)
	if apiOverride != "" {
		cfg.BaseURL = config.ResolveBaseURL(apiOverride)
	}

	store := session.NewFileStore(cfg.TokenFile)

	qc, err := cache.Open(ctx, cfg.CacheDB)
	if err != nil {
		log.Warn().Err(err).Msg("query cache unavailable, running without persistence")
		qc = cache.NewMemory()
	}

	client := api.New(api.Options{
		BaseURL:     cfg.BaseURL,
		TokenSource: store,
		Timeout:     cfg.HTTPTimeout,
		MentorRoute: cfg.MentorRoute,
		RateLimitNotifier: func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		},
	})

	return &app{
		cfg:    cfg,
		store:  store,
		guard:  session.Guard{Store: store},
		client: client,
		cache:  qc,
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.cmdSignup(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(args)
	case "whoami":
		return a.authed(ctx, args, a.cmdWhoami)
	case "upload":
		return a.authed(ctx, args, a.cmdUpload)
	case "list":
		return a.authed(ctx, args, a.cmdList)
	case "show":
		return a.authed(ctx, args, a.cmdShow)
	case "watch":
		return a.authed(ctx, args, a.cmdWatch)
	case "match":
		return a.authed(ctx, args, a.cmdMatch)
	case "recommend":
		return a.authed(ctx, args, a.cmdRecommend)
	case "chat":
		return a.authed(ctx, args, a.cmdChat)
	case "insight":
		return a.authed(ctx, args, a.cmdInsight)
	case "roadmap":
		return a.authed(ctx, args, a.cmdRoadmap)
	case "predict":
		return a.authed(ctx, args, a.cmdPredict)
	case "strategy":
		return a.authed(ctx, args, a.cmdStrategy)
	case "rewrite":
		return a.authed(ctx, args, a.cmdRewrite)
	case "grammar":
		return a.authed(ctx, args, a.cmdGrammar)
	case "help", "-h", "--help":
		flag.Usage()
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// authed gates a command on a stored session and translates a rejected
// credential into a forced logout so the next attempt starts clean.
func (a *app) authed(ctx context.Context, args []string, fn func(context.Context, []string) error) error {
	if err := a.guard.Require(); err != nil {
		return err
	}
	err := fn(ctx, args)
	if errors.Is(err, api.ErrUnauthorized) {
		_ = a.store.Clear()
		fmt.Fprintln(os.Stderr, "Session rejected by the server; logged out. Run: resume-cli login")
	}
	return err
}
