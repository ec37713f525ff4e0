package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"resume-client/internal/api"
	"resume-client/internal/extract"
	"resume-client/internal/mentor"
)

func (a *app) cmdChat(ctx context.Context, args []string) error {
	fs := newFlagSet("chat")
	resumeID := fs.Int("resume", 0, "ground the conversation in this resume")
	fs.Parse(args)

	var id *int
	if *resumeID > 0 {
		id = resumeID
	}
	sess := mentor.NewSession(a.client, id, mentor.CapChat)

	fmt.Println("Mentor chat. Empty line or Ctrl-D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		reply, err := sess.Ask(ctx, question)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n\n", reply)
	}
	return scanner.Err()
}

func (a *app) cmdInsight(ctx context.Context, args []string) error {
	fs := newFlagSet("insight")
	file := fs.String("file", "", "resume file to analyze")
	skills := fs.String("skills", "", "comma-separated skills")
	graph := fs.String("graph", "", "write the skill graph PNG to this path")
	fs.Parse(args)

	path, err := requireFlag(*file, "file")
	if err != nil {
		return err
	}
	text, err := extract.FromFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	sess := mentor.NewSession(a.client, nil, mentor.CapFitAnalysis, mentor.CapSkillGraph)
	insight, err := sess.FitAnalysis(ctx, text, splitCSV(*skills))
	if err != nil {
		return err
	}

	fmt.Printf("Recommended role: %s (%s)\n", insight.RecommendedRole, insight.Domain)
	if insight.MarketDemand != "" {
		fmt.Printf("Market demand: %s, salary %s, growth %.1f\n",
			insight.MarketDemand, insight.SalaryRange, insight.GrowthScore)
	}
	if len(insight.MissingSkills) > 0 {
		fmt.Printf("Missing skills: %s\n", strings.Join(insight.MissingSkills, ", "))
	}
	if insight.MentorAdvice != "" {
		fmt.Printf("\n%s\n", insight.MentorAdvice)
	}

	if *graph != "" {
		png, err := sess.SkillGraphPNG(insight)
		if err != nil {
			return fmt.Errorf("decode skill graph: %w", err)
		}
		if err := os.WriteFile(*graph, png, 0o644); err != nil {
			return err
		}
		fmt.Printf("Skill graph written to %s\n", *graph)
	}
	return nil
}

func (a *app) cmdRoadmap(ctx context.Context, args []string) error {
	fs := newFlagSet("roadmap")
	id := fs.Int("id", 0, "resume id")
	role := fs.String("role", "", "target role")
	fs.Parse(args)
	if *id <= 0 {
		return fmt.Errorf("missing required flag -id")
	}
	target, err := requireFlag(*role, "role")
	if err != nil {
		return err
	}

	sess := mentor.NewSession(a.client, id, mentor.CapRoadmap)
	roadmap, err := sess.Roadmap(ctx, target)
	if err != nil {
		return err
	}

	if len(roadmap.Steps) == 0 {
		fmt.Println("No roadmap steps returned.")
		return nil
	}
	for i, step := range roadmap.Steps {
		fmt.Printf("%d. %s (%s)\n", i+1, step.Goal, step.Duration)
		if len(step.Skills) > 0 {
			fmt.Printf("   Skills: %s\n", strings.Join(step.Skills, ", "))
		}
		if step.Resource != "" {
			fmt.Printf("   Resource: %s\n", step.Resource)
		}
	}
	return nil
}

func (a *app) cmdPredict(ctx context.Context, args []string) error {
	fs := newFlagSet("predict")
	branch := fs.String("branch", "", "field of study or current branch")
	skills := fs.String("skills", "", "comma-separated skills")
	interests := fs.String("interests", "", "comma-separated interests")
	fs.Parse(args)

	predictions, err := a.client.PredictCareer(ctx, api.CareerProfile{
		Branch:    *branch,
		Skills:    splitCSV(*skills),
		Interests: splitCSV(*interests),
	})
	if err != nil {
		return err
	}

	for _, p := range predictions {
		fmt.Printf("%-32s %5.0f%%  %s\n", p.Role, p.Confidence*100, p.Reason)
	}
	return nil
}

func (a *app) cmdStrategy(ctx context.Context, args []string) error {
	fs := newFlagSet("strategy")
	tier := fs.String("tier", "", "company tier (e.g. faang, startup, service)")
	fs.Parse(args)

	name, err := requireFlag(*tier, "tier")
	if err != nil {
		return err
	}

	var strategy api.Strategy
	err = a.cache.GetJSON(ctx, "strategy/"+name, &strategy, func(ctx context.Context) (interface{}, error) {
		return a.client.Strategy(ctx, name)
	})
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(strategy, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

func (a *app) cmdRewrite(ctx context.Context, args []string) error {
	fs := newFlagSet("rewrite")
	file := fs.String("file", "", "resume file to rewrite")
	jd := fs.String("jd", "", "job description text")
	jdFile := fs.String("jd-file", "", "job description file")
	mode := fs.String("mode", "ATS", "rewrite mode: ATS or Creative")
	fs.Parse(args)

	path, err := requireFlag(*file, "file")
	if err != nil {
		return err
	}
	text, err := extract.FromFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	description := *jd
	if *jdFile != "" {
		if description, err = extract.FromFile(*jdFile); err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
	}

	result, err := a.client.Transform(ctx, text, description, *mode)
	if err != nil {
		return err
	}
	if !result.Success {
		if result.Err != "" {
			return fmt.Errorf("rewrite failed: %s", result.Err)
		}
		return fmt.Errorf("rewrite failed")
	}
	if result.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", result.Warning)
	}
	fmt.Println(result.RewrittenResume)
	return nil
}

func (a *app) cmdGrammar(ctx context.Context, args []string) error {
	fs := newFlagSet("grammar")
	file := fs.String("file", "", "text file to polish")
	fs.Parse(args)

	path, err := requireFlag(*file, "file")
	if err != nil {
		return err
	}
	text, err := extract.FromFile(path)
	if err != nil {
		return err
	}

	enhanced, err := a.client.EnhanceGrammar(ctx, text)
	if err != nil {
		return err
	}
	fmt.Println(enhanced)
	return nil
}
