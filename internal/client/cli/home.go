package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/medinvest/medinvest/internal/client/assistant"
)

// Status prints the signed-in user, connectivity and biometric setup.
func (a *App) Status(ctx context.Context) error {
	s := a.sessions.Current()
	if s == nil {
		printlnFn("Not signed in.")
		return nil
	}

	printlnFn("User:     ", displayName(s.User.FullName, s.User.Email), "<"+s.User.Email+">")
	if !s.ExpiresAt.IsZero() {
		printlnFn("Expires:  ", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	printlnFn("Mode:     ", a.getMode())

	st := a.bio.Status(ctx)
	switch {
	case a.bio.IsEnabled(ctx):
		printlnFn("Biometric:", a.caps.BiometricLabel, "enabled")
	case st.Ready():
		printlnFn("Biometric:", a.caps.BiometricLabel, "available, not enabled")
	default:
		printlnFn("Biometric: unavailable")
	}
	return nil
}

// Ask continues the assistant conversation of this session.
func (a *App) Ask(ctx context.Context, question string) error {
	turns := append(a.history, assistant.Turn{Role: assistant.RoleUser, Content: question})

	reply, err := a.assistant.Chat(ctx, turns, a.userContext())
	if err != nil {
		printlnFn("Assistant unavailable:", err)
		return err
	}
	if reply == "" {
		printlnFn("The assistant had nothing to say.")
		return nil
	}

	a.history = append(turns, assistant.Turn{Role: assistant.RoleAssistant, Content: reply})
	printlnFn(reply)
	return nil
}

func (a *App) userContext() string {
	s := a.sessions.Current()
	if s == nil || s.User.FullName == "" {
		return ""
	}
	return "The user's name is " + s.User.FullName + "."
}

func (a *App) Summarize(ctx context.Context) error {
	text, err := GetMultiline(ctx, a.lines, "Paste the text to summarise", a.out)
	if err != nil || text == "" {
		return err
	}

	res, err := a.assistant.Summarize(ctx, text)
	if err != nil {
		printlnFn("Assistant unavailable:", err)
		return err
	}
	printlnFn(res.Summary)
	for _, p := range res.KeyPoints {
		printlnFn(" -", p)
	}
	return nil
}

func (a *App) Moderate(ctx context.Context) error {
	text, err := GetMultiline(ctx, a.lines, "Paste the post to check", a.out)
	if err != nil || text == "" {
		return err
	}

	res, err := a.assistant.Moderate(ctx, text)
	if err != nil {
		printlnFn("Assistant unavailable:", err)
		return err
	}
	if !res.Flagged {
		printlnFn("Looks fine.")
		return nil
	}
	printlnFn("Flagged:", strings.Join(res.Categories, ", "))
	if res.Reason != "" {
		printlnFn(res.Reason)
	}
	return nil
}

// AnalyzeDeal prompts for a deal and prints the assistant's assessment.
func (a *App) AnalyzeDeal(ctx context.Context) error {
	var d assistant.Deal
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Deal title", &d.Title},
		{"Company", &d.Company},
		{"Sector", &d.Sector},
		{"Stage", &d.Stage},
	}
	for _, f := range fields {
		v, err := getSimpleText(ctx, a.lines, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	raise, err := getSimpleText(ctx, a.lines, "Target raise (USD)", a.out)
	if err != nil {
		return err
	}
	d.TargetRaise, _ = strconv.ParseFloat(strings.ReplaceAll(raise, ",", ""), 64)

	if d.Description, err = GetMultiline(ctx, a.lines, "Description", a.out); err != nil {
		return err
	}

	res, err := a.assistant.AnalyzeDeal(ctx, d)
	if err != nil {
		printlnFn("Assistant unavailable:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Score: %d/10", res.Score))
	for _, s := range res.Strengths {
		printlnFn(" +", s)
	}
	for _, r := range res.Risks {
		printlnFn(" -", r)
	}
	if res.Recommendation != "" {
		printlnFn(res.Recommendation)
	}
	return nil
}
