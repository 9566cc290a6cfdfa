package cli

import (
	"context"
	"fmt"
)

var slides = []struct {
	title string
	body  string
}{
	{"Welcome to MedInvest", "The network where healthcare professionals and investors meet."},
	{"Rooms & Feed", "Join rooms for your specialty and follow the discussions that matter to you."},
	{"Deals", "Discover vetted medical and life-science investment opportunities."},
	{"Learn", "Courses and events curated by clinicians and fund managers."},
	{"AI Assistant", "Ask questions, summarise long posts and get a second opinion on deals."},
}

func (a *App) showSlide() {
	s := slides[a.slide]
	printlnFn(fmt.Sprintf("[%d/%d] %s", a.slide+1, len(slides), s.title))
	printlnFn("  " + s.body)
	if a.slide == len(slides)-1 {
		printlnFn("Type 'next' to get started.")
	} else {
		printlnFn("Type 'next' to continue or 'skip' to jump to login.")
	}
}

// Next advances the slides. Leaving the last slide completes onboarding.
func (a *App) Next(ctx context.Context) error {
	if a.slide < len(slides)-1 {
		a.slide++
		a.showSlide()
		return nil
	}
	return a.finishOnboarding(ctx)
}

// Skip completes onboarding from any slide.
func (a *App) Skip(ctx context.Context) error {
	return a.finishOnboarding(ctx)
}

func (a *App) finishOnboarding(ctx context.Context) error {
	if err := a.nav.CompleteOnboarding(ctx); err != nil {
		a.logger.Error(ctx, "saving onboarding flag", "error", err)
		printlnFn("Could not save your progress, please try again.")
		return err
	}
	return nil
}

// DevReset clears the onboarding flag so the slides show again.
func (a *App) DevReset(ctx context.Context) error {
	if err := a.nav.ResetOnboarding(ctx); err != nil {
		printlnFn("Reset failed:", err)
		return err
	}
	printlnFn("Onboarding reset.")
	return nil
}
