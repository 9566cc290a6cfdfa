package gate

import (
	"context"

	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/common"
)

// OnboardingComplete reports the persisted onboarding flag. Absent or
// unreadable reads as false.
func OnboardingComplete(ctx context.Context, store securestore.Store) bool {
	done, err := securestore.GetBool(ctx, store, common.OnboardingCompleteKey)
	return err == nil && done
}

// CompleteOnboarding marks onboarding done. Finishing and skipping the slides
// both end up here.
func CompleteOnboarding(ctx context.Context, store securestore.Store) error {
	return securestore.SetBool(ctx, store, common.OnboardingCompleteKey, true)
}

// ResetOnboarding clears the onboarding flag. Developer utility.
func ResetOnboarding(ctx context.Context, store securestore.Store) error {
	return store.Delete(ctx, common.OnboardingCompleteKey)
}
