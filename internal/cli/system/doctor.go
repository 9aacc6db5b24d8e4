package system

import (
	"fmt"
	"time"

	"github.com/b2p/b2p-admin/internal/cli"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	skip := func(name, reason string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	// Check 1: Configuration
	configured := false
	if err := checkConfig(ctx); err != nil {
		fail("Configuration", err)
	} else {
		ctx.Printf("✓ Configuration: OK\n")
		configured = true
	}

	// Check 2: Keyring (warning only)
	if !keyring.IsAvailable() {
		ctx.Printf("⚠ Keyring: WARNING\n")
		ctx.Printf("   OS keyring not available, sessions will not persist between runs\n")
	} else {
		ctx.Printf("✓ Keyring: OK\n")
	}

	// Check 3: Local cache
	if err := checkCache(ctx); err != nil {
		ctx.Printf("⚠ Offline cache: WARNING\n")
		ctx.Printf("   %v\n", err)
	} else {
		ctx.Printf("✓ Offline cache: OK\n")
	}

	// Check 4: Session
	signedIn := false
	if !configured {
		skip("Session", "configuration incomplete")
	} else if user, err := ctx.RequireSession(); err != nil {
		fail("Session", err)
	} else {
		ctx.Printf("✓ Session: OK (%s)\n", user.Email)
		signedIn = true
	}

	// Check 5: Backend reachable and administrator rights
	if !signedIn {
		skip("Backend", "no session")
	} else if err := ctx.Auth.VerifyAdmin(ctx.Context()); err != nil {
		fail("Backend", err)
	} else {
		ctx.Printf("✓ Backend: OK (%s)\n", ctx.Client.BaseURL())
	}

	// Check 6: Clock/timezone sanity
	if err := checkClock(ctx.Now()); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.Printf("✓ Clock/timezone: OK\n")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config.APIBaseURL == "" {
		return apperrors.ErrMissingBaseURL
	}
	if ctx.Config.FirebaseAPIKey == "" {
		return fmt.Errorf("B2P_FIREBASE_API_KEY is not set")
	}
	return nil
}

func checkCache(ctx *cli.Context) error {
	if ctx.Cache == nil {
		return fmt.Errorf("cache could not be opened at %s", ctx.Config.CachePath())
	}
	if err := ctx.Cache.Ping(ctx.Context()); err != nil {
		return fmt.Errorf("failed to query cache: %w", err)
	}
	current, latest, err := ctx.Cache.Version(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get cache schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("cache schema version %d, expected %d", current, latest)
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
