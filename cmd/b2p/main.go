package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/cli/auth"
	"github.com/b2p/b2p-admin/internal/cli/bookings"
	"github.com/b2p/b2p-admin/internal/cli/fields"
	"github.com/b2p/b2p-admin/internal/cli/schedules"
	"github.com/b2p/b2p-admin/internal/cli/system"
	"github.com/b2p/b2p-admin/internal/config"
	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/keyring"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/session"
)

var CLI struct {
	Version   kong.VersionFlag
	APIURL    string `name:"api-url" help:"Backend base URL (overrides B2P_API_BASE_URL)."`
	ConfigDir string `help:"Directory for the cache and logs (overrides B2P_CONFIG_DIR)."`
	EnvFile   string `help:"Environment file to load." default:".env"`
	Debug     bool   `help:"Enable debug logging."`

	Login     auth.LoginCmd       `cmd:"" help:"Sign in as an administrator."`
	Logout    auth.LogoutCmd      `cmd:"" help:"Sign out and forget the stored session."`
	Whoami    auth.WhoamiCmd      `cmd:"" help:"Show the signed-in administrator."`
	Tui       system.TuiCmd       `cmd:"" help:"Launch the interactive admin panel." default:"1"`
	Dashboard system.DashboardCmd `cmd:"" help:"Show the booking and revenue summary."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run diagnostics."`
	Fields    struct {
		List       fields.ListCmd       `cmd:"" help:"List fields."`
		Create     fields.CreateCmd     `cmd:"" help:"Create a field."`
		Update     fields.UpdateCmd     `cmd:"" help:"Update a field."`
		Deactivate fields.DeactivateCmd `cmd:"" help:"Deactivate a field."`
		Stats      fields.StatsCmd      `cmd:"" help:"Count fields by type and status."`
	} `cmd:"" help:"Manage fields."`
	Bookings struct {
		List   bookings.ListCmd   `cmd:"" help:"List bookings."`
		Day    bookings.DayCmd    `cmd:"" help:"Show the availability grid of a day."`
		Create bookings.CreateCmd `cmd:"" help:"Create a booking."`
		Edit   bookings.EditCmd   `cmd:"" help:"Edit a booking."`
		Delete bookings.DeleteCmd `cmd:"" help:"Delete a booking."`
	} `cmd:"" help:"Manage bookings."`
	Schedules struct {
		List schedules.ListCmd `cmd:"" help:"List schedule slots."`
	} `cmd:"" help:"Inspect the schedule catalog."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("B2-P sports field booking administration"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		apperrors.Fatalf("failed to load configuration: %v", err)
	}
	if CLI.APIURL != "" {
		cfg.APIBaseURL = strings.TrimRight(CLI.APIURL, "/")
	}
	if CLI.ConfigDir != "" {
		if cfg.ConfigDir, err = config.ExpandHome(CLI.ConfigDir); err != nil {
			apperrors.Fatal(err)
		}
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	if err := logger.Init(logger.Config{
		Debug:       cfg.Debug,
		ConfigDir:   cfg.ConfigDir,
		Interactive: ctx.Command() == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	var tokens session.TokenStore = keyring.NewStore()
	if !keyring.IsAvailable() {
		logger.Warn("OS keyring not available, the session will last for this run only")
		tokens = session.NewMemoryStore()
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := cli.NewContext(base, cfg, tokens)

	err = ctx.Run(appCtx)
	_ = appCtx.Close()
	stop()
	apperrors.Fatal(err)
}
