package main

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/apiclient"
	"github.com/noah-isme/tutorhub/internal/appstate"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/internal/service"
	"github.com/noah-isme/tutorhub/internal/tokenstore"
	"github.com/noah-isme/tutorhub/pkg/clock"
	"github.com/noah-isme/tutorhub/pkg/config"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/logger"
)

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// app holds the wiring shared by every command.
type app struct {
	cfg       *config.Config
	streams   streams
	logger    *zap.Logger
	clock     clock.Clock
	validator *validator.Validate
	catalog   *notice.Catalog
	notifier  notice.Notifier
	metrics   *service.MetricsService
	sessions  *tokenstore.FileStore
	api       *apiclient.Client
	state     *appstate.State
	auth      *service.AuthService
}

func newApp(cfg *config.Config, s streams) (*app, error) {
	logr, err := logger.New(cfg, "tutorctl")
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		streams:   s,
		logger:    logr,
		clock:     clock.New(),
		validator: validator.New(),
		catalog:   notice.NewCatalog(cfg.Locale),
		notifier:  notice.NewWriterNotifier(s.out, s.errOut),
		metrics:   service.NewMetricsService(),
		sessions:  tokenstore.NewFileStore(cfg.Session.File),
		state:     appstate.New(),
	}
	a.api = apiclient.New(cfg.API.BaseURL, tokenstore.TokenSource{Store: a.sessions},
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithUserAgent(cfg.API.UserAgent),
		apiclient.WithLogger(logr),
		apiclient.WithObserver(a.metrics),
	)
	a.auth = service.NewAuthService(a.api, a.sessions, a.state, a.clock, a.notifier, a.catalog, a.validator, logr)
	return a, nil
}

// requireSession restores the persisted sign-in or fails with a notice.
func (a *app) requireSession(ctx context.Context) error {
	ok, err := a.auth.Restore(ctx)
	if err != nil {
		return err
	}
	if !ok {
		a.notifier.Notify(notice.Notice{Kind: notice.KindError, Title: a.catalog.Text(notice.TitleError), Message: a.catalog.Text(notice.NotSignedIn)})
		return appErrors.Clone(appErrors.ErrUnauthorized, "not signed in")
	}
	return nil
}

func (a *app) scheduleService() *service.ScheduleService {
	return service.NewScheduleService(a.api, a.state, a.notifier, a.catalog, a.logger)
}

func (a *app) sessionService() *service.SessionService {
	return service.NewSessionService(a.api, a.clock, a.cfg.Location(), a.notifier, a.catalog, a.validator, a.logger)
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

func newRootCmd(load func() (*config.Config, error), s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tutorctl",
		Short:         "Attendance client for the tutoring school",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, s)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)

	cmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newQRCmd(),
		newScanCmd(),
		newScheduleCmd(),
		newAttendanceCmd(),
		newSessionsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Printf("tutorctl %s\n", version)
			},
		},
	)
	return cmd
}
