// Package cmd wires the CLI surface: every command resolves configuration,
// opens the session store, and drives the same store/authorizer path the
// dashboard uses.
package cmd

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/api"
	"github.com/requestdesk/requestdesk/internal/config"
	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/log"
	"github.com/requestdesk/requestdesk/internal/session"
	"github.com/requestdesk/requestdesk/internal/store"
	"github.com/requestdesk/requestdesk/internal/workflow"
)

var rootCmd = &cobra.Command{
	Use:   "requestdesk",
	Short: "Role-aware client for the request governance service",
	Long: `requestdesk is the terminal client for the request governance service.
Employees submit and track requests, managers approve or reject them inside
the SLA window, and administrators tune service settings, all against the
same backend the web dashboards use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetDefaultLogger(log.New(log.VerboseConfig()))
		}
	},
}

var (
	flagServer  string
	flagConfig  string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is ~/.config/requestdesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// app bundles the resolved configuration with the session store and backend
// client every command needs.
type app struct {
	cfg      config.Config
	sessions *session.Store
	client   *api.Client
}

// newApp resolves configuration (flags over environment over file) and
// constructs the shared dependencies.
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		cfg.ServerURL = flagServer
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	// --verbose wins over configured log settings.
	if !flagVerbose {
		log.SetDefaultLogger(log.New(log.Config{
			Level:  log.ParseLevel(cfg.LogLevel),
			Format: log.ParseFormat(cfg.LogFormat),
			Output: log.OutputStderr(),
		}))
	}

	credentialPath := cfg.CredentialPath
	if credentialPath == "" {
		credentialPath, err = session.DefaultCredentialPath()
		if err != nil {
			return nil, err
		}
	}
	sessions := session.NewStore(credentialPath)

	client := api.NewClient(cfg.ServerURL, sessions).
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout.Std()})

	return &app{cfg: cfg, sessions: sessions, client: client}, nil
}

// requireSession returns the current session or the standard not-logged-in
// error.
func (a *app) requireSession() (*session.Session, error) {
	sess, ok := a.sessions.Current()
	if !ok {
		return nil, errors.NewSessionMissingError()
	}
	return sess, nil
}

// requireRole route-guards a command: the session must exist and its role
// must be in the required set. The backend re-validates regardless.
func (a *app) requireRole(operation string, required ...access.Role) (*session.Session, error) {
	sess, err := a.requireSession()
	if err != nil {
		return nil, err
	}

	decision := access.Authorize(a.sessions.State(), required...)
	if !decision.Allowed() {
		return nil, errors.NewAccessDeniedError(string(sess.Role), operation)
	}
	return sess, nil
}

// newStore builds a request store bound to the session's actor. A 401 from
// any call terminates the stored session.
func (a *app) newStore(sess *session.Session) *store.Store {
	actor := workflow.Actor{Subject: sess.Subject, Role: sess.Role}
	return store.New(a.client, actor, store.WithUnauthorizedHook(a.sessions.Terminate))
}

// handlerRoles is the required set for approval and rejection commands.
func handlerRoles() []access.Role {
	return []access.Role{access.RoleManager, access.RoleBackupManager, access.RoleAdministrator}
}
