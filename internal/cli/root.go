package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
)

const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRedirect = 2
)

// ExitError carries the process exit status for a failed command.
type ExitError struct {
	Code int
	Err  error
	// Reported is set when the message was already written to the error stream.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// TokenStore is the session storage the CLI reads and writes.
type TokenStore interface {
	port.SessionStore
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options configures the command tree. Zero values fall back to process defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	SessionFile string
	TokenKey    string
	LoginPath   string
	Out         io.Writer
	Err         io.Writer
	In          io.Reader
	// Store overrides the session file store.
	Store TokenStore
	// ReadSecret overrides masked terminal input.
	ReadSecret func(prompt string) (string, error)
}

type app struct {
	opts    Options
	baseURL string
	timeout time.Duration
	file    string
}

// NewRootCommand builds the admincli command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if strings.TrimSpace(opts.TokenKey) == "" {
		opts.TokenKey = "admin_token"
	}
	if strings.TrimSpace(opts.LoginPath) == "" {
		opts.LoginPath = usecase.DefaultLoginPath
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "admincli",
		Short:         "Browse resort bookings and payments from the admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.SetIn(opts.In)
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", opts.BaseURL, "admin REST API base URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", opts.Timeout, "request timeout")
	root.PersistentFlags().StringVar(&a.file, "session-file", opts.SessionFile, "file holding the admin session token")

	root.AddCommand(
		a.collectionCommand(domain.CollectionBookings),
		a.collectionCommand(domain.CollectionPayments),
		a.sessionCommand(),
	)
	return root
}

func (a *app) store() TokenStore {
	if a.opts.Store != nil {
		return a.opts.Store
	}
	return infrastructure.NewFileSessionStore(a.file)
}

func (a *app) fetcher() port.AdminFetcher {
	return infrastructure.NewAdminHTTPClient(a.baseURL, a.timeout, nil)
}

// dashboard opens a terminal view activation. A missing token ends it with
// the redirect exit status before any fetch is made.
func (a *app) dashboard(ctx context.Context) (*usecase.Dashboard, error) {
	navigator := &terminalNavigator{}
	tokens := infrastructure.NewStoreTokenProvider(a.store(), a.opts.TokenKey)
	dashboard := usecase.NewDashboard(tokens, a.fetcher(), navigator, nil, a.opts.LoginPath)
	if dashboard.CheckSession(ctx) != domain.PhaseAuthenticated {
		return nil, a.redirectError(navigator.location(a.opts.LoginPath))
	}
	return dashboard, nil
}

// settle turns a dashboard error into the CLI's exit semantics.
func (a *app) settle(dashboard *usecase.Dashboard, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, usecase.ErrRedirected) || dashboard.Phase() == domain.PhaseRedirecting {
		return a.redirectError(dashboard.State().Redirect)
	}
	var fetchErr *usecase.FetchError
	if errors.As(err, &fetchErr) {
		fmt.Fprintln(a.opts.Err, fetchErr.Message)
		return &ExitError{Code: ExitFailure, Err: fetchErr, Reported: true}
	}
	return &ExitError{Code: ExitFailure, Err: err}
}

func (a *app) redirectError(location string) error {
	if location == "" {
		location = a.opts.LoginPath
	}
	fmt.Fprintf(a.opts.Err, "%s\nSign in at %s, then run `admincli session set`.\n", domain.MessageUnauthorized, location)
	return &ExitError{Code: ExitRedirect, Err: usecase.ErrRedirected, Reported: true}
}

type terminalNavigator struct {
	target string
}

func (n *terminalNavigator) Redirect(target string) { n.target = target }

func (n *terminalNavigator) location(fallback string) string {
	if n.target != "" {
		return n.target
	}
	return fallback
}
