package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errEmptyToken = errors.New("token cannot be empty")

func (a *app) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored admin session token",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the token issued by the admin login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.readToken(cmd)
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			if err := a.store().Set(cmd.Context(), a.opts.TokenKey, token); err != nil {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("store token: %w", err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session token saved.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store().Delete(cmd.Context(), a.opts.TokenKey); err != nil {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("clear token: %w", err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session token cleared.")
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}

// readToken masks input on a terminal and reads one line otherwise.
func (a *app) readToken(cmd *cobra.Command) (string, error) {
	var (
		token string
		err   error
	)
	switch {
	case a.opts.ReadSecret != nil:
		token, err = a.opts.ReadSecret("Admin token: ")
	case isTerminal(cmd.InOrStdin()):
		token, err = readPassword(cmd.ErrOrStderr(), "Admin token: ")
	default:
		token, err = readLine(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
