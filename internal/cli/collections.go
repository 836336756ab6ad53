package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"resortAdmin/internal/modules/admin/domain"
)

func (a *app) collectionCommand(collection domain.Collection) *cobra.Command {
	name := string(collection)
	cmd := &cobra.Command{
		Use:   name,
		Short: "Browse " + name,
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.settle(dashboard, dashboard.FetchPage(cmd.Context(), collection, page)); err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), collection, dashboard.State())
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number, starting at 1")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one record from " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return &ExitError{Code: ExitFailure, Err: fmt.Errorf("invalid id %q", args[0])}
			}
			dashboard, err := a.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.settle(dashboard, dashboard.OpenDetail(cmd.Context(), collection.DetailKind(), id)); err != nil {
				return err
			}
			return printDetail(cmd.OutOrStdout(), dashboard.State())
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
