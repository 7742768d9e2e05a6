package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/imagerepo/internal/app"
	"github.com/templui/imagerepo/internal/config"
)

// ConfigLoader returns the configuration commands operate on
type ConfigLoader func() *config.Config

func UserCmd(load ConfigLoader) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users and how many images they own",
		RunE: func(c *cobra.Command, args []string) error {
			return withApp(load(), func(a *app.App) error {
				summaries, err := a.UserService.Summaries()
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "USERNAME\tIMAGES\tCREATED")
				for _, s := range summaries {
					_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", s.User.Username, s.Images, s.User.CreatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	})

	userCmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user together with their images",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withApp(load(), func(a *app.App) error {
				err := a.UserService.DeleteAccount(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(c.OutOrStdout(), "deleted %s\n", args[0])
				return err
			})
		},
	})

	return userCmd
}

func withApp(cfg *config.Config, fn func(a *app.App) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
