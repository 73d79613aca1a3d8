package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trolleydev/trolley/internal/app"
	"github.com/trolleydev/trolley/internal/cart"
)

var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "trolley: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "trolley",
		Short:         "Terminal storefront client with an offline-tolerant cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "override config path (optional)")
	root.PersistentFlags().StringVar(&opts.SessionPath, "session", "", "override session path (optional)")
	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "override preferences path (optional)")
	root.Flags().IntVar(&opts.PollEvery, "poll", 0, "catalog refresh interval in seconds (optional)")

	root.AddCommand(
		newLoginCmd(&opts),
		newLogoutCmd(&opts),
		newSyncCmd(&opts),
		newCartCmd(&opts),
		newVersionCmd(),
	)
	return root
}

// newLoginCmd signs in without starting the TUI.
func newLoginCmd(opts *app.Options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("both --username and --password are required")
			}
			rt, err := app.Bootstrap(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			resp, err := rt.Client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := rt.Session.Establish(resp.Access, resp.Refresh, resp.CSRF,
				resp.User.ID, resp.User.Username, resp.User.Email); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Printf("signed in as %s\n", resp.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local cart state",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Engine.Reset()
			rt.Session.Clear()
			fmt.Println("signed out")
			return nil
		},
	}
}

// newSyncCmd flushes pending cart edits without starting the TUI. Useful
// after a crash left unsynced changes in the local backup.
func newSyncCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push locally saved cart changes to the storefront",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Session.Authenticated() {
				return fmt.Errorf("not signed in")
			}
			rt.RestoreCart(cmd.Context())
			if !rt.Engine.ForceSync(cmd.Context()) {
				if last, ok := rt.Notices.Last(); ok {
					return fmt.Errorf("sync failed: %s", last.Message)
				}
				return fmt.Errorf("sync failed")
			}
			fmt.Println("cart synced")
			return nil
		},
	}
}

func newCartCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Print the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Session.Authenticated() {
				return fmt.Errorf("not signed in")
			}
			rt.RestoreCart(cmd.Context())
			printCart(rt.Cart.Snapshot())
			return nil
		},
	}
}

func printCart(snap cart.Snapshot) {
	if len(snap.Lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range snap.Lines {
		marker := " "
		if _, pending := snap.Pending[line.ProductID]; pending {
			marker = "*"
		}
		fmt.Printf("%s %-40s x%-4d $%s\n", marker, line.Name, line.Quantity, line.UnitPrice)
	}
	fmt.Printf("\n%d items", snap.TotalItems)
	if snap.Total != "" {
		fmt.Printf("  total $%s", snap.Total)
	}
	fmt.Println()
	if len(snap.Pending) > 0 {
		fmt.Println("* not yet synced")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the trolley version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("trolley " + version)
		},
	}
}
