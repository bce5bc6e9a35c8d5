// Package cli implements the rentalctl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/config"
	"github.com/avrentops/rentalctl/internal/credstore"
	"github.com/avrentops/rentalctl/internal/eventsync"
	"github.com/avrentops/rentalctl/internal/observability"
	"github.com/avrentops/rentalctl/internal/session"
)

// runtime is everything a subcommand needs, built once in the root's
// PersistentPreRunE.
type runtime struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Manager
	syncer  *eventsync.Syncer
	jsonOut bool
}

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	envFile string
	jsonOut bool
	ci      bool
}

func NewRootCommand() *cobra.Command {
	// Parent hooks must keep running for grouped commands: the root hook
	// builds the client, group hooks check the session.
	cobra.EnableTraverseRunHooks = true

	opts := &rootOptions{}
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:           "rentalctl",
		Short:         "Admin console for the AV rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := config.LoadEnvFile(opts.envFile); err != nil {
					return err
				}
			} else {
				_ = config.LoadEnvFile(".env")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.APIBaseURL = opts.apiURL
			}
			if opts.timeout > 0 {
				cfg.RequestTimeout = opts.timeout
			}

			logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			store, err := credstore.NewFileStore(cfg.CredentialDir)
			if err != nil {
				return err
			}
			client := api.New(cfg.APIBaseURL, store,
				api.WithTimeout(cfg.RequestTimeout),
				api.WithLogger(logger),
			)

			rt.cfg = cfg
			rt.client = client
			rt.session = session.NewManager(store, client, session.WithLogger(logger))
			rt.syncer = eventsync.NewSyncer(client, logger)
			rt.jsonOut = opts.jsonOut || opts.ci
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "API base URL (overrides RENTAL_API_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (overrides RENTALCTL_REQUEST_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load before reading configuration")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive mode: no spinner, JSON output")

	cmd.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newRegisterCommand(rt),
		newEventsCommand(rt),
		newEquipmentCommand(rt),
		newCategoriesCommand(rt),
		newUsersCommand(rt),
		newMaintenanceCommand(rt),
		newVehiclesCommand(rt),
		newTransportsCommand(rt),
		newWhatsAppCommand(rt),
		newActivityCommand(rt),
		newDoctorCommand(rt),
	)
	return cmd
}

// requireSession rehydrates stored credentials and fails fast when the
// user is not signed in.
func requireSession(rt *runtime, cmd *cobra.Command) error {
	if err := rt.session.Rehydrate(cmd.Context()); err != nil {
		return err
	}
	if !rt.session.IsAuthenticated() {
		return fmt.Errorf("not signed in; run `rentalctl login` first")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON in --json mode, or hands off to render for the
// human-readable view.
func emit(rt *runtime, v any, render func()) error {
	if rt.jsonOut {
		return printJSON(v)
	}
	render()
	return nil
}

// loadJSONFile reads a request payload from a file, "-" meaning stdin.
func loadJSONFile[T any](path string) (*T, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &v, nil
}
