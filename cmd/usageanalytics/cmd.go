package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vincentbai/usageanalytics/internal/analytics"
	"github.com/vincentbai/usageanalytics/internal/config"
	"github.com/vincentbai/usageanalytics/internal/database"
	"github.com/vincentbai/usageanalytics/internal/donottrack"
	"github.com/vincentbai/usageanalytics/internal/models"
	"github.com/vincentbai/usageanalytics/internal/server"
	"github.com/vincentbai/usageanalytics/internal/storage"
)

type app struct {
	cfgFile string
	cfg     *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "usageanalytics",
		Short:         "usageanalytics reports search, click, custom and view events to a usage analytics service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			config.SetLogLevel(cfg)
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "path to config file (default ./config.yaml)")

	root.AddCommand(a.serveCommand(), a.sendCommand(), a.visitCommand(), a.healthCommand())
	return root
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a local collection service that records events in SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			databasePath := a.cfg.Server.DatabasePath
			if databasePath == "" {
				directory, err := storage.ApplicationDirectory()
				if err != nil {
					return err
				}
				databasePath = filepath.Join(directory, "events.db")
			}

			db, err := database.NewDatabase(databasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			return server.NewServer(db, a.cfg.Server.Address, a.cfg.Server.Token).Start(cmd.Context())
		},
	}
}

func (a *app) sendCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:       "send {search|click|custom|view}",
		Short:     "Send one event with a JSON body",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{models.SearchEventType, models.ClickEventType, models.CustomEventType, models.ViewEventType},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(client *analytics.Client) error {
				var body models.EventRequest
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("invalid --data: %w", err)
				}

				resp, err := sendByType(cmd.Context(), client, args[0], body)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			})
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "{}", "JSON event body")
	return cmd
}

func sendByType(ctx context.Context, client *analytics.Client, eventType string, body models.EventRequest) (*models.EventResponse, error) {
	switch eventType {
	case models.ViewEventType:
		return client.SendViewEventBody(ctx, body)
	case models.SearchEventType, models.ClickEventType, models.CustomEventType:
		return client.SendEvent(ctx, eventType, body)
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func (a *app) visitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "visit",
		Short: "Fetch the current visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(client *analytics.Client) error {
				resp, err := client.GetVisit(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			})
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the health of the analytics service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(client *analytics.Client) error {
				resp, err := client.GetHealth(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			})
		},
	}
}

// withClient opens the visitor storage, builds a client honouring
// DO_NOT_TRACK, and closes the storage afterwards.
func (a *app) withClient(run func(*analytics.Client) error) error {
	backend, err := storage.Open(&a.cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()

	client, err := analytics.New(&a.cfg.Analytics, backend, donottrack.FromEnv)
	if err != nil {
		return err
	}
	return run(client)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
