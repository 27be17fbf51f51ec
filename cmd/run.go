package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/example/toyoko-monitor/internal/config"
	"github.com/example/toyoko-monitor/internal/logging"
	"github.com/example/toyoko-monitor/internal/monitor"
	"github.com/example/toyoko-monitor/internal/notify"
	"github.com/example/toyoko-monitor/internal/pacer"
	"github.com/example/toyoko-monitor/internal/state"
	"github.com/example/toyoko-monitor/internal/toyoko"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the availability monitor loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if once {
				cfg.Monitor.RunOnce = true
			}
			logging.Init(cfg.Logging.Level, cfg.Logging.Format)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			p := pacer.New(cfg.Monitor.MinRequestInterval, cfg.Monitor.RequestJitter)
			client := toyoko.New(toyoko.Options{
				SearchURL:       cfg.Upstream.SearchURL,
				AvailabilityURL: cfg.Upstream.AvailabilityURL,
				Timeout:         cfg.Upstream.Timeout,
			}, p)
			store := state.Open(cfg.Monitor.StateFile)
			log.Info().Int("records", store.Len()).Str("file", cfg.Monitor.StateFile).Msg("state loaded")

			var channels []notify.Notifier
			if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
				channels = append(channels, notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
			}
			if cfg.Line.ChannelAccessToken != "" && cfg.Line.To != "" {
				channels = append(channels, notify.NewLine(cfg.Line.ChannelAccessToken, cfg.Line.To))
			}
			if len(channels) == 0 {
				log.Warn().Msg("no notification channels configured, changes will only be logged")
			}

			m := monitor.New(cfg, client, store, notify.NewFanout(channels...))
			if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}
