package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kidwise/api/internal/database"
	"github.com/kidwise/api/internal/eventbus"
	"github.com/kidwise/api/internal/llm"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var withAI bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity to Postgres, Redis, NATS and optionally the AI provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out := cmd.OutOrStdout()
			failed := 0

			report(out, "postgres", func() error {
				db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				var one int
				return db.Pool().QueryRow(ctx, "SELECT 1").Scan(&one)
			}, &failed)

			report(out, "redis", func() error {
				rdb, err := database.NewRedis(ctx, cfg.RedisURL)
				if err != nil {
					return err
				}
				return rdb.Close()
			}, &failed)

			report(out, "nats", func() error {
				p, err := eventbus.Connect(cfg.NATSURL, logger)
				if err != nil {
					return err
				}
				p.Close()
				return nil
			}, &failed)

			if withAI {
				report(out, "ai:"+cfg.AIProvider, func() error {
					completer, err := llm.New(llm.Config{
						Provider: cfg.AIProvider,
						APIKey:   cfg.APIKey(),
						Model:    cfg.AIModel,
						BaseURL:  cfg.AIBaseURL,
						Timeout:  cfg.AITimeout,
					}, logger)
					if err != nil {
						return err
					}
					_, err = completer.Complete(ctx, llm.Request{Prompt: "Reply with the single word: ok", MaxOutputTokens: 8})
					return err
				}, &failed)
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withAI, "ai", false, "also send a one-line prompt to the configured AI provider")
	return cmd
}

func report(out io.Writer, name string, check func() error, failed *int) {
	start := time.Now()
	if err := check(); err != nil {
		*failed++
		fmt.Fprintf(out, "FAIL  %-12s %v\n", name, err)
		return
	}
	fmt.Fprintf(out, "ok    %-12s %s\n", name, time.Since(start).Round(time.Millisecond))
}
