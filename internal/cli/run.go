package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/rentflow/internal/app/rentjob"
	"github.com/magabrotheeeer/rentflow/internal/cache"
	"github.com/magabrotheeeer/rentflow/internal/http/handlers/rentreminders/process"
	"github.com/magabrotheeeer/rentflow/internal/lib/logger"
	"github.com/magabrotheeeer/rentflow/internal/lib/sl"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

// RunCmd выполняет один проход по напоминаниям об аренде и печатает итог в JSON.
// Предназначена для запуска из cron.
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process rent reminders once and print the summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cfg.Env, cmd.ErrOrStderr())

			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			deps := rentjob.Deps{Repo: db}
			if cfg.Addr != "" {
				c, err := cache.InitServer(cmd.Context(), cfg.RedisConnection)
				if err != nil {
					log.Warn("redis unavailable, running without lock", sl.Err(err))
				} else {
					defer func() {
						_ = c.Close()
					}()
					deps.Cache = c
				}
			}

			job, err := rentjob.Build(cfg, deps, log)
			if err != nil {
				return err
			}
			summary := job.Run(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(process.Result{
				Success: true,
				Message: "Rent reminders processed",
				Results: summary,
			}); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
			return nil
		},
	}
}
