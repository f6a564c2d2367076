/*
Copyright © 2025 ExamForge Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	adapterrepo "github.com/examforge/prepcore/internal/adapter/repository"
	"github.com/examforge/prepcore/internal/infrastructure/config"
	"github.com/examforge/prepcore/internal/infrastructure/database"
	"github.com/examforge/prepcore/internal/infrastructure/logging"
	"github.com/examforge/prepcore/internal/usecase"
)

// workerCmd runs the periodic maintenance jobs: the nightly streak
// reconciliation shortly after the UTC day rolls over, and a readiness
// cache sweep so expired entries do not sit in memory between reads
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run periodic streak reconciliation and cache maintenance",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := logging.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		pool, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		streaks := usecase.NewStreakUsecase(
			adapterrepo.NewStreakRepository(pool),
			adapterrepo.NewProgressionRepository(pool),
		)
		readiness := usecase.NewReadinessUsecase(adapterrepo.NewStatsRepository(pool))

		scheduler := gocron.NewScheduler(time.UTC)

		_, err = scheduler.Every(1).Day().At("00:05").Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			repaired, err := streaks.ReconcileAll(ctx)
			if err != nil {
				logger.WithError(err).Error("nightly streak reconciliation failed")
				return
			}
			logger.WithField("repaired", repaired).Info("nightly streak reconciliation complete")
		})
		if err != nil {
			return fmt.Errorf("schedule reconciliation: %w", err)
		}

		_, err = scheduler.Every(5).Minutes().Do(func() {
			if swept := readiness.SweepCache(); swept > 0 {
				logger.WithField("swept", swept).Debug("readiness cache sweep")
			}
		})
		if err != nil {
			return fmt.Errorf("schedule cache sweep: %w", err)
		}

		scheduler.StartAsync()
		logger.WithFields(logrus.Fields{
			"jobs": len(scheduler.Jobs()),
		}).Info("worker started")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Infof("received signal: %s, shutting down", sig)
		scheduler.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
