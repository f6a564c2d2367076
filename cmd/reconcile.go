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
	"fmt"

	"github.com/spf13/cobra"

	adapterrepo "github.com/examforge/prepcore/internal/adapter/repository"
	"github.com/examforge/prepcore/internal/infrastructure/config"
	"github.com/examforge/prepcore/internal/infrastructure/database"
	"github.com/examforge/prepcore/internal/infrastructure/logging"
	"github.com/examforge/prepcore/internal/usecase"
)

// reconcileCmd recomputes streak counters from the activity ledger,
// repairing drift left by missed or out-of-order award events
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute streaks from recorded activity days",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

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

		userID, _ := cmd.Flags().GetInt64("user")
		if userID > 0 {
			current, err := streaks.Reconcile(ctx, userID)
			if err != nil {
				return fmt.Errorf("reconcile user %d: %w", userID, err)
			}
			logger.WithField("user_id", userID).WithField("current_streak", current).
				Info("streak reconciled")
			return nil
		}

		repaired, err := streaks.ReconcileAll(ctx)
		if err != nil {
			return fmt.Errorf("reconcile streaks: %w", err)
		}
		logger.WithField("repaired", repaired).Info("streak reconciliation complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Int64("user", 0, "reconcile a single user instead of all users")
}
