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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/examforge/prepcore/internal/infrastructure/config"
	"github.com/examforge/prepcore/internal/infrastructure/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// dbInitCmd applies the database schema and optionally seeds certification
// reference data
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize database schema and seed certification domains",
	Long:  "Applies the schema migrations. With --domains-file, also seeds certification_domains from a CSV of certification_id,name,exam_weight rows. Use --schema-only to skip seeding.",
	RunE: func(cmd *cobra.Command, args []string) error {
		domainsFile, _ := cmd.Flags().GetString("domains-file")
		schemaOnly, _ := cmd.Flags().GetBool("schema-only")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		pool, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		cmd.Println("schema applied")

		if schemaOnly || domainsFile == "" {
			return nil
		}
		seeded, err := seedDomains(ctx, pool, domainsFile)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d certification domains\n", seeded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().String("domains-file", "", "CSV of certification_id,name,exam_weight rows to seed")
	dbInitCmd.Flags().Bool("schema-only", false, "apply schema migrations only, skip seeding")
}

// seedDomains upserts certification domain reference rows from a CSV file.
// A header row is detected by a non-numeric first column and skipped.
func seedDomains(ctx context.Context, pool *pgxpool.Pool, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open domains file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	seeded := 0
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return seeded, fmt.Errorf("read domains file: %w", err)
		}
		line++
		if len(row) < 2 {
			return seeded, fmt.Errorf("line %d: expected certification_id,name[,exam_weight]", line)
		}
		certID, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return seeded, fmt.Errorf("line %d: bad certification_id: %w", line, err)
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			return seeded, fmt.Errorf("line %d: empty domain name", line)
		}
		weight := 1.0
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			weight, err = strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return seeded, fmt.Errorf("line %d: bad exam_weight: %w", line, err)
			}
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO certification_domains (certification_id, name, exam_weight)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (certification_id, name) DO UPDATE SET exam_weight = EXCLUDED.exam_weight`,
			certID, name, weight)
		if err != nil {
			return seeded, fmt.Errorf("seed domain %q: %w", name, err)
		}
		seeded++
	}
	return seeded, nil
}
