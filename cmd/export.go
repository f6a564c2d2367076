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
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	adapterrepo "github.com/examforge/prepcore/internal/adapter/repository"
	"github.com/examforge/prepcore/internal/infrastructure/config"
	"github.com/examforge/prepcore/internal/infrastructure/database"
)

const (
	exportOutputKey = "export.questions.output"
	exportGzipKey   = "export.questions.gzip"
)

// exportCmd writes a certification's question bank as NDJSON
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a certification's question bank as NDJSON",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		certificationID, _ := cmd.Flags().GetInt64("certification")
		if certificationID <= 0 {
			return fmt.Errorf("--certification is required")
		}

		outputPath := viper.GetString(exportOutputKey)
		gzipEnabled := viper.GetBool(exportGzipKey)
		if outputPath == "" {
			outputPath = defaultExportFilename(certificationID, gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		pool, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		questions, err := adapterrepo.NewQuestionRepository(pool).ListByCertification(ctx, certificationID)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}

		var (
			writer   = cmd.OutOrStdout()
			closeFns []func() error
		)
		if outputPath != "-" {
			if dir := filepath.Dir(outputPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			file, openErr := os.Create(outputPath)
			if openErr != nil {
				return fmt.Errorf("create output file: %w", openErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}
		if gzipEnabled {
			gz := gzip.NewWriter(writer)
			writer = gz
			closeFns = append([]func() error{gz.Close}, closeFns...)
		}
		defer func() {
			for _, closer := range closeFns {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		encoder := json.NewEncoder(writer)
		for i := range questions {
			if err := encoder.Encode(&questions[i]); err != nil {
				return fmt.Errorf("encode question: %w", err)
			}
		}

		if outputPath == "-" {
			cmd.PrintErrf("exported %d questions to stdout\n", len(questions))
		} else {
			cmd.Printf("exported %d questions to %s\n", len(questions), outputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64("certification", 0, "certification ID to export")
	exportCmd.Flags().StringP("output", "o", "", "output file path, use - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")

	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
}

func defaultExportFilename(certificationID int64, gzipEnabled bool) string {
	ts := time.Now().UTC().Format("20060102-150405")
	filename := fmt.Sprintf("prepcore-questions-%d-%s.jsonl", certificationID, ts)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}
