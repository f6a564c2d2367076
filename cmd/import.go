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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"

	adapterrepo "github.com/examforge/prepcore/internal/adapter/repository"
	"github.com/examforge/prepcore/internal/infrastructure/config"
	"github.com/examforge/prepcore/internal/infrastructure/database"
	"github.com/examforge/prepcore/internal/usecase"
)

const (
	importInputKey    = "import.questions.input"
	importSheetKey    = "import.questions.sheet"
	importColumnKey   = "import.questions.text_column"
	importStartRowKey = "import.questions.start_row"
)

// importCmd loads generated questions from a spreadsheet or CSV file and
// runs them through the dedup gate before they reach the question bank
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import questions from an Excel or CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputPath := viper.GetString(importInputKey)
		sheet := viper.GetString(importSheetKey)
		column := viper.GetString(importColumnKey)
		startRow := viper.GetInt(importStartRowKey)
		certificationID, _ := cmd.Flags().GetInt64("certification")
		domainID, _ := cmd.Flags().GetInt64("domain")
		createdBy, _ := cmd.Flags().GetString("created-by")

		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}
		if certificationID <= 0 {
			return fmt.Errorf("--certification is required")
		}

		texts, err := readQuestionTexts(inputPath, sheet, column, startRow)
		if err != nil {
			return err
		}
		if len(texts) == 0 {
			cmd.Println("no question texts found")
			return nil
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

		content := usecase.NewContentUsecaseWithThreshold(
			adapterrepo.NewQuestionRepository(pool),
			cfg.Engine.DedupThreshold,
		)
		report, err := content.IngestQuestions(ctx, certificationID, domainID, texts, createdBy)
		if err != nil {
			return fmt.Errorf("ingest questions: %w", err)
		}

		cmd.Printf("imported %d questions, rejected %d near duplicates\n",
			len(report.Accepted), len(report.Rejected))
		for _, rejected := range report.Rejected {
			cmd.Printf("  duplicate (%.0f%% of %q): %s\n",
				rejected.Similarity*100, truncate(rejected.MatchText, 60), truncate(rejected.Text, 60))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "path to .xlsx or .csv file with question texts")
	importCmd.Flags().String("sheet", "Sheet1", "worksheet name for Excel input")
	importCmd.Flags().String("text-column", "A", "column holding the question text")
	importCmd.Flags().Int("start-row", 2, "first data row (1-based), defaults past a header row")
	importCmd.Flags().Int64("certification", 0, "certification ID the questions belong to")
	importCmd.Flags().Int64("domain", 0, "domain ID within the certification")
	importCmd.Flags().String("created-by", "generator", "author recorded on imported questions")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importSheetKey, importCmd.Flags().Lookup("sheet"))
	bindFlagToViper(importColumnKey, importCmd.Flags().Lookup("text-column"))
	bindFlagToViper(importStartRowKey, importCmd.Flags().Lookup("start-row"))
}

func readQuestionTexts(path, sheet, column string, startRow int) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readTextsFromCSV(path, column, startRow)
	}
	return readTextsFromExcel(path, sheet, column, startRow)
}

func readTextsFromExcel(path, sheet, column string, startRow int) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	colIdx, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, fmt.Errorf("bad text column %q: %w", column, err)
	}
	colIdx--

	texts := make([]string, 0, len(rows))
	for i, row := range rows {
		if i < startRow-1 || colIdx >= len(row) {
			continue
		}
		if text := strings.TrimSpace(row[colIdx]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

func readTextsFromCSV(path, column string, startRow int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	colIdx, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, fmt.Errorf("bad text column %q: %w", column, err)
	}
	colIdx--

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var texts []string
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row++
		if row < startRow || colIdx >= len(record) {
			continue
		}
		if text := strings.TrimSpace(record[colIdx]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
