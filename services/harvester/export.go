package harvester

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var documentColumns = []string{
	KtatrovaField, GushField, ChelkaField,
	"multiple_gush_chelka", "address", "tik_id",
	"page_number", "row_number",
	"date", "type", "request", "permit", "size", "document",
}

var tikColumns = []string{
	KtatrovaField, GushField, ChelkaField,
	"tik_id", "status", "no_results",
	"docs_in_web", "docs_recorded", "docs_on_disk",
}

// WriteDocumentsCSV exports every recorded document row in the column
// layout downstream GIS tooling expects.
func (s Store) WriteDocumentsCSV(ctx context.Context, path string) error {
	docs, err := s.Documents(ctx)
	if err != nil {
		return err
	}

	records := [][]string{documentColumns}
	for _, d := range docs {
		records = append(records, []string{
			d.TatRova, d.Gush, d.Chelka,
			d.MultipleGushChelka, d.Address, d.TikID,
			strconv.FormatInt(d.PageNumber, 10),
			strconv.FormatInt(d.RowNumber, 10),
			d.Date, d.Type, d.Request, d.Permit, d.Size, d.Document,
		})
	}
	return writeCSV(path, records)
}

// WriteStatusCSV exports one row per discovered tik with its settled
// status and counts.
func (s Store) WriteStatusCSV(ctx context.Context, path string) error {
	tiks, err := s.Tiks(ctx)
	if err != nil {
		return err
	}

	records := [][]string{tikColumns}
	for _, t := range tiks {
		noResults := ""
		if t.NoResults {
			noResults = "no_results"
		}
		records = append(records, []string{
			t.TatRova, t.Gush, t.Chelka,
			t.TikID, t.Status, noResults,
			strconv.FormatInt(t.DocsInWeb, 10),
			strconv.FormatInt(t.DocsRecorded, 10),
			strconv.FormatInt(t.DocsOnDisk, 10),
		})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv export: %w", err)
	}
	defer f.Close()

	// BOM so Excel opens the Hebrew columns correctly
	if _, err := f.WriteString("\uFEFF"); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
