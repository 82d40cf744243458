package harvester

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tlvarchive/services/harvester/db"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is what a run looked like once all workers finished, built by
// crossing the store against the files actually present in the output
// directory.
type Summary struct {
	ParcelsReceived int
	TiksReceived    int
	Completed       []db.Tik
	Mismatches      []db.Tik
	NoResults       []db.Tik

	DocsRecorded int
	DocsOnDisk   int
	DocsInWeb    int

	// documents the store knows about whose file never showed up
	MissingOnDisk []db.Document
	// files in the output directory the store has no row for
	UnknownOnDisk []string
}

// BuildSummary inspects the store and the output directory.
func BuildSummary(ctx context.Context, store Store, outputDir string, parcelsReceived int) (Summary, error) {
	ctx, span := tracer.Start(ctx, "harvester:BuildSummary")
	defer span.End()

	summary := Summary{ParcelsReceived: parcelsReceived}

	tiks, err := store.Tiks(ctx)
	if err != nil {
		return summary, err
	}
	summary.TiksReceived = len(tiks)

	webCounted := map[string]bool{}
	for _, tik := range tiks {
		switch {
		case tik.NoResults:
			summary.NoResults = append(summary.NoResults, tik)
		case tik.Status == db.STATUS_COMPLETED:
			summary.Completed = append(summary.Completed, tik)
		default:
			summary.Mismatches = append(summary.Mismatches, tik)
		}
		// tiks shared between parcels report the same web count
		if !webCounted[tik.TikID] {
			webCounted[tik.TikID] = true
			summary.DocsInWeb += int(tik.DocsInWeb)
		}
	}

	docs, err := store.Documents(ctx)
	if err != nil {
		return summary, err
	}
	summary.DocsRecorded = len(docs)

	onDisk := map[string]bool{}
	err = filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), OutputFilePrefix) {
			return nil
		}
		onDisk[path] = true
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return summary, err
	}
	summary.DocsOnDisk = len(onDisk)

	recorded := map[string]bool{}
	for _, doc := range docs {
		recorded[doc.Document] = true
		if !onDisk[doc.Document] {
			summary.MissingOnDisk = append(summary.MissingOnDisk, doc)
		}
	}
	for path := range onDisk {
		if !recorded[path] {
			summary.UnknownOnDisk = append(summary.UnknownOnDisk, path)
		}
	}

	return summary, nil
}

// Render produces the human-readable run report.
func (s Summary) Render() string {
	var out strings.Builder

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"", "count"})
	t.AppendRow(table.Row{"parcels received", s.ParcelsReceived})
	t.AppendRow(table.Row{"tiks received", s.TiksReceived})
	t.AppendRow(table.Row{"tiks completed", len(s.Completed)})
	t.AppendRow(table.Row{"tiks with mismatches", len(s.Mismatches)})
	t.AppendRow(table.Row{"tiks without results", len(s.NoResults)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"documents recorded", s.DocsRecorded})
	t.AppendRow(table.Row{"documents on disk", s.DocsOnDisk})
	t.AppendRow(table.Row{"documents reported by site", s.DocsInWeb})
	t.AppendRow(table.Row{"recorded but missing on disk", len(s.MissingOnDisk)})
	t.AppendRow(table.Row{"on disk but not recorded", len(s.UnknownOnDisk)})
	out.WriteString(t.Render())
	out.WriteString("\n")

	if len(s.Mismatches) > 0 {
		fmt.Fprintf(&out, "\nThe following %d tiks have mismatches:\n", len(s.Mismatches))
		for _, tik := range s.Mismatches {
			fmt.Fprintf(&out, "  tat rova %s, gush %s, chelka %s, tik %s (web %d, recorded %d, on disk %d)\n",
				tik.TatRova, tik.Gush, tik.Chelka, tik.TikID,
				tik.DocsInWeb, tik.DocsRecorded, tik.DocsOnDisk)
		}
	}
	if len(s.MissingOnDisk) > 0 {
		fmt.Fprintf(&out, "\nThe following %d documents were recorded but are missing on disk:\n", len(s.MissingOnDisk))
		for _, doc := range s.MissingOnDisk {
			fmt.Fprintf(&out, "  tik %s page %d row %d: %s\n",
				doc.TikID, doc.PageNumber, doc.RowNumber, doc.Document)
		}
	}
	if len(s.UnknownOnDisk) > 0 {
		fmt.Fprintf(&out, "\nThe following %d files are on disk but were not recorded:\n", len(s.UnknownOnDisk))
		for _, path := range s.UnknownOnDisk {
			fmt.Fprintf(&out, "  %s\n", path)
		}
	}

	return out.String()
}

// WriteReport writes the rendered report next to the downloads.
func (s Summary) WriteReport(path string) error {
	return os.WriteFile(path, []byte(s.Render()), 0644)
}
