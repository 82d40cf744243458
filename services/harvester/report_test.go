package harvester

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"tlvarchive/lib/scrapers/tlvarc"
)

func TestBuildSummary(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	outputDir := t.TempDir()

	parcel := tlvarc.Parcel{TatRova: "6638", Gush: "1234", Chelka: "56"}
	listing := tlvarc.Listing{TikId: "04250338", WebCount: 2}

	onDisk := filepath.Join(outputDir, "6638", "04250338", "a.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(onDisk), 0777))
	require.NoError(t, os.WriteFile(onDisk, []byte("pdf"), 0600))
	// report-style files never count as downloads
	require.NoError(t, os.WriteFile(
		filepath.Join(outputDir, OutputFilePrefix+"run.txt"), []byte("log"), 0600))
	stray := filepath.Join(outputDir, "stray.pdf")
	require.NoError(t, os.WriteFile(stray, []byte("pdf"), 0600))

	require.NoError(t, store.RecordTik(ctx, parcel, "04250338"))
	require.NoError(t, store.RecordDocument(ctx, parcel, listing,
		tlvarc.Document{Id: "a.pdf", Page: 1, Row: 1}, onDisk))
	require.NoError(t, store.RecordDocument(ctx, parcel, listing,
		tlvarc.Document{Id: "b.pdf", Page: 1, Row: 2},
		filepath.Join(outputDir, "6638", "04250338", "b.pdf")))
	require.NoError(t, store.FinishTik(ctx, "04250338", 2, 2, 1))

	require.NoError(t, store.RecordNoResults(ctx, tlvarc.Parcel{
		TatRova: "6638", Gush: "9999", Chelka: "1",
	}))

	summary, err := BuildSummary(ctx, store, outputDir, 2)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, 2, summary.ParcelsReceived)
	require.Equal(t, 2, summary.TiksReceived)
	require.Len(t, summary.NoResults, 1)
	require.Len(t, summary.Mismatches, 1)
	require.Empty(t, summary.Completed)
	require.Equal(t, 2, summary.DocsRecorded)
	require.Equal(t, 2, summary.DocsOnDisk)
	require.Equal(t, 2, summary.DocsInWeb)
	require.Len(t, summary.MissingOnDisk, 1)
	require.Equal(t, []string{stray}, summary.UnknownOnDisk)

	rendered := summary.Render()
	require.Contains(t, rendered, "tiks with mismatches")
	require.Contains(t, rendered, "b.pdf")
	require.Contains(t, rendered, "stray.pdf")

	reportPath := filepath.Join(outputDir, OutputFilePrefix+"report.txt")
	require.NoError(t, summary.WriteReport(reportPath))
	_, err = os.Stat(reportPath)
	require.NoError(t, err)
}
