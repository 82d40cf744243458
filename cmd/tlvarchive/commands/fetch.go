package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"

	"tlvarchive/lib/configutil"
	"tlvarchive/lib/restyutil"
	"tlvarchive/lib/scrapers/tlvarc"
	"tlvarchive/lib/serviceutil"
	"tlvarchive/lib/sqliteutil"
	"tlvarchive/services/harvester"
	"tlvarchive/services/harvester/db"
)

// Config carries the settings that rarely change between runs; flags
// override it.
type Config struct {
	BaseUrl        string               `json:"base_url"`
	TimeoutSeconds int                  `json:"timeout_seconds"`
	Smtp           harvester.SmtpConfig `json:"smtp"`
}

var fetchFlags struct {
	input   *string
	output  *string
	cores   *int
	baseUrl *string
	timeout *int
}

func init() {
	fetchFlags.input = fetchCmd.Flags().String("input", "", "Input csv files separated with comma.")
	fetchFlags.output = fetchCmd.Flags().String("output", "output", "Output directory for downloaded documents.")
	fetchFlags.cores = fetchCmd.Flags().Int("cores", 8, "Number of parallel workers.")
	fetchFlags.baseUrl = fetchCmd.Flags().String("base-url", "", "Archive site base url.")
	fetchFlags.timeout = fetchCmd.Flags().Int("timeout", 0, "Per-request timeout in seconds.")
	fetchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch --input <parcels.csv> [--output <dir>] [--cores <n>]",
	Short: "Downloads every document for the parcels in a GIS csv export.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("read config", err)
		}
		if *fetchFlags.baseUrl != "" {
			cfg.BaseUrl = *fetchFlags.baseUrl
		}
		if *fetchFlags.timeout > 0 {
			cfg.TimeoutSeconds = *fetchFlags.timeout
		}

		parcels, err := harvester.LoadParcels(strings.Split(*fetchFlags.input, ","))
		if err != nil {
			serviceutil.Fatal("load parcels", err)
		}
		if err := os.MkdirAll(*fetchFlags.output, 0777); err != nil {
			serviceutil.Fatal("create output directory", err)
		}

		runId, err := random.String(8)
		if err != nil {
			serviceutil.Fatal("generate run id", err)
		}
		slog.Info("starting run",
			"run_id", runId,
			"parcels", len(parcels),
			"cores", *fetchFlags.cores,
		)

		dbPath := outputFile(runId, "results.db")
		os.Remove(dbPath)
		database, err := sqliteutil.OpenDB(db.Schema, dbPath)
		if err != nil {
			serviceutil.Fatal("open results db", err)
		}
		defer database.Close()
		store := harvester.NewStore(database)

		if *verbose {
			tlvarc.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/tlvarc"),
			)
		}

		service := harvester.NewService(harvester.Options{
			OutputDir: *fetchFlags.output,
			Cores:     *fetchFlags.cores,
			Store:     store,
			NewSession: func() (harvester.Session, error) {
				return tlvarc.NewClient(tlvarc.ClientOptions{
					BaseUrl: cfg.BaseUrl,
					Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
				})
			},
		})

		t1 := time.Now()
		service.Run(ctx, parcels)
		t2 := time.Now()
		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())

		err = store.WriteDocumentsCSV(ctx, outputFile(runId, "documents.csv"))
		if err != nil {
			serviceutil.Fatal("export documents csv", err)
		}
		err = store.WriteStatusCSV(ctx, outputFile(runId, "status.csv"))
		if err != nil {
			serviceutil.Fatal("export status csv", err)
		}

		summary, err := harvester.BuildSummary(ctx, store, *fetchFlags.output, len(parcels))
		if err != nil {
			serviceutil.Fatal("build summary", err)
		}
		err = summary.WriteReport(outputFile(runId, "report.txt"))
		if err != nil {
			serviceutil.Fatal("write report", err)
		}
		fmt.Println(summary.Render())

		if cfg.Smtp.Enabled() {
			err = harvester.EmailReport(cfg.Smtp, runId, summary)
			if err != nil {
				slog.Error("failed to email report", "err", err)
			}
		}
	},
}

func outputFile(runId, name string) string {
	return filepath.Join(
		*fetchFlags.output,
		fmt.Sprintf("%s%s_%s", harvester.OutputFilePrefix, runId, name),
	)
}
