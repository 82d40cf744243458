package harvester

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tlvarchive/lib/scrapers/tlvarc"
	"tlvarchive/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("tlvarchive.services.harvester")

// Session is the slice of the archive client the harvester drives. Each
// worker owns exactly one Session; they are not safe for sharing.
type Session interface {
	Open(ctx context.Context) error
	Search(ctx context.Context, p tlvarc.Parcel) (tlvarc.SearchOutcome, error)
	Tik(ctx context.Context, tikId string) (tlvarc.Listing, error)
	Download(ctx context.Context, doc tlvarc.Document, dir string) (path string, existed bool, err error)
	Close()
}

// SessionFactory builds a fresh Session for a worker.
type SessionFactory func() (Session, error)

type Options struct {
	OutputDir string
	// worker count; the original operators call this "cores"
	Cores      int
	NewSession SessionFactory
	Store      Store
}

type Service struct {
	opts Options
}

func NewService(opts Options) Service {
	if opts.Cores < 1 {
		opts.Cores = 1
	}
	return Service{opts: opts}
}

// Run partitions parcels across the configured workers and drives one
// session per worker until every batch is drained or ctx is cancelled.
// Per-parcel failures are logged and skipped; only a session that cannot
// be opened kills its worker.
func (s Service) Run(ctx context.Context, parcels []tlvarc.Parcel) {
	ctx, span := tracer.Start(ctx, "harvester:Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("parcels", len(parcels)),
		attribute.Int("cores", s.opts.Cores),
	)

	batches := Partition(parcels, s.opts.Cores)

	wg := sync.WaitGroup{}
	for i, batch := range batches {
		if len(batch) == 0 {
			continue
		}
		wg.Add(1)
		go func(worker int, batch []tlvarc.Parcel) {
			defer wg.Done()
			s.runWorker(ctx, worker, batch)
		}(i, batch)
	}
	wg.Wait()
}

func (s Service) runWorker(ctx context.Context, worker int, batch []tlvarc.Parcel) {
	log := slog.With("worker", worker)

	session, err := s.opts.NewSession()
	if err != nil {
		log.ErrorContext(ctx, "failed to create session, abandoning batch", "err", err, "parcels", len(batch))
		return
	}
	defer session.Close()

	if err := session.Open(ctx); err != nil {
		log.ErrorContext(ctx, "failed to open session, abandoning batch", "err", err, "parcels", len(batch))
		return
	}

	for _, parcel := range batch {
		if ctx.Err() != nil {
			log.InfoContext(ctx, "cancelled, leaving remaining parcels", "err", ctx.Err())
			return
		}
		if err := s.handleParcel(ctx, log, session, parcel); err != nil {
			log.WarnContext(ctx, "skipping parcel",
				"tat_rova", parcel.TatRova,
				"gush", parcel.Gush,
				"chelka", parcel.Chelka,
				"err", err,
			)
		}
	}
}

func (s Service) handleParcel(ctx context.Context, log *slog.Logger, session Session, parcel tlvarc.Parcel) error {
	ctx, span := tracer.Start(ctx, "harvester:handleParcel")
	defer span.End()
	span.SetAttributes(
		attribute.String("tat_rova", parcel.TatRova),
		attribute.String("gush", parcel.Gush),
		attribute.String("chelka", parcel.Chelka),
	)

	outcome, err := session.Search(ctx, parcel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return err
	}

	if outcome.NoResults {
		log.InfoContext(ctx, "search gave no results",
			"gush", parcel.Gush, "chelka", parcel.Chelka)
		return s.opts.Store.RecordNoResults(ctx, parcel)
	}

	for _, tikId := range outcome.TikIds {
		if err := s.opts.Store.RecordTik(ctx, parcel, tikId); err != nil {
			return err
		}
		if err := s.handleTik(ctx, log, session, parcel, tikId); err != nil {
			log.WarnContext(ctx, "skipping tik", "tik_id", tikId, "err", err)
		}
	}
	return nil
}

func (s Service) handleTik(ctx context.Context, log *slog.Logger, session Session, parcel tlvarc.Parcel, tikId string) error {
	ctx, span := tracer.Start(ctx, "harvester:handleTik")
	defer span.End()
	span.SetAttributes(attribute.String("tik_id", tikId))

	listing, err := session.Tik(ctx, tikId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list tik documents")
		return err
	}

	dir := s.tikDir(parcel, tikId)
	recorded := 0
	for _, doc := range listing.Documents {
		path, existed, err := session.Download(ctx, doc, dir)
		if err != nil {
			log.WarnContext(ctx, "failed to download document",
				"tik_id", tikId, "document", doc.Id, "err", err)
			continue
		}
		if existed {
			log.InfoContext(ctx, "document already exists",
				"tik_id", tikId, "document", doc.Id, "size", doc.Size)
		} else {
			log.InfoContext(ctx, "downloaded document",
				"tik_id", tikId, "document", doc.Id, "size", doc.Size,
				"n", recorded+1, "of", listing.WebCount)
		}
		if err := s.opts.Store.RecordDocument(ctx, parcel, listing, doc, path); err != nil {
			return err
		}
		recorded++
	}

	return s.opts.Store.FinishTik(ctx, tikId, listing.WebCount, recorded, countFiles(dir))
}

func (s Service) tikDir(parcel tlvarc.Parcel, tikId string) string {
	return filepath.Join(s.opts.OutputDir, parcel.TatRova, tikId)
}

// files the run itself writes (logs, reports, exports) carry this prefix
// and never count as downloaded documents
const OutputFilePrefix = "log__"

func countFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), OutputFilePrefix) {
			continue
		}
		count++
	}
	return count
}
