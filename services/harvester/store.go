package harvester

import (
	"context"
	"database/sql"
	"strings"

	"tlvarchive/lib/scrapers/tlvarc"
	"tlvarchive/services/harvester/db"
)

// Store records what a run scraped: one row per discovered tik and one
// row per document table entry. It exists so reports and CSV exports can
// be rebuilt without re-scraping; it is not carried across runs.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func (s Store) RecordNoResults(ctx context.Context, p tlvarc.Parcel) error {
	return s.qry.CreateTik(ctx, db.CreateTikParams{
		TatRova:   p.TatRova,
		Gush:      p.Gush,
		Chelka:    p.Chelka,
		Status:    db.STATUS_COMPLETED,
		NoResults: true,
	})
}

func (s Store) RecordTik(ctx context.Context, p tlvarc.Parcel, tikId string) error {
	return s.qry.CreateTik(ctx, db.CreateTikParams{
		TatRova: p.TatRova,
		Gush:    p.Gush,
		Chelka:  p.Chelka,
		TikID:   tikId,
	})
}

func (s Store) RecordDocument(ctx context.Context, p tlvarc.Parcel, listing tlvarc.Listing, doc tlvarc.Document, path string) error {
	return s.qry.CreateDocument(ctx, db.CreateDocumentParams{
		TatRova:            p.TatRova,
		Gush:               p.Gush,
		Chelka:             p.Chelka,
		TikID:              listing.TikId,
		MultipleGushChelka: strings.Join(listing.MultipleGushChelka, ", "),
		Address:            strings.Join(listing.Addresses, ", "),
		PageNumber:         int64(doc.Page),
		RowNumber:          int64(doc.Row),
		Date:               doc.Date,
		Type:               doc.Type,
		Request:            doc.Request,
		Permit:             doc.Permit,
		Size:               doc.Size,
		Document:           path,
	})
}

// FinishTik settles a tik's status from its counts: completed when every
// document the site reported is recorded and on disk, mismatch otherwise.
func (s Store) FinishTik(ctx context.Context, tikId string, docsInWeb, docsRecorded, docsOnDisk int) error {
	status := db.STATUS_MISMATCH
	if docsRecorded == docsInWeb && docsOnDisk >= docsRecorded {
		status = db.STATUS_COMPLETED
	}
	return s.qry.SetTikCounts(ctx, db.SetTikCountsParams{
		Status:       status,
		DocsInWeb:    int64(docsInWeb),
		DocsRecorded: int64(docsRecorded),
		DocsOnDisk:   int64(docsOnDisk),
		TikID:        tikId,
	})
}

func (s Store) Tiks(ctx context.Context) ([]db.Tik, error) {
	return s.qry.ListTiks(ctx)
}

func (s Store) Documents(ctx context.Context) ([]db.Document, error) {
	return s.qry.ListDocuments(ctx)
}
