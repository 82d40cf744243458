package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createTik = `
INSERT INTO tiks (tat_rova, gush, chelka, tik_id, status, no_results, docs_in_web)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (tat_rova, gush, chelka, tik_id) DO NOTHING
`

type CreateTikParams struct {
	TatRova   string
	Gush      string
	Chelka    string
	TikID     string
	Status    string
	NoResults bool
	DocsInWeb int64
}

func (q *Queries) CreateTik(ctx context.Context, arg CreateTikParams) error {
	_, err := q.db.ExecContext(ctx, createTik,
		arg.TatRova, arg.Gush, arg.Chelka, arg.TikID,
		arg.Status, arg.NoResults, arg.DocsInWeb,
	)
	return err
}

const setTikCounts = `
UPDATE tiks
SET status = ?, docs_in_web = ?, docs_recorded = ?, docs_on_disk = ?
WHERE tik_id = ?
`

type SetTikCountsParams struct {
	Status       string
	DocsInWeb    int64
	DocsRecorded int64
	DocsOnDisk   int64
	TikID        string
}

func (q *Queries) SetTikCounts(ctx context.Context, arg SetTikCountsParams) error {
	_, err := q.db.ExecContext(ctx, setTikCounts,
		arg.Status, arg.DocsInWeb, arg.DocsRecorded, arg.DocsOnDisk, arg.TikID,
	)
	return err
}

const createDocument = `
INSERT INTO documents (
	tat_rova, gush, chelka, tik_id,
	multiple_gush_chelka, address,
	page_number, row_number,
	date, type, request, permit, size, document
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateDocumentParams struct {
	TatRova            string
	Gush               string
	Chelka             string
	TikID              string
	MultipleGushChelka string
	Address            string
	PageNumber         int64
	RowNumber          int64
	Date               string
	Type               string
	Request            string
	Permit             string
	Size               string
	Document           string
}

func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) error {
	_, err := q.db.ExecContext(ctx, createDocument,
		arg.TatRova, arg.Gush, arg.Chelka, arg.TikID,
		arg.MultipleGushChelka, arg.Address,
		arg.PageNumber, arg.RowNumber,
		arg.Date, arg.Type, arg.Request, arg.Permit, arg.Size, arg.Document,
	)
	return err
}

const listTiks = `
SELECT id, tat_rova, gush, chelka, tik_id, status, no_results,
	docs_in_web, docs_recorded, docs_on_disk
FROM tiks
ORDER BY id
`

func (q *Queries) ListTiks(ctx context.Context) ([]Tik, error) {
	rows, err := q.db.QueryContext(ctx, listTiks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Tik
	for rows.Next() {
		var i Tik
		if err := rows.Scan(
			&i.ID, &i.TatRova, &i.Gush, &i.Chelka, &i.TikID,
			&i.Status, &i.NoResults,
			&i.DocsInWeb, &i.DocsRecorded, &i.DocsOnDisk,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listDocuments = `
SELECT id, tat_rova, gush, chelka, tik_id,
	multiple_gush_chelka, address,
	page_number, row_number,
	date, type, request, permit, size, document
FROM documents
ORDER BY id
`

func (q *Queries) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := q.db.QueryContext(ctx, listDocuments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Document
	for rows.Next() {
		var i Document
		if err := rows.Scan(
			&i.ID, &i.TatRova, &i.Gush, &i.Chelka, &i.TikID,
			&i.MultipleGushChelka, &i.Address,
			&i.PageNumber, &i.RowNumber,
			&i.Date, &i.Type, &i.Request, &i.Permit, &i.Size, &i.Document,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
