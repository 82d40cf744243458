package db

type Tik struct {
	ID           int64
	TatRova      string
	Gush         string
	Chelka       string
	TikID        string
	Status       string
	NoResults    bool
	DocsInWeb    int64
	DocsRecorded int64
	DocsOnDisk   int64
}

type Document struct {
	ID                 int64
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
