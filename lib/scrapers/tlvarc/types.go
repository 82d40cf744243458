package tlvarc

// Parcel identifies a cadastral parcel the way the municipal GIS exports
// it: sub-quarter (tat rova), block (gush) and parcel (chelka).
type Parcel struct {
	TatRova string
	Gush    string
	Chelka  string
}

// SearchOutcome is the result of a gush/chelka search: either the ids of
// the building case files ("tiks") covering the parcel, or an explicit
// no-results page.
type SearchOutcome struct {
	TikIds    []string
	NoResults bool
}

// Document is one row of a tik's document table.
type Document struct {
	Date    string
	Type    string
	Request string
	Permit  string
	Size    string
	// the site's document id, doubling as the served file name
	Id   string
	Page int
	Row  int
}

// Listing is everything scraped off a tik's results pages.
type Listing struct {
	TikId string
	// the document count the site reports in its results header
	WebCount           int
	MultipleGushChelka []string
	Addresses          []string
	Documents          []Document
}
