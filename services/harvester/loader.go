package harvester

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tlvarchive/lib/scrapers/tlvarc"
)

// column names as the municipal GIS exports them, case-sensitive
const (
	KtatrovaField = "ktatrova"
	GushField     = "ms_gush"
	ChelkaField   = "ms_chelka"
)

// MissingColumnError reports a GIS export missing one of the mandatory
// columns.
type MissingColumnError struct {
	Path   string
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("input csv %q is missing required column %q", e.Path, e.Column)
}

// LoadParcels reads one or more GIS CSV exports and concatenates their
// parcel rows in order. Columns other than the three mandatory ones are
// ignored.
func LoadParcels(paths []string) ([]tlvarc.Parcel, error) {
	var parcels []tlvarc.Parcel
	for _, path := range paths {
		fileParcels, err := loadParcelFile(path)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, fileParcels...)
	}
	return parcels, nil
}

func loadParcelFile(path string) ([]tlvarc.Parcel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// GIS exports occasionally carry ragged optional columns
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %q: %w", path, err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{KtatrovaField, GushField, ChelkaField} {
		if _, ok := columns[required]; !ok {
			return nil, MissingColumnError{Path: path, Column: required}
		}
	}

	var parcels []tlvarc.Parcel
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %q: %w", path, err)
		}
		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		parcels = append(parcels, tlvarc.Parcel{
			TatRova: field(KtatrovaField),
			Gush:    field(GushField),
			Chelka:  field(ChelkaField),
		})
	}

	return parcels, nil
}
