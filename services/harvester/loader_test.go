package harvester

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"tlvarchive/lib/scrapers/tlvarc"
)

func writeCSVFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parcels.csv")
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParcels(t *testing.T) {
	path := writeCSVFile(t, "oid,ktatrova,ms_gush,ms_chelka,shape_area\n"+
		"1,6638,1234,56,100.5\n"+
		"2,6639, 1235 ,57,200.5\n")

	parcels, err := LoadParcels([]string{path})
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, []tlvarc.Parcel{
		{TatRova: "6638", Gush: "1234", Chelka: "56"},
		{TatRova: "6639", Gush: "1235", Chelka: "57"},
	}, parcels)
}

func TestLoadParcelsMultipleFiles(t *testing.T) {
	first := writeCSVFile(t, "ktatrova,ms_gush,ms_chelka\n6638,1,2\n")
	second := writeCSVFile(t, "ktatrova,ms_gush,ms_chelka\n6639,3,4\n")

	parcels, err := LoadParcels([]string{first, second})
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, parcels, 2)
	require.Equal(t, "6638", parcels[0].TatRova)
	require.Equal(t, "6639", parcels[1].TatRova)
}

func TestLoadParcelsMissingColumn(t *testing.T) {
	path := writeCSVFile(t, "ktatrova,ms_gush\n6638,1234\n")

	_, err := LoadParcels([]string{path})
	var missing MissingColumnError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, ChelkaField, missing.Column)
}

func TestLoadParcelsMissingFile(t *testing.T) {
	_, err := LoadParcels([]string{filepath.Join(t.TempDir(), "nope.csv")})
	require.ErrorIs(t, err, os.ErrNotExist)
}
