package harvester

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"tlvarchive/lib/scrapers/tlvarc"
)

func makeParcels(n int) []tlvarc.Parcel {
	parcels := make([]tlvarc.Parcel, n)
	for i := range parcels {
		parcels[i] = tlvarc.Parcel{
			TatRova: "6638",
			Gush:    fmt.Sprint(7000 + i),
			Chelka:  fmt.Sprint(i),
		}
	}
	return parcels
}

func TestPartitionCoversAllParcels(t *testing.T) {
	for _, tc := range []struct{ parcels, workers int }{
		{0, 4}, {1, 4}, {4, 4}, {10, 3}, {10, 1}, {3, 8}, {100, 7},
	} {
		parcels := makeParcels(tc.parcels)
		batches := Partition(parcels, tc.workers)
		require.Len(t, batches, tc.workers)

		var union []tlvarc.Parcel
		for _, batch := range batches {
			union = append(union, batch...)
		}
		diff := cmp.Diff(parcels, union,
			cmpopts.SortSlices(func(a, b tlvarc.Parcel) bool {
				return a.Gush < b.Gush
			}),
			cmpopts.EquateEmpty(),
		)
		if diff != "" {
			t.Fatalf("parcels=%d workers=%d: union mismatch (-want +got):\n%s",
				tc.parcels, tc.workers, diff)
		}
	}
}

func TestPartitionBalances(t *testing.T) {
	batches := Partition(makeParcels(10), 3)
	require.Len(t, batches[0], 4)
	require.Len(t, batches[1], 3)
	require.Len(t, batches[2], 3)
}

func TestPartitionZeroWorkers(t *testing.T) {
	batches := Partition(makeParcels(3), 0)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 3)
}
