package harvester

import "tlvarchive/lib/scrapers/tlvarc"

// Partition splits parcels into exactly `workers` contiguous batches.
// Every parcel lands in exactly one batch; batches may be empty when
// there are fewer parcels than workers.
func Partition(parcels []tlvarc.Parcel, workers int) [][]tlvarc.Parcel {
	if workers < 1 {
		workers = 1
	}

	batches := make([][]tlvarc.Parcel, workers)
	size := len(parcels) / workers
	remainder := len(parcels) % workers

	start := 0
	for i := range batches {
		end := start + size
		if i < remainder {
			end++
		}
		batches[i] = parcels[start:end]
		start = end
	}
	return batches
}
