package tlvarc

import (
	"tlvarchive/lib/restyutil"
	"tlvarchive/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("tlvarchive.lib.scrapers.tlvarc")

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every client built after the call dump
// its HTTP exchanges to `out`.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}

func instrument(client *resty.Client) {
	restyutil.InstrumentClient(client, tracer, instrumentOutput)
}
