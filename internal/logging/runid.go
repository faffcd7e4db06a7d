package logging

import "github.com/oklog/ulid/v2"

// GenerateRunID generates a new ULID identifying one analysis run. ULIDs
// sort by creation time, which keeps per-run log files in order.
func GenerateRunID() string {
	return ulid.Make().String()
}
