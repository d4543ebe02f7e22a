package request

import "cloud.google.com/go/civil"

// IngestGameRequest is the request body for ingesting one game
type IngestGameRequest struct {
	Date civil.Date `json:"date"`
}

// MaxIngestRangeDays bounds a synchronous range sweep so it finishes inside
// the server's write timeout at the default sweep delay
const MaxIngestRangeDays = 31

// IngestRangeRequest is the request body for sweeping a date range
type IngestRangeRequest struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Days returns the number of dates the range covers
func (r IngestRangeRequest) Days() int {
	return r.End.DaysSince(r.Start) + 1
}
