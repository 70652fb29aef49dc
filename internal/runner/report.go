package runner

import "time"

// Report summarizes a run.
type Report struct {
	Results []FileResult

	Files     int
	Changed   int
	Moved     int
	Gated     int
	Failed    int
	Replaced  int
	Relocated int

	BytesBefore int64
	BytesAfter  int64

	// Written is set once the results are on disk.
	Written  bool
	Duration time.Duration
}

func newReport(results []FileResult) *Report {
	rep := &Report{Results: results, Files: len(results)}

	for _, res := range results {
		rep.BytesBefore += int64(len(res.Old))
		rep.BytesAfter += int64(len(res.New))
		rep.Replaced += res.Stats.Replaced
		rep.Relocated += res.Stats.Relocated

		switch {
		case res.Err != nil:
			rep.Failed++
		case res.Stats.Gated:
			rep.Gated++
		}

		if res.Changed() {
			rep.Changed++
		}

		if res.Err == nil && res.NewPath != "" {
			rep.Moved++
		}
	}

	return rep
}

// ChangedResults returns the results that rewrite or move a file.
func (rep *Report) ChangedResults() []FileResult {
	var out []FileResult

	for _, res := range rep.Results {
		if res.Changed() {
			out = append(out, res)
		}
	}

	return out
}
