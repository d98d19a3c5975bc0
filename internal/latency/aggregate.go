package latency

import "sort"

// Report is the ranked, aggregated view over all outcomes for a run.
// Recomputed each run; Best and Worst point into Outcomes and are nil when
// no probe succeeded.
type Report struct {
	Outcomes     []Outcome
	Tested       int
	Succeeded    int
	FailedByKind map[Status]int
	Best         *Outcome
	Worst        *Outcome
}

// Aggregate computes summary statistics and a stable ranking over the given
// outcomes. Successes sort first by ascending average latency; failures
// follow, grouped by kind in the order Failed, DNS Failure, Timeout, keeping
// their input order within a group. Pure: the input slice is not modified
// and identical input always yields an identical Report.
func Aggregate(outcomes []Outcome) *Report {
	sorted := make([]Outcome, len(outcomes))
	copy(sorted, outcomes)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := statusRank(sorted[i].Status), statusRank(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		if sorted[i].Status == StatusSuccess {
			return *sorted[i].AvgLatencyMS < *sorted[j].AvgLatencyMS
		}
		return false
	})

	report := &Report{
		Outcomes:     sorted,
		Tested:       len(sorted),
		FailedByKind: make(map[Status]int),
	}

	for i := range sorted {
		if sorted[i].Status == StatusSuccess {
			report.Succeeded++
			continue
		}
		report.FailedByKind[sorted[i].Status]++
	}

	if report.Succeeded > 0 {
		report.Best = &report.Outcomes[0]
		report.Worst = &report.Outcomes[report.Succeeded-1]
	}

	return report
}
