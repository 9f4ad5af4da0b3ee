package report

import (
	"github.com/roach88/mtt/internal/lifecycle"
)

// RunReport is the serializable form of one completed run.
type RunReport struct {
	RunID    string         `json:"run_id"`
	Digest   string         `json:"digest"`
	Scenario string         `json:"scenario"`
	Addr     string         `json:"addr"`
	Workers  int            `json:"workers"`
	Status   int            `json:"status"`
	Results  []WorkerReport `json:"results"`
}

// WorkerReport is one worker's final record plus the phase ladder its
// trace lane followed. The ladder is listed in transition order, which
// is fixed per worker, so worker reports are deterministic even though
// the interleaving of the run was not.
type WorkerReport struct {
	Worker int      `json:"worker"`
	Status int      `json:"status"`
	Errmsg string   `json:"errmsg"`
	Phases []string `json:"phases"`
}

// New builds a RunReport from a finished outcome, stamping it with the
// given run ID and computing the content digest.
func New(runID, scenario string, cfg lifecycle.Config, outcome lifecycle.Outcome) RunReport {
	results := make([]WorkerReport, len(outcome.Results))
	for id := range outcome.Results {
		lane := lifecycle.WorkerLane(outcome.Trace, id)
		phases := make([]string, 0, len(lane))
		for _, ev := range lane {
			phases = append(phases, ev.Phase.String())
		}
		results[id] = WorkerReport{
			Worker: id,
			Status: outcome.Results[id].Status(),
			Errmsg: outcome.Results[id].Errmsg(),
			Phases: phases,
		}
	}

	rep := RunReport{
		RunID:    runID,
		Scenario: scenario,
		Addr:     cfg.Addr,
		Workers:  cfg.Workers,
		Status:   outcome.Status,
		Results:  results,
	}
	rep.Digest = MustReportDigest(rep)
	return rep
}

// canonicalBody is the digest input: everything except the run
// identity fields.
func (r RunReport) canonicalBody() map[string]any {
	results := make([]any, len(r.Results))
	for i, wr := range r.Results {
		phases := make([]any, len(wr.Phases))
		for j, p := range wr.Phases {
			phases[j] = p
		}
		results[i] = map[string]any{
			"worker": wr.Worker,
			"status": wr.Status,
			"errmsg": wr.Errmsg,
			"phases": phases,
		}
	}
	return map[string]any{
		"scenario": r.Scenario,
		"addr":     r.Addr,
		"workers":  r.Workers,
		"status":   r.Status,
		"results":  results,
	}
}

// CanonicalJSON renders the full report, identity fields included, in
// canonical form. This is what golden fixtures store.
func (r RunReport) CanonicalJSON() ([]byte, error) {
	full := r.canonicalBody()
	full["run_id"] = r.RunID
	full["digest"] = r.Digest
	return MarshalCanonical(full)
}
