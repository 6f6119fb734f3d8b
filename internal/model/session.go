package model

import "time"

// Stage identifies a step of the verification pipeline
type Stage string

const (
	StageReceived         Stage = "received"
	StageClassified       Stage = "classified"
	StageDecomposed       Stage = "decomposed"
	StageQueriesPlanned   Stage = "queries_planned"
	StageEvidenceGathered Stage = "evidence_gathered"
	StageEvaluated        Stage = "evaluated"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed" // terminal, absorbing
)

// StageRecord is one entry of the append-only execution log
type StageRecord struct {
	Stage     Stage     `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Session is the unit of persistence: one verification request with
// everything the pipeline produced for it.
type Session struct {
	ID           string         `json:"id"`
	Claim        Claim          `json:"claim"`
	AtomicClaims []AtomicClaim  `json:"atomic_claims,omitempty"`
	Queries      []SearchQuery  `json:"queries,omitempty"`
	Outcomes     []QueryOutcome `json:"outcomes,omitempty"`
	Evaluation   *Evaluation    `json:"evaluation,omitempty"`
	ExecutionLog []StageRecord  `json:"execution_log"`
	Stage        Stage          `json:"stage"`
	Incomplete   bool           `json:"incomplete,omitempty"` // cancelled before completion
	ResultKey    string         `json:"result_key,omitempty"` // set once persisted
	CreatedAt    time.Time      `json:"created_at"`
	FinishedAt   time.Time      `json:"finished_at,omitempty"`
}

// LogStage appends a stage record to the execution log
func (s *Session) LogStage(stage Stage, success bool, detail string, err error) {
	rec := StageRecord{
		Stage:     stage,
		Timestamp: time.Now().UTC(),
		Success:   success,
		Detail:    detail,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	s.ExecutionLog = append(s.ExecutionLog, rec)
	if success {
		s.Stage = stage
	} else {
		s.Stage = StageFailed
	}
}

// LogQueryFailure records one non-fatal query failure on the execution
// log. Unlike LogStage it never moves the session to failed: degraded
// evidence is a normal outcome.
func (s *Session) LogQueryFailure(queryID, errDetail string) {
	s.ExecutionLog = append(s.ExecutionLog, StageRecord{
		Stage:     StageEvidenceGathered,
		Timestamp: time.Now().UTC(),
		Success:   false,
		Detail:    "query " + queryID + " failed",
		Error:     errDetail,
	})
}

// FailedQueries counts outcomes recorded as failures
func (s *Session) FailedQueries() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Success {
			n++
		}
	}
	return n
}
