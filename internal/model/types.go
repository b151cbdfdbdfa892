package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Action is one of the two moves available each round.
type Action int

const (
	Cooperate Action = 0
	Defect    Action = 1
)

// State is one node of a two-state strategy automaton: the action it plays
// and the state to move to for each possible opponent action.
type State struct {
	Action      Action `json:"action"`
	OnCooperate int    `json:"on_cooperate"`
	OnDefect    int    `json:"on_defect"`
}

// Automaton is a two-state deterministic strategy. Current always indexes
// into States; Initial records the state the automaton starts each match in.
// Automata are value types: advancing one produces a new value.
type Automaton struct {
	States  [2]State `json:"states"`
	Initial int      `json:"initial"`
	Current int      `json:"current"`
}

type Population struct {
	VersionedRecord
	ID       string      `json:"id"`
	Automata []Automaton `json:"automata"`
	Cycle    int         `json:"cycle"`
}

// CycleDiagnostics summarizes one completed cycle of a run.
type CycleDiagnostics struct {
	Cycle           int     `json:"cycle"`
	MeanPayoff      float64 `json:"mean_payoff"`
	BestPayoff      float64 `json:"best_payoff"`
	MinPayoff       float64 `json:"min_payoff"`
	CooperationRate float64 `json:"cooperation_rate"`
	Replaced        int     `json:"replaced"`
}

type RunRecord struct {
	VersionedRecord
	RunID           string  `json:"run_id"`
	CreatedAtUTC    string  `json:"created_at_utc"`
	PopulationSize  int     `json:"population_size"`
	Cycles          int     `json:"cycles"`
	Speed           int     `json:"speed"`
	Rounds          int     `json:"rounds"`
	Seed            int64   `json:"seed"`
	Init            string  `json:"init"`
	FinalMeanPayoff float64 `json:"final_mean_payoff"`
}
