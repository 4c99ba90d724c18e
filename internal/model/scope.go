package model

// Scope selects which tasks are visible to the active user.
type Scope string

const (
	// ScopeIndividual shows only the tasks owned by the active user.
	ScopeIndividual Scope = "individual"
	// ScopeTeam shows every task.
	ScopeTeam Scope = "team"
)

// Valid returns true if the scope is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeIndividual || s == ScopeTeam
}

// Counts is the number of tasks per status.
type Counts struct {
	Total    int
	Running  int
	Queued   int
	Complete int
}
