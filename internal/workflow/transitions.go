// Package workflow owns the mission lifecycle: the transition table and the
// services that validate and execute each edge.
package workflow

import (
	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
)

// transitions maps each state to its legal destinations. PAID and REJECTED
// have no outgoing edges.
var transitions = map[string][]string{
	models.MissionOpen:      {models.MissionAccepted},
	models.MissionAccepted:  {models.MissionSubmitted},
	models.MissionSubmitted: {models.MissionVerified, models.MissionRejected},
	models.MissionVerified:  {models.MissionPaid},
	models.MissionPaid:      {},
	models.MissionRejected:  {},
}

// LegalDestinations returns the destinations reachable from a state.
func LegalDestinations(from string) []string {
	return transitions[from]
}

// CanTransition reports whether from → to is an edge of the table.
// Self-transitions are never legal.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	for _, dest := range transitions[from] {
		if dest == to {
			return true
		}
	}
	return false
}

// AssertTransition validates an edge before any write happens. On a
// violation it reports the attempted edge and the legal destination set;
// the caller must not have mutated anything yet.
func AssertTransition(from, to string) error {
	if CanTransition(from, to) {
		return nil
	}
	return apperr.New(apperr.InvalidTransition, "cannot transition mission from %s to %s", from, to).
		WithMeta(map[string]any{
			"from":  from,
			"to":    to,
			"legal": transitions[from],
		})
}
