package game

import "fmt"

type MatchOutcome int

const (
	OutcomeInconclusive MatchOutcome = iota
	OutcomeWinner
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeWinner:
		return "winner"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type MatchOutcomeReason struct {
	Outcome     MatchOutcome
	Winner      int // actor index, -1 unless Outcome is OutcomeWinner
	Survivors   int
	Total       int
	LastDeath   int // tick of the final death, 0 if nobody died
	Description string
}

// DetermineMatchOutcome classifies a session: one survivor among several
// actors wins, nobody left standing is a draw, anything else is still open.
func DetermineMatchOutcome(s *Session) MatchOutcomeReason {
	r := MatchOutcomeReason{Winner: -1, Total: s.NumActors()}
	last := -1
	for i := 0; i < s.n; i++ {
		if s.actors[i].Alive() {
			r.Survivors++
			last = i
		}
	}
	for _, d := range s.deaths {
		if d.Tick > r.LastDeath {
			r.LastDeath = d.Tick
		}
	}

	switch {
	case r.Survivors == 0:
		r.Outcome = OutcomeDraw
		r.Description = "all_actors_dead"
	case r.Survivors == 1 && r.Total > 1:
		r.Outcome = OutcomeWinner
		r.Winner = last
		r.Description = fmt.Sprintf("last_survivor_S%d", last)
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = fmt.Sprintf("%d_of_%d_alive", r.Survivors, r.Total)
	}
	return r
}
