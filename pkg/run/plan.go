package run

import (
	"math/rand/v2"

	"github.com/flickergrid/flickergrid/pkg/design"
)

// Phase is the part of a trial a moment falls into.
type Phase string

const (
	PhaseHead Phase = "head"
	PhaseBody Phase = "body"
	PhaseTail Phase = "tail"
)

// PlanCues returns the cued pid of every trial. "!Random" draws from pids
// with replacement, "!NoCue" yields empty strings, any other cue is repeated.
func PlanCues(cue string, pids []string, repeats int, rng *rand.Rand) []string {
	if repeats <= 0 {
		return nil
	}
	cues := make([]string, repeats)
	switch cue {
	case design.CueNone:
	case design.CueRandom:
		if len(pids) == 0 {
			break
		}
		for i := range cues {
			cues[i] = pids[rng.IntN(len(pids))]
		}
	default:
		for i := range cues {
			cues[i] = cue
		}
	}
	return cues
}

// At locates passed seconds within the run: the 0-based trial and its phase.
// Times past the end stay in the last trial. A phase boundary belongs to the
// earlier phase.
func (r Request) At(passed float64) (trial int, phase Phase) {
	length := r.TrialLength()
	if length <= 0 || r.TrialRepeats <= 0 {
		return 0, PhaseHead
	}
	if passed < 0 {
		passed = 0
	}
	trial = min(r.TrialRepeats-1, int(passed/length))

	t := passed - float64(trial)*length
	switch {
	case t > r.TrialHeadLength+r.TrialBodyLength:
		return trial, PhaseTail
	case t > r.TrialHeadLength:
		return trial, PhaseBody
	default:
		return trial, PhaseHead
	}
}
