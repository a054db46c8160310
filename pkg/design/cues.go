package design

// Sentinel cues offered ahead of the patch ids.
const (
	// CueRandom picks a random patch for every trial.
	CueRandom = "!Random"
	// CueNone runs trials without a cue.
	CueNone = "!NoCue"
)

// Cues returns the selectable cue options for d: the two sentinels followed
// by every pid in parse order. Duplicated pids appear as often as they occur.
func Cues(d Design) []string {
	return append([]string{CueRandom, CueNone}, d.PIDs()...)
}

// IsCue reports whether cue is one of the options [Cues] returns for d.
func IsCue(d Design, cue string) bool {
	for _, c := range Cues(d) {
		if c == cue {
			return true
		}
	}
	return false
}
