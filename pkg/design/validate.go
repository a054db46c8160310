package design

// Duplicate is a patch id that occurs more than once.
type Duplicate struct {
	PID   string `json:"pid"`
	Count int    `json:"count"`
}

// ValidateUnique returns every pid that occurs more than once in d, in order
// of first appearance, with its occurrence count. It returns nil when all
// pids are distinct. The design itself is left untouched.
func ValidateUnique(d Design) []Duplicate {
	counts := make(map[string]int, len(d))
	var order []string
	for _, r := range d {
		if counts[r.PID] == 0 {
			order = append(order, r.PID)
		}
		counts[r.PID]++
	}
	if len(order) == len(d) {
		return nil
	}

	var dups []Duplicate
	for _, pid := range order {
		if n := counts[pid]; n > 1 {
			dups = append(dups, Duplicate{PID: pid, Count: n})
		}
	}
	return dups
}
