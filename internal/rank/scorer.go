package rank

// Threshold is the minimum score a posting needs to be forwarded.
const Threshold = 40

// Admit reports whether score clears the admission threshold.
func Admit(score int) bool { return score >= Threshold }
