package types

// Signal is the directional outcome of a strategy evaluation. It is produced
// fresh on every evaluation and never persisted.
type Signal string

const (
	SignalLong  Signal = "long"
	SignalShort Signal = "short"
	SignalFlat  Signal = "flat"
)

// Vote maps a signal to its contribution in a composite vote.
func (s Signal) Vote() int {
	switch s {
	case SignalLong:
		return 1
	case SignalShort:
		return -1
	default:
		return 0
	}
}

// Side is the order side derived from a directional signal.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SideFor returns the order side used to open a position in the signalled
// direction.
func SideFor(s Signal) Side {
	if s == SignalShort {
		return SideSell
	}
	return SideBuy
}
