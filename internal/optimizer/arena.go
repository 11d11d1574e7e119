package optimizer

// stateKey identifies a reachable DP state: progress along the route and the
// ceiling-rounded time slot reached.
type stateKey struct {
	node int32
	slot int32
}

// stateRec is one arena entry. prev is an arena index, never a pointer;
// the root state has prev == -1. The choice fields record the transition
// that produced this state for schedule extraction.
type stateRec struct {
	node int32
	slot int32
	fuel float64 // minimum cumulative fuel into this state
	prev int32

	engineKn float64
	groundKn float64
	hours    float64
	legFuel  float64
}

// arena is a flat growable store of state records with a sparse (node, slot)
// index. Unreachable states are simply absent. The arena is local to one
// optimizer invocation and discarded after schedule extraction.
type arena struct {
	recs  []stateRec
	index map[stateKey]int32
}

func newArena() *arena {
	return &arena{index: make(map[stateKey]int32)}
}

func (a *arena) lookup(node, slot int32) (int32, bool) {
	id, ok := a.index[stateKey{node, slot}]
	return id, ok
}

func (a *arena) at(id int32) *stateRec {
	return &a.recs[id]
}

// relax records cand as the new best way into (cand.node, cand.slot) if it is
// strictly cheaper than anything seen for that state. Strict comparison plus
// the fixed ascending (slot, speed) iteration order of the search gives the
// documented deterministic tie-break: the lexicographically smallest
// (time_slot, speed) discovered first wins.
func (a *arena) relax(cand stateRec) {
	key := stateKey{cand.node, cand.slot}
	if id, ok := a.index[key]; ok {
		if cand.fuel < a.recs[id].fuel {
			a.recs[id] = cand
		}
		return
	}
	a.recs = append(a.recs, cand)
	a.index[key] = int32(len(a.recs) - 1)
}
