package auction

import "sort"

// ParticipantIndex answers "which orders belong to participant X". The core
// mutates it in lockstep with the books, so both always agree on the set of
// live order ids.
type ParticipantIndex struct {
	owned map[string]map[OrderID]*Order
}

func NewParticipantIndex() *ParticipantIndex {
	return &ParticipantIndex{owned: make(map[string]map[OrderID]*Order)}
}

func (x *ParticipantIndex) Add(o *Order) {
	set, ok := x.owned[o.Participant]
	if !ok {
		set = make(map[OrderID]*Order)
		x.owned[o.Participant] = set
	}
	set[o.ID] = o
}

func (x *ParticipantIndex) Remove(participant string, id OrderID) {
	set, ok := x.owned[participant]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(x.owned, participant)
	}
}

func (x *ParticipantIndex) Owns(participant string, id OrderID) bool {
	_, ok := x.owned[participant][id]
	return ok
}

// Get returns the participant's order with the given id, if they own it.
func (x *ParticipantIndex) Get(participant string, id OrderID) (*Order, bool) {
	o, ok := x.owned[participant][id]
	return o, ok
}

// OrdersOf returns the participant's live orders, oldest first. Unknown
// participants get an empty slice.
func (x *ParticipantIndex) OrdersOf(participant string) []*Order {
	set := x.owned[participant]
	out := make([]*Order, 0, len(set))
	for _, o := range set {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// Clear drops every order owned by the participant and returns them so the
// caller can evict the same ids from the books.
func (x *ParticipantIndex) Clear(participant string) []*Order {
	out := x.OrdersOf(participant)
	delete(x.owned, participant)
	return out
}
