package translate

import "github.com/kittenlang/kitten/program"

// Ledger records the class member signatures already scheduled for
// translation during one compilation run. Membership is by signature
// identity. The ledger only grows; it is the sole guard that keeps the
// mutually recursive descent of Translate finite on cyclic call graphs.
//
// Insertion order is preserved so that downstream emission can iterate the
// compiled members deterministically.
type Ledger struct {
	members map[program.MemberSignature]struct{}
	order   []program.MemberSignature
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{members: make(map[program.MemberSignature]struct{})}
}

// MarkIfNew adds sig and reports whether it was not already present.
func (l *Ledger) MarkIfNew(sig program.MemberSignature) bool {
	if _, ok := l.members[sig]; ok {
		return false
	}
	l.members[sig] = struct{}{}
	l.order = append(l.order, sig)
	return true
}

// Contains reports whether sig has been scheduled.
func (l *Ledger) Contains(sig program.MemberSignature) bool {
	_, ok := l.members[sig]
	return ok
}

// Size returns the number of scheduled signatures.
func (l *Ledger) Size() int { return len(l.order) }

// Members returns the scheduled signatures in insertion order. Any code
// signature absent from the result is dead code and must not be emitted.
func (l *Ledger) Members() []program.MemberSignature {
	out := make([]program.MemberSignature, len(l.order))
	copy(out, l.order)
	return out
}
