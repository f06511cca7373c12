// Package translate schedules the translation of method and constructor
// bodies into intermediate code, discovering transitively every member the
// program needs: it lowers one body into a block graph, walks the graph for
// field and call instructions, translates every resolved call target, and
// pulls in the fixtures and tests of every class the code touches.
//
// The whole scheduler is single-threaded and synchronous: one pass of a
// batch compiler over an already resolved program. Termination on cyclic
// call and block graphs comes from two identity-keyed visited sets, the
// Ledger for signatures and a per-body block set, checked before every
// recursion.
package translate

import (
	"fmt"

	"github.com/kittenlang/kitten/program"
)

// Translator drives translation for one compilation run. Every signature
// is lowered at most once; the zero of work for an already scheduled
// signature makes repeated and mutually recursive scheduling cheap no-ops.
type Translator struct {
	ledger *Ledger
}

// New creates a translator with an empty ledger.
func New() *Translator {
	return &Translator{ledger: NewLedger()}
}

// Ledger exposes the scheduled-member set, for emission and linking.
func (t *Translator) Ledger() *Ledger { return t.ledger }

// Translate lowers sig's body into a block graph and schedules everything
// it references. If sig has already been scheduled this is a no-op.
//
// The body is lowered with a continuation block holding a single void
// return, so a body with a fall-through path still terminates correctly;
// bodies that return on every path simply never link to it. A signature
// with no bound body or a lowering that yields no entry block is a fatal
// condition for the whole compilation.
func (t *Translator) Translate(sig *program.CodeSignature) {
	if !t.ledger.MarkIfNew(sig) {
		return
	}

	t.propagate(sig.DefiningClass())

	body := sig.Body()
	if body == nil {
		panic(fmt.Sprintf("translate: no body bound for %s", sig))
	}
	entry := body.Lower(sig, program.NewBlock(program.Return{Type: program.VoidType}))
	if entry == nil {
		panic(fmt.Sprintf("translate: lowering %s produced no entry block", sig))
	}
	sig.SetCode(entry)

	t.walk(entry, make(map[*program.Block]bool))
}

// walk visits every block reachable from block once, scheduling the
// members its instructions reference. The visited set is scoped to one
// body: a block reachable from two different bodies is walked once under
// each, which is cheap next to re-lowering a body.
func (t *Translator) walk(block *program.Block, visited map[*program.Block]bool) {
	if visited[block] {
		return
	}
	visited[block] = true

	for _, ins := range block.Code() {
		switch ins := ins.(type) {
		case program.GetField:
			t.propagate(ins.Field.DefiningClass())
			t.ledger.MarkIfNew(ins.Field)
		case program.PutField:
			t.propagate(ins.Field.DefiningClass())
			t.ledger.MarkIfNew(ins.Field)
		case program.Call:
			for _, target := range ins.DynamicTargets {
				t.propagate(target.DefiningClass())
				t.Translate(target)
			}
		}
		// Everything else moves values around; it references no members.
	}

	for _, follow := range block.Follows() {
		t.walk(follow, visited)
	}
}

// propagate schedules the intrinsic entry points of a touched class: its
// fixtures and tests, which the external harness runs even though no call
// instruction ever reaches them. Only fixtures and tests cascade; the
// methods, constructors and fields of a merely touched class are not
// scheduled, and a class mentioned only as a field's declared type is not
// touched at all.
func (t *Translator) propagate(class *program.Class) {
	for _, fixture := range class.Fixtures() {
		t.Translate(fixture)
	}
	for _, test := range class.Tests() {
		t.Translate(test)
	}
}
