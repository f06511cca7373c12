package translate

import (
	"strings"
	"testing"

	"github.com/kittenlang/kitten/program"
)

// stubBody lowers to a single block holding the given instructions, linked
// to the continuation.
type stubBody struct {
	code []program.Instruction
}

func (b stubBody) Lower(_ *program.CodeSignature, cont *program.Block) *program.Block {
	entry := program.NewBlock(b.code...)
	entry.AddFollow(cont)
	return entry
}

// funcBody lowers through an arbitrary function, for bodies that need
// loops or explicit returns.
type funcBody struct {
	fn func(cont *program.Block) *program.Block
}

func (b funcBody) Lower(_ *program.CodeSignature, cont *program.Block) *program.Block {
	return b.fn(cont)
}

// countingBody counts how many times lowering runs.
type countingBody struct {
	count int
	code  []program.Instruction
}

func (b *countingBody) Lower(_ *program.CodeSignature, cont *program.Block) *program.Block {
	b.count++
	entry := program.NewBlock(b.code...)
	entry.AddFollow(cont)
	return entry
}

func call(targets ...*program.CodeSignature) program.Call {
	return program.Call{Static: targets[0], DynamicTargets: targets}
}

func TestLedgerMarkIfNew(t *testing.T) {
	c := program.NewClass("C", nil)
	m := c.AddMethod("m", nil, program.VoidType)
	f := c.AddField("f", program.IntType)

	l := NewLedger()
	if !l.MarkIfNew(m) {
		t.Error("first MarkIfNew should report new")
	}
	if l.MarkIfNew(m) {
		t.Error("second MarkIfNew should report already present")
	}
	if !l.MarkIfNew(f) {
		t.Error("distinct member should be new")
	}
	if !l.Contains(m) || !l.Contains(f) {
		t.Error("ledger should contain both members")
	}
	if got := l.Size(); got != 2 {
		t.Errorf("Size = %d, want 2", got)
	}

	members := l.Members()
	if len(members) != 2 || members[0] != m || members[1] != f {
		t.Errorf("Members should preserve insertion order, got %v", members)
	}
}

func TestTranslateIdempotence(t *testing.T) {
	c := program.NewClass("C", nil)
	m := c.AddMethod("m", nil, program.VoidType)
	body := &countingBody{}
	m.Bind(body)

	tr := New()
	tr.Translate(m)
	first := m.Code()
	size := tr.Ledger().Size()

	tr.Translate(m)
	if body.count != 1 {
		t.Errorf("lowering ran %d times, want 1", body.count)
	}
	if m.Code() != first {
		t.Error("entry block changed on retranslation")
	}
	if tr.Ledger().Size() != size {
		t.Errorf("ledger grew from %d to %d on retranslation", size, tr.Ledger().Size())
	}
}

func TestTranslateTerminatesOnMutualRecursion(t *testing.T) {
	a := program.NewClass("A", nil)
	b := program.NewClass("B", nil)
	am := a.AddMethod("m", nil, program.VoidType)
	bm := b.AddMethod("m", nil, program.VoidType)
	am.Bind(stubBody{code: []program.Instruction{call(bm)}})
	bm.Bind(stubBody{code: []program.Instruction{call(am)}})

	tr := New()
	tr.Translate(am)

	if !tr.Ledger().Contains(am) || !tr.Ledger().Contains(bm) {
		t.Fatal("both signatures should be scheduled")
	}
	if tr.Ledger().Size() != 2 {
		t.Errorf("ledger size = %d, want 2", tr.Ledger().Size())
	}
	if am.Code() == nil || bm.Code() == nil {
		t.Error("both signatures should have entry blocks")
	}
}

func TestTranslateTerminatesOnSelfRecursion(t *testing.T) {
	c := program.NewClass("C", nil)
	m := c.AddMethod("m", nil, program.VoidType)
	m.Bind(stubBody{code: []program.Instruction{call(m)}})

	tr := New()
	tr.Translate(m)
	if tr.Ledger().Size() != 1 {
		t.Errorf("ledger size = %d, want 1", tr.Ledger().Size())
	}
}

func TestWalkTerminatesOnBlockCycle(t *testing.T) {
	c := program.NewClass("C", nil)
	target := c.AddMethod("callee", nil, program.VoidType)
	target.Bind(stubBody{})
	m := c.AddMethod("m", nil, program.VoidType)

	// Loop head tests a condition, runs a body block holding a call, and
	// loops back to itself; the false branch exits to the continuation.
	m.Bind(funcBody{fn: func(cont *program.Block) *program.Block {
		head := program.NewBlock(program.Const{Value: true})
		loop := program.NewBlock(call(target))
		loop.AddFollow(head)
		head.AddFollow(loop)
		head.AddFollow(cont)
		return head
	}})

	tr := New()
	tr.Translate(m)

	if !tr.Ledger().Contains(target) {
		t.Error("call inside the loop body should be discovered")
	}
	if tr.Ledger().Size() != 2 {
		t.Errorf("ledger size = %d, want 2", tr.Ledger().Size())
	}
}

func TestReturnContinuationInsertion(t *testing.T) {
	c := program.NewClass("C", nil)

	// A body with a fall-through path links to the inserted continuation.
	falls := c.AddMethod("falls", nil, program.VoidType)
	falls.Bind(stubBody{code: []program.Instruction{program.Const{Value: int64(1)}, program.Pop{}}})

	// A body returning on every path never links to it.
	returns := c.AddMethod("returns", nil, program.IntType)
	returns.Bind(funcBody{fn: func(_ *program.Block) *program.Block {
		return program.NewBlock(program.Const{Value: int64(7)}, program.Return{Type: program.IntType})
	}})

	tr := New()
	tr.Translate(falls)
	tr.Translate(returns)

	entry := falls.Code()
	if len(entry.Follows()) != 1 {
		t.Fatalf("fall-through entry has %d follows, want 1", len(entry.Follows()))
	}
	cont := entry.Follows()[0]
	if len(cont.Code()) != 1 {
		t.Fatalf("continuation has %d instructions, want 1", len(cont.Code()))
	}
	ret, ok := cont.Code()[0].(program.Return)
	if !ok {
		t.Fatalf("continuation instruction is %T, want Return", cont.Code()[0])
	}
	if ret.Type != program.VoidType {
		t.Errorf("inserted return yields %s, want void", ret.Type)
	}

	if n := len(returns.Code().Follows()); n != 0 {
		t.Errorf("explicitly returning body has %d follows, want none", n)
	}
}

func TestEntryPointCompleteness(t *testing.T) {
	other := program.NewClass("Other", nil)
	fixture := other.AddFixture()
	fixture.Bind(stubBody{})
	test := other.AddTest("checkInvariant")
	test.Bind(stubBody{})
	counter := other.AddField("counter", program.IntType)

	main := program.NewClass("Main", nil)
	m := main.AddMethod("run", nil, program.VoidType)
	m.Bind(stubBody{code: []program.Instruction{
		program.Load{Slot: 0},
		program.GetField{Field: counter},
		program.Pop{},
	}})

	tr := New()
	tr.Translate(m)

	for _, want := range []program.MemberSignature{fixture, test, counter} {
		if !tr.Ledger().Contains(want) {
			t.Errorf("ledger should contain %s", want)
		}
	}
	if fixture.Code() == nil || test.Code() == nil {
		t.Error("fixture and test should be translated, not just recorded")
	}
}

func TestOwnClassEntryPointsScheduled(t *testing.T) {
	c := program.NewClass("C", nil)
	fixture := c.AddFixture()
	fixture.Bind(stubBody{})
	m := c.AddMethod("m", nil, program.VoidType)
	m.Bind(stubBody{})

	tr := New()
	tr.Translate(m)
	if !tr.Ledger().Contains(fixture) {
		t.Error("translating a method should schedule its own class's fixtures")
	}
}

func TestVirtualDispatchFanOut(t *testing.T) {
	base := program.NewClass("Base", nil)
	f1 := base.AddFixture()
	f1.Bind(stubBody{})
	baseM := base.AddMethod("m", nil, program.VoidType)
	baseM.Bind(stubBody{})

	derived := program.NewClass("Derived", base)
	f2 := derived.AddFixture()
	f2.Bind(stubBody{})
	derivedM := derived.AddMethod("m", nil, program.VoidType)
	derivedM.Bind(stubBody{})

	main := program.NewClass("Main", nil)
	run := main.AddMethod("run", nil, program.VoidType)
	run.Bind(stubBody{code: []program.Instruction{
		program.Load{Slot: 0},
		program.Call{Static: baseM, DynamicTargets: []*program.CodeSignature{baseM, derivedM}},
	}})

	tr := New()
	tr.Translate(run)

	for _, want := range []*program.CodeSignature{baseM, derivedM, f1, f2} {
		if !tr.Ledger().Contains(want) {
			t.Errorf("ledger should contain %s", want)
		}
		if want.Code() == nil {
			t.Errorf("%s should have an entry block", want)
		}
	}

	// Ledger membership is a set: run, both targets, both fixtures.
	if tr.Ledger().Size() != 5 {
		t.Errorf("ledger size = %d, want 5", tr.Ledger().Size())
	}
}

func TestSharedAncestorScheduledOnce(t *testing.T) {
	ancestor := program.NewClass("Ancestor", nil)
	fixture := ancestor.AddFixture()
	fixture.Bind(stubBody{})
	shared := ancestor.AddField("shared", program.IntType)

	read := []program.Instruction{
		program.Load{Slot: 0},
		program.GetField{Field: shared},
		program.Pop{},
	}

	a := program.NewClass("A", ancestor)
	am := a.AddMethod("m", nil, program.VoidType)
	am.Bind(stubBody{code: read})
	b := program.NewClass("B", ancestor)
	bm := b.AddMethod("m", nil, program.VoidType)
	bm.Bind(stubBody{code: read})

	main := program.NewClass("Main", nil)
	run := main.AddMethod("run", nil, program.VoidType)
	run.Bind(stubBody{code: []program.Instruction{
		program.Call{Static: am, DynamicTargets: []*program.CodeSignature{am, bm}},
	}})

	tr := New()
	tr.Translate(run)

	// run, A.m, B.m, the shared field, and the ancestor fixture: the
	// fixture is deduplicated even though both targets touch Ancestor.
	if tr.Ledger().Size() != 5 {
		t.Errorf("ledger size = %d, want 5", tr.Ledger().Size())
	}
	if !tr.Ledger().Contains(fixture) {
		t.Error("ancestor fixture should be scheduled")
	}
}

func TestNarrowPropagationPolicy(t *testing.T) {
	// Far has a fixture, but is only the declared type of a field that is
	// never read or written; its fixture must not be scheduled. Touched's
	// ordinary method must not be scheduled either.
	far := program.NewClass("Far", nil)
	farFixture := far.AddFixture()
	farFixture.Bind(stubBody{})

	touched := program.NewClass("Touched", nil)
	touched.AddField("link", far)
	unused := touched.AddMethod("unused", nil, program.VoidType)
	unused.Bind(stubBody{})
	count := touched.AddField("count", program.IntType)

	main := program.NewClass("Main", nil)
	run := main.AddMethod("run", nil, program.VoidType)
	run.Bind(stubBody{code: []program.Instruction{
		program.Load{Slot: 0},
		program.Const{Value: int64(0)},
		program.PutField{Field: count},
	}})

	tr := New()
	tr.Translate(run)

	if tr.Ledger().Contains(farFixture) {
		t.Error("class reachable only through a field's declared type must not be visited")
	}
	if tr.Ledger().Contains(unused) {
		t.Error("ordinary methods of a touched class must not be scheduled")
	}
	if !tr.Ledger().Contains(count) {
		t.Error("the written field itself should be recorded")
	}
}

func TestDeterministicSchedulingOrder(t *testing.T) {
	build := func() *Translator {
		helper := program.NewClass("Helper", nil)
		helper.AddFixture().Bind(stubBody{})
		helper.AddTest("t1").Bind(stubBody{})
		ha := helper.AddMethod("a", nil, program.VoidType)
		ha.Bind(stubBody{})
		hb := helper.AddMethod("b", nil, program.VoidType)
		hb.Bind(stubBody{})

		main := program.NewClass("Main", nil)
		run := main.AddMethod("run", nil, program.VoidType)
		run.Bind(stubBody{code: []program.Instruction{
			program.Call{Static: ha, DynamicTargets: []*program.CodeSignature{ha, hb}},
		}})

		tr := New()
		tr.Translate(run)
		return tr
	}

	order := func(tr *Translator) string {
		var names []string
		for _, m := range tr.Ledger().Members() {
			names = append(names, m.String())
		}
		return strings.Join(names, ";")
	}

	first := order(build())
	for i := 0; i < 5; i++ {
		if got := order(build()); got != first {
			t.Fatalf("scheduling order varies between runs:\n%s\n%s", first, got)
		}
	}
}
