// Package image turns the output of a translation run into a compiled
// Kitten image: an indexed, serializable record of every scheduled class
// member and every reachable basic block. Images encode to canonical CBOR,
// so the same program always produces the same bytes.
package image

import (
	"fmt"

	"github.com/kittenlang/kitten/program"
)

// FormatVersion is bumped whenever the record layout changes.
const FormatVersion uint32 = 1

// Image is the serializable form of a compiled program.
type Image struct {
	Version uint32         `cbor:"version"`
	Classes []ClassRecord  `cbor:"classes"`
	Members []MemberRecord `cbor:"members"`
	Blocks  []BlockRecord  `cbor:"blocks"`
}

// ClassRecord describes one class mentioned by a compiled member.
type ClassRecord struct {
	Name       string `cbor:"name"`
	Superclass int    `cbor:"superclass"` // class index, -1 for the root
}

// MemberRecord describes one scheduled member. Fields have no entry block.
type MemberRecord struct {
	Class int    `cbor:"class"` // class index
	Kind  string `cbor:"kind"`  // method, constructor, fixture, test, field
	Name  string `cbor:"name"`
	Type  string `cbor:"type"`  // field type or return type
	Entry int    `cbor:"entry"` // block index, -1 for fields
}

// BlockRecord is one basic block; follows are block indices.
type BlockRecord struct {
	Code    []InstrRecord `cbor:"code"`
	Follows []int         `cbor:"follows"`
}

// InstrRecord is one encoded instruction. Unused index fields hold -1.
type InstrRecord struct {
	Op      string `cbor:"op"`
	Member  int    `cbor:"member"`            // field index for getfield/putfield
	Static  string `cbor:"static,omitempty"`  // declared call target
	Targets []int  `cbor:"targets,omitempty"` // resolved call target indices
	Slot    int    `cbor:"slot"`
	Value   string `cbor:"value,omitempty"`
	Type    string `cbor:"type,omitempty"`
}

// builder accumulates records while linearizing the block graphs.
type builder struct {
	img        *Image
	classIndex map[*program.Class]int
	memberIdx  map[program.MemberSignature]int
	blockIndex map[*program.Block]int
}

// Build linearizes the scheduled members (the ledger contents, in
// insertion order) into an image. Every call target must itself be
// scheduled and every code member must have an entry block; either
// violation means the translation run was incomplete and is an error.
func Build(members []program.MemberSignature) (*Image, error) {
	b := &builder{
		img:        &Image{Version: FormatVersion},
		classIndex: make(map[*program.Class]int),
		memberIdx:  make(map[program.MemberSignature]int),
		blockIndex: make(map[*program.Block]int),
	}

	// Index members up front so call instructions can reference targets
	// scheduled after their caller.
	for _, m := range members {
		if _, ok := b.memberIdx[m]; ok {
			return nil, fmt.Errorf("image: duplicate member %s", m)
		}
		b.memberIdx[m] = len(b.img.Members)
		b.img.Members = append(b.img.Members, MemberRecord{
			Class: b.class(m.DefiningClass()),
			Name:  m.Name(),
			Entry: -1,
		})
	}

	for i, m := range members {
		rec := &b.img.Members[i]
		switch m := m.(type) {
		case *program.CodeSignature:
			rec.Kind = m.Kind().String()
			rec.Type = m.ReturnType().String()
			if m.Code() == nil {
				return nil, fmt.Errorf("image: %s has no entry block", m)
			}
			entry, err := b.block(m.Code())
			if err != nil {
				return nil, err
			}
			rec.Entry = entry
		case *program.FieldSignature:
			rec.Kind = "field"
			rec.Type = m.Type().String()
		default:
			return nil, fmt.Errorf("image: unknown member kind %T", m)
		}
	}

	return b.img, nil
}

// class interns a class record, interning superclasses first so a record's
// superclass index always refers backwards.
func (b *builder) class(c *program.Class) int {
	if idx, ok := b.classIndex[c]; ok {
		return idx
	}
	super := -1
	if c.Superclass() != nil {
		super = b.class(c.Superclass())
	}
	idx := len(b.img.Classes)
	b.classIndex[c] = idx
	b.img.Classes = append(b.img.Classes, ClassRecord{Name: c.Name(), Superclass: super})
	return idx
}

// block linearizes the graph reachable from blk depth-first. Shared blocks
// keep one record; the index map doubles as the visited set.
func (b *builder) block(blk *program.Block) (int, error) {
	if idx, ok := b.blockIndex[blk]; ok {
		return idx, nil
	}
	idx := len(b.img.Blocks)
	b.blockIndex[blk] = idx
	b.img.Blocks = append(b.img.Blocks, BlockRecord{})

	rec := BlockRecord{Code: make([]InstrRecord, 0, len(blk.Code()))}
	for _, ins := range blk.Code() {
		enc, err := b.instruction(ins)
		if err != nil {
			return 0, err
		}
		rec.Code = append(rec.Code, enc)
	}
	for _, follow := range blk.Follows() {
		fi, err := b.block(follow)
		if err != nil {
			return 0, err
		}
		rec.Follows = append(rec.Follows, fi)
	}
	b.img.Blocks[idx] = rec
	return idx, nil
}

func (b *builder) instruction(ins program.Instruction) (InstrRecord, error) {
	rec := InstrRecord{Member: -1, Slot: -1}
	switch ins := ins.(type) {
	case program.GetField:
		rec.Op = "getfield"
		idx, ok := b.memberIdx[ins.Field]
		if !ok {
			return rec, fmt.Errorf("image: field %s referenced but not scheduled", ins.Field)
		}
		rec.Member = idx
	case program.PutField:
		rec.Op = "putfield"
		idx, ok := b.memberIdx[ins.Field]
		if !ok {
			return rec, fmt.Errorf("image: field %s referenced but not scheduled", ins.Field)
		}
		rec.Member = idx
	case program.Call:
		rec.Op = "call"
		rec.Static = ins.Static.String()
		for _, target := range ins.DynamicTargets {
			idx, ok := b.memberIdx[target]
			if !ok {
				return rec, fmt.Errorf("image: call target %s not scheduled", target)
			}
			rec.Targets = append(rec.Targets, idx)
		}
	case program.Return:
		rec.Op = "return"
		rec.Type = ins.Type.String()
	case program.Const:
		rec.Op = "const"
		rec.Value = fmt.Sprintf("%v", ins.Value)
	case program.Load:
		rec.Op = "load"
		rec.Slot = ins.Slot
	case program.Store:
		rec.Op = "store"
		rec.Slot = ins.Slot
	case program.Arith:
		rec.Op = string(ins.Op)
	case program.Pop:
		rec.Op = "pop"
	default:
		return rec, fmt.Errorf("image: unknown instruction %T", ins)
	}
	return rec, nil
}
