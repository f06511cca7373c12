package program

// Block is a node in a control-flow graph: an ordered instruction sequence
// and the blocks control may continue into. Blocks are compared by
// identity, never structurally; the graph may share blocks between
// predecessors (join points, loop heads) and may contain cycles.
//
// Follow order is meaningful: when a block's instructions leave a boolean
// on the stack and the block has two follows, the first is taken when the
// condition is true and the second when it is false.
type Block struct {
	code    []Instruction
	follows []*Block
}

// NewBlock creates a block holding the given instructions and no follows.
func NewBlock(code ...Instruction) *Block {
	return &Block{code: code}
}

// Code returns the block's instructions in execution order.
func (b *Block) Code() []Instruction { return b.code }

// Follows returns the successor blocks in branch order.
func (b *Block) Follows() []*Block { return b.follows }

// AddFollow appends a successor block.
func (b *Block) AddFollow(next *Block) {
	b.follows = append(b.follows, next)
}
