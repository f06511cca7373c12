package image

import (
	"fmt"
	"strings"
)

// Disassemble renders a decoded image as text, one section per compiled
// member with its block graph, for the inspect command and for debugging.
func Disassemble(img *Image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kitten image v%d: %d classes, %d members, %d blocks\n",
		img.Version, len(img.Classes), len(img.Members), len(img.Blocks))

	for i, m := range img.Members {
		class := "?"
		if m.Class >= 0 && m.Class < len(img.Classes) {
			class = img.Classes[m.Class].Name
		}
		fmt.Fprintf(&b, "\n[%d] %s %s.%s", i, m.Kind, class, m.Name)
		if m.Type != "" {
			fmt.Fprintf(&b, ": %s", m.Type)
		}
		b.WriteByte('\n')
		if m.Entry < 0 {
			continue
		}
		for _, bi := range reachable(img, m.Entry) {
			blk := img.Blocks[bi]
			fmt.Fprintf(&b, "  block %d:\n", bi)
			for _, ins := range blk.Code {
				fmt.Fprintf(&b, "    %s\n", formatInstr(img, ins))
			}
			if len(blk.Follows) > 0 {
				fmt.Fprintf(&b, "    -> %s\n", joinInts(blk.Follows))
			}
		}
	}
	return b.String()
}

// reachable lists the block indices reachable from entry, in the same
// depth-first order the builder assigned them.
func reachable(img *Image, entry int) []int {
	seen := make(map[int]bool)
	var order []int
	var visit func(int)
	visit = func(i int) {
		if i < 0 || i >= len(img.Blocks) || seen[i] {
			return
		}
		seen[i] = true
		order = append(order, i)
		for _, f := range img.Blocks[i].Follows {
			visit(f)
		}
	}
	visit(entry)
	return order
}

func formatInstr(img *Image, ins InstrRecord) string {
	switch ins.Op {
	case "getfield", "putfield":
		return fmt.Sprintf("%s %s", ins.Op, memberName(img, ins.Member))
	case "call":
		names := make([]string, len(ins.Targets))
		for i, t := range ins.Targets {
			names[i] = memberName(img, t)
		}
		return fmt.Sprintf("call %s {%s}", ins.Static, strings.Join(names, ", "))
	case "return":
		return "return " + ins.Type
	case "const":
		return "const " + ins.Value
	case "load", "store":
		return fmt.Sprintf("%s %d", ins.Op, ins.Slot)
	default:
		return ins.Op
	}
}

func memberName(img *Image, idx int) string {
	if idx < 0 || idx >= len(img.Members) {
		return fmt.Sprintf("#%d", idx)
	}
	m := img.Members[idx]
	class := "?"
	if m.Class >= 0 && m.Class < len(img.Classes) {
		class = img.Classes[m.Class].Name
	}
	return class + "." + m.Name
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, " ")
}
