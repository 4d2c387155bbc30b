package vizh

import "sort"

// placedInstruction pairs a recognised Instruction with the bounding
// box of the shape it was recognised from, used only until Layout has
// ordered every instruction into reading order.
type placedInstruction struct {
	box   BoundingBox
	instr Instruction
}

// Layout orders a set of recognised instructions into reading order:
// top-to-bottom by line, then left-to-right within a line. A new line
// starts whenever the next symbol's top edge falls below the bottom
// edge of the single glyph immediately before it — not the running
// bottom of the line so far — which is the same fragile-but-faithful
// rule the original parser uses (a tall glyph early in a line does not
// pull every later, shorter glyph onto a new line).
func Layout(placed []placedInstruction) []Instruction {
	if len(placed) == 0 {
		return nil
	}

	ordered := make([]placedInstruction, len(placed))
	copy(ordered, placed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].box.Y+ordered[i].box.H < ordered[j].box.Y+ordered[j].box.H
	})

	var lines [][]placedInstruction
	current := []placedInstruction{ordered[0]}
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.box.Y > prev.box.Y+prev.box.H {
			lines = append(lines, current)
			current = nil
		}
		current = append(current, cur)
	}
	lines = append(lines, current)

	var result []Instruction
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].box.X < line[j].box.X })
		for _, p := range line {
			result = append(result, p.instr)
		}
	}
	return result
}
