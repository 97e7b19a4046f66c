package circuit

// Filter selects which instructions contribute a layer to Depth.
type Filter func(Instruction) bool

// All counts every instruction.
func All(Instruction) bool { return true }

// Depth returns the length of the longest dependency chain, counting only
// instructions accepted by filter. Rejected instructions still synchronise
// the operands they touch, so a barrier aligns its qubits even though it
// never adds a layer.
func (c *Circuit) Depth(filter Filter) int {
	if filter == nil {
		filter = All
	}
	nq := c.NumQubits()
	stack := make([]int, nq+c.NumClbits())
	for _, in := range c.Data {
		wires := make([]int, 0, len(in.Qubits)+len(in.Clbits))
		for _, q := range in.Qubits {
			idx, err := c.QubitIndex(q)
			if err != nil {
				continue
			}
			wires = append(wires, idx)
		}
		for _, b := range in.Clbits {
			idx, err := c.ClbitIndex(b)
			if err != nil {
				continue
			}
			wires = append(wires, nq+idx)
		}
		if len(wires) == 0 {
			continue
		}
		inc := 0
		if filter(in) {
			inc = 1
		}
		level := 0
		for _, w := range wires {
			level = max(level, stack[w]+inc)
		}
		for _, w := range wires {
			stack[w] = level
		}
	}
	depth := 0
	for _, l := range stack {
		depth = max(depth, l)
	}
	return depth
}
