package vm

import "go.creack.net/shork/op"

// AccessType tells how a cell was last touched.
type AccessType int

// AccessType values.
const (
	AccessNone AccessType = iota
	AccessRead
	AccessWrite
)

// RamEntry is a single core cell.
type RamEntry struct {
	Value      op.Instruction
	Process    *Process // Who last used the entry. Nil during placement.
	Program    *Program // Who last wrote the entry.
	AccessType AccessType
}

// Core is the circular memory shared by every program.
// Every address given to it is folded into [0, Size()).
type Core struct {
	ram           []RamEntry
	readDistance  int
	writeDistance int
	collector     Collector

	actor   *Process // Process executing, attributed to accesses.
	program *Program // Program being placed or executing.
}

// NewCore creates a core filled with the initial instruction.
// A zero or oversized distance means the size of the core.
func NewCore(size int, initial op.Instruction, readDistance, writeDistance int, collector Collector) *Core {
	clamp := func(d int) int {
		if d <= 0 || d > size {
			return size
		}
		return d
	}
	if collector == nil {
		collector = nopCollector{}
	}
	ram := make([]RamEntry, size)
	for i := range ram {
		ram[i].Value = initial
	}
	return &Core{
		ram:           ram,
		readDistance:  clamp(readDistance),
		writeDistance: clamp(writeDistance),
		collector:     collector,
	}
}

// Size returns the number of cells.
func (c *Core) Size() int { return len(c.ram) }

// Normalize folds any address into [0, Size()).
func (c *Core) Normalize(addr int) int {
	addr %= len(c.ram)
	if addr < 0 {
		addr += len(c.ram)
	}
	return addr
}

// LoadAbsolute returns a copy of the instruction at addr and records the read.
func (c *Core) LoadAbsolute(addr int) op.Instruction {
	addr = c.Normalize(addr)
	e := &c.ram[addr]
	e.AccessType = AccessRead
	e.Process = c.actor
	c.collector.CollectMemoryRead(addr)
	return e.Value
}

// StoreAbsolute places a copy of ins at addr and records the write.
func (c *Core) StoreAbsolute(addr int, ins op.Instruction) {
	addr = c.Normalize(addr)
	e := &c.ram[addr]
	e.Value = ins
	e.AccessType = AccessWrite
	e.Process = c.actor
	e.Program = c.program
	c.collector.CollectMemoryWrite(addr, ins)
}

// Peek returns the entry at addr without recording anything.
func (c *Core) Peek(addr int) RamEntry { return c.ram[c.Normalize(addr)] }

// ResolveForReading returns the absolute address a field designates for reading.
// Increment and decrement modes update the referenced cell.
func (c *Core) ResolveForReading(pc int, field int32, mode op.AddressMode) int {
	off := c.offset(pc, field, mode, c.readDistance, true)
	return c.Normalize(pc + off%c.readDistance)
}

// ResolveForWriting returns the absolute address a field designates for writing.
// Increment and decrement modes update the referenced cell.
func (c *Core) ResolveForWriting(pc int, field int32, mode op.AddressMode) int {
	off := c.offset(pc, field, mode, c.writeDistance, true)
	return c.Normalize(pc + off%c.writeDistance)
}

// operands are the resolved addresses of an instruction.
type operands struct {
	aRead  int
	bRead  int
	bWrite int
}

// resolve computes the operands of ins executing at pc.
// Side effects of the address modes happen once, A before B.
// When the write distance folds the B pointer onto another cell than the
// read distance does, that cell is only looked at.
func (c *Core) resolve(pc int, ins op.Instruction) operands {
	aOff := c.offset(pc, ins.AField, ins.AMode, c.readDistance, true)
	bOff := c.offset(pc, ins.BField, ins.BMode, c.readDistance, true)
	bWriteOff := bOff
	if c.pointer(pc, ins.BField, c.readDistance) != c.pointer(pc, ins.BField, c.writeDistance) {
		bWriteOff = c.offset(pc, ins.BField, ins.BMode, c.writeDistance, false)
	}
	return operands{
		aRead:  c.Normalize(pc + aOff%c.readDistance),
		bRead:  c.Normalize(pc + bOff%c.readDistance),
		bWrite: c.Normalize(pc + bWriteOff%c.writeDistance),
	}
}

// pointer returns the address of the cell field points to, folded by distance.
func (c *Core) pointer(pc int, field int32, distance int) int {
	return c.Normalize(pc + int(field)%distance)
}

// offset returns the pc relative offset designated by field under mode.
// The pointer cell is folded by distance and updated by the increment and
// decrement modes when apply is set.
func (c *Core) offset(pc int, field int32, mode op.AddressMode, distance int, apply bool) int {
	f := int(field)
	switch mode {
	case op.Immediate:
		return 0
	case op.Direct:
		return f
	}

	ref := c.pointer(pc, field, distance)
	cell := c.LoadAbsolute(ref)
	store := func() {
		if apply {
			c.StoreAbsolute(ref, cell)
		}
	}
	switch mode {
	case op.AIndirect:
		return f + int(cell.AField)
	case op.BIndirect:
		return f + int(cell.BField)
	case op.APreDecrement:
		cell.AField--
		store()
		return f + int(cell.AField)
	case op.BPreDecrement:
		cell.BField--
		store()
		return f + int(cell.BField)
	case op.APostIncrement:
		off := f + int(cell.AField)
		cell.AField++
		store()
		return off
	case op.BPostIncrement:
		off := f + int(cell.BField)
		cell.BField++
		store()
		return off
	default:
		return f
	}
}
