package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/shork/op"
)

func TestCoreInitialInstruction(t *testing.T) {
	initial := op.Dat(42, 69)
	c := NewCore(100, initial, 0, 0, nil)
	require.Equal(t, 100, c.Size())
	for i := range c.Size() {
		assert.Equal(t, initial, c.Peek(i).Value)
	}
}

func TestCoreLoadStoreWraps(t *testing.T) {
	assert := assert.New(t)

	c := NewCore(10, op.Dat(0, 0), 0, 0, nil)
	ins := op.New(op.MOV, op.Direct, 0, op.Direct, 1)

	c.StoreAbsolute(3, ins)
	assert.Equal(ins, c.LoadAbsolute(3))

	c.StoreAbsolute(13, op.Dat(1, 1))
	assert.Equal(op.Dat(1, 1), c.LoadAbsolute(3))

	c.StoreAbsolute(-13, ins)
	assert.Equal(ins, c.LoadAbsolute(7))
	assert.Equal(ins, c.LoadAbsolute(-3))
}

func TestCoreStoresCopies(t *testing.T) {
	c := NewCore(10, op.Dat(0, 0), 0, 0, nil)
	ins := op.Dat(1, 2)
	c.StoreAbsolute(0, ins)
	ins.AField = 99
	got := c.LoadAbsolute(0)
	got.BField = 99
	assert.Equal(t, op.Dat(1, 2), c.LoadAbsolute(0))
}

func TestCoreReportsToCollector(t *testing.T) {
	cw := newTestCorewar(op.Dat(0, 0))
	pr := newTestProgram(cw, "Test")
	p := pr.CreateProcessAt(0)

	cw.Collector.StartRoundForProgram(pr)
	cw.Collector.CollectProcessDataBeforeTick(p)
	cw.Core.LoadAbsolute(42)
	cw.Core.LoadAbsolute(0)
	cw.Core.LoadAbsolute(4200)
	cw.Core.StoreAbsolute(42, op.Dat(0, 0))
	cw.Core.StoreAbsolute(1337, op.Dat(0, 0))
	cw.Core.StoreAbsolute(666, op.Dat(0, 0))
	cw.Collector.CollectProcessDataAfterTick(p)
	cw.Collector.EndRoundForProgram(pr)

	stats := cw.Collector.GameStatistics()
	require.Len(t, stats, 1)
	assert.Equal(t, []int{42, 0, 4200}, stats[0].MemoryReads)
	assert.Equal(t, []int{42, 1337, 666}, stats[0].MemoryWrites)
}

func TestResolveDistance(t *testing.T) {
	assert := assert.New(t)

	c10 := NewCore(100, op.Dat(42, 69), 10, 10, nil)
	assert.Equal(45, c10.ResolveForReading(42, 23, op.Direct))
	assert.Equal(46, c10.ResolveForReading(42, 34, op.Direct))
	assert.Equal(39, c10.ResolveForReading(42, -23, op.Direct))
	assert.Equal(38, c10.ResolveForReading(42, -34, op.Direct))
	assert.Equal(45, c10.ResolveForWriting(42, 23, op.Direct))
	assert.Equal(38, c10.ResolveForWriting(42, -34, op.Direct))

	c32 := NewCore(256, op.Dat(42, 69), 32, 32, nil)
	for i := 32; i < 100; i++ {
		for j := range int32(64) {
			assert.Equal(i+int(j%32), c32.ResolveForReading(i, j, op.Direct))
			assert.Equal(i-int(j%32), c32.ResolveForWriting(i, -j, op.Direct))
		}
	}

	// Results are always inside the core.
	assert.Equal(95, c10.ResolveForReading(2, -7, op.Direct))
}

func TestResolveSeparateDistances(t *testing.T) {
	c := NewCore(100, op.Dat(0, 0), 10, 20, nil)
	ops := c.resolve(50, op.New(op.MOV, op.Direct, 15, op.Direct, 15))
	assert.Equal(t, operands{aRead: 55, bRead: 55, bWrite: 65}, ops)
}

func TestResolveWritePointerUsesWriteDistance(t *testing.T) {
	assert := assert.New(t)

	c := NewCore(100, op.Dat(0, 0), 10, 20, nil)
	c.StoreAbsolute(55, op.Dat(0, 2))
	c.StoreAbsolute(65, op.Dat(0, 3))
	assert.Equal(57, c.ResolveForReading(50, 15, op.BIndirect))
	assert.Equal(68, c.ResolveForWriting(50, 15, op.BIndirect))

	ops := c.resolve(50, op.New(op.MOV, op.Direct, 0, op.BPostIncrement, 15))
	assert.Equal(57, ops.bRead)
	assert.Equal(68, ops.bWrite)
	assert.Equal(op.Dat(0, 3), c.Peek(55).Value)
	assert.Equal(op.Dat(0, 3), c.Peek(65).Value)
}

func TestResolveAddressModes(t *testing.T) {
	table := []struct {
		mode    op.AddressMode
		want    int
		pointer op.Instruction // Cell at pc+2 afterwards.
	}{
		{op.Immediate, 10, op.Dat(3, 5)},
		{op.Direct, 12, op.Dat(3, 5)},
		{op.AIndirect, 15, op.Dat(3, 5)},
		{op.BIndirect, 17, op.Dat(3, 5)},
		{op.APreDecrement, 14, op.Dat(2, 5)},
		{op.APostIncrement, 15, op.Dat(4, 5)},
		{op.BPreDecrement, 16, op.Dat(3, 4)},
		{op.BPostIncrement, 17, op.Dat(3, 6)},
	}
	for _, elem := range table {
		t.Run(elem.mode.String(), func(t *testing.T) {
			c := NewCore(100, op.Dat(0, 0), 0, 0, nil)
			c.StoreAbsolute(12, op.Dat(3, 5))
			assert.Equal(t, elem.want, c.ResolveForReading(10, 2, elem.mode))
			assert.Equal(t, elem.pointer, c.Peek(12).Value)
		})
	}
}

func TestResolveSideEffectsHappenOnce(t *testing.T) {
	c := NewCore(100, op.Dat(0, 0), 0, 0, nil)
	c.StoreAbsolute(1, op.Dat(0, 0))
	ins := op.New(op.MOV, op.Direct, 0, op.BPostIncrement, 1)
	ops := c.resolve(0, ins)
	assert.Equal(t, 1, ops.bRead)
	assert.Equal(t, 1, ops.bWrite)
	assert.Equal(t, int32(1), c.Peek(1).Value.BField)
}

func TestNormalize(t *testing.T) {
	c := NewCore(8000, op.Dat(0, 0), 0, 0, nil)
	for _, addr := range []int{-16001, -8000, -1, 0, 1, 7999, 8000, 123456} {
		n := c.Normalize(addr)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 8000)
		assert.Equal(t, 0, (addr-n)%8000)
	}
}
