package vm

import (
	"fmt"

	"go.creack.net/shork/op"
)

// exec runs ins for p. Operand addresses are already resolved.
func (cw *Corewar) exec(p *Process, ins op.Instruction, ops operands) {
	switch ins.Opcode {
	case op.DAT:
		p.Program.removeProcess(p)
	case op.NOP:
	case op.MOV:
		cw.execMov(ins.Modifier, ops)
	case op.ADD, op.SUB, op.MUL, op.DIV, op.MOD:
		if !cw.execArithmetic(ins.Opcode, ins.Modifier, ops) {
			p.Program.removeProcess(p)
		}
	case op.JMP:
		p.jump(ops.aRead)
	case op.JMZ:
		if isZero(ins.Modifier, cw.Core.LoadAbsolute(ops.bRead)) {
			p.jump(ops.aRead)
		}
	case op.JMN:
		if isNonZero(ins.Modifier, cw.Core.LoadAbsolute(ops.bRead)) {
			p.jump(ops.aRead)
		}
	case op.DJN:
		target := cw.Core.LoadAbsolute(ops.bRead)
		switch ins.Modifier {
		case op.ModA, op.ModBA:
			target.AField--
		case op.ModB, op.ModAB:
			target.BField--
		default:
			target.AField--
			target.BField--
		}
		cw.Core.StoreAbsolute(ops.bWrite, target)
		if isNonZero(ins.Modifier, target) {
			p.jump(ops.aRead)
		}
	case op.SEQ:
		if equal(ins.Modifier, cw.Core.LoadAbsolute(ops.aRead), cw.Core.LoadAbsolute(ops.bRead)) {
			p.skip()
		}
	case op.SNE:
		if !equal(ins.Modifier, cw.Core.LoadAbsolute(ops.aRead), cw.Core.LoadAbsolute(ops.bRead)) {
			p.skip()
		}
	case op.SLT:
		if lessThan(ins.Modifier, cw.Core.LoadAbsolute(ops.aRead), cw.Core.LoadAbsolute(ops.bRead)) {
			p.skip()
		}
	case op.SPL:
		p.Program.CreateProcessAt(ops.aRead)
	default:
		// STP and LDP need private storage which the vm does not have.
		cw.emit(MsgWarning, p, fmt.Sprintf("%s is not supported, executed as NOP", ins.Opcode))
	}
}

func (cw *Corewar) execMov(mod op.Modifier, ops operands) {
	src := cw.Core.LoadAbsolute(ops.aRead)
	if mod == op.ModI {
		cw.Core.StoreAbsolute(ops.bWrite, src)
		return
	}
	dst := cw.Core.LoadAbsolute(ops.bWrite)
	switch mod {
	case op.ModA:
		dst.AField = src.AField
	case op.ModB:
		dst.BField = src.BField
	case op.ModAB:
		dst.BField = src.AField
	case op.ModBA:
		dst.AField = src.BField
	case op.ModF:
		dst.AField, dst.BField = src.AField, src.BField
	case op.ModX:
		dst.AField, dst.BField = src.BField, src.AField
	}
	cw.Core.StoreAbsolute(ops.bWrite, dst)
}

// arithmetic combines a source and a destination field. It reports false on a fault.
type arithmetic func(src, dst int32) (int32, bool)

var arithmetics = map[op.Opcode]arithmetic{
	op.ADD: func(src, dst int32) (int32, bool) { return dst + src, true },
	op.SUB: func(src, dst int32) (int32, bool) { return dst - src, true },
	op.MUL: func(src, dst int32) (int32, bool) { return dst * src, true },
	op.DIV: func(src, dst int32) (int32, bool) {
		if dst == 0 {
			return 0, false
		}
		return src / dst, true
	},
	op.MOD: func(src, dst int32) (int32, bool) {
		if src == 0 {
			return 0, false
		}
		return dst % src, true
	},
}

// execArithmetic stores every result that could be computed.
// It reports false when at least one of them faulted.
func (cw *Corewar) execArithmetic(code op.Opcode, mod op.Modifier, ops operands) bool {
	f := arithmetics[code]
	src := cw.Core.LoadAbsolute(ops.aRead)
	dst := cw.Core.LoadAbsolute(ops.bRead)
	target := dst
	if ops.bWrite != ops.bRead {
		target = cw.Core.LoadAbsolute(ops.bWrite)
	}

	ok, changed := true, false
	apply := func(field *int32, s, d int32) {
		v, valid := f(s, d)
		if !valid {
			ok = false
			return
		}
		*field = v
		changed = true
	}
	switch mod {
	case op.ModA:
		apply(&target.AField, src.AField, dst.AField)
	case op.ModB:
		apply(&target.BField, src.BField, dst.BField)
	case op.ModAB:
		apply(&target.BField, src.AField, dst.BField)
	case op.ModBA:
		apply(&target.AField, src.BField, dst.AField)
	case op.ModF, op.ModI:
		apply(&target.AField, src.AField, dst.AField)
		apply(&target.BField, src.BField, dst.BField)
	case op.ModX:
		apply(&target.BField, src.AField, dst.BField)
		apply(&target.AField, src.BField, dst.AField)
	}
	if changed {
		cw.Core.StoreAbsolute(ops.bWrite, target)
	}
	return ok
}

// isZero tests the fields selected by the modifier. F, X and I need both to be zero.
func isZero(mod op.Modifier, ins op.Instruction) bool {
	switch mod {
	case op.ModA, op.ModBA:
		return ins.AField == 0
	case op.ModB, op.ModAB:
		return ins.BField == 0
	default:
		return ins.AField == 0 && ins.BField == 0
	}
}

// isNonZero tests the fields selected by the modifier. F, X and I need both to be non-zero.
func isNonZero(mod op.Modifier, ins op.Instruction) bool {
	switch mod {
	case op.ModA, op.ModBA:
		return ins.AField != 0
	case op.ModB, op.ModAB:
		return ins.BField != 0
	default:
		return ins.AField != 0 && ins.BField != 0
	}
}

func equal(mod op.Modifier, a, b op.Instruction) bool {
	switch mod {
	case op.ModA:
		return a.AField == b.AField
	case op.ModB:
		return a.BField == b.BField
	case op.ModAB:
		return a.AField == b.BField
	case op.ModBA:
		return a.BField == b.AField
	case op.ModF:
		return a.AField == b.AField && a.BField == b.BField
	case op.ModX:
		return a.AField == b.BField && a.BField == b.AField
	default:
		return a == b
	}
}

func lessThan(mod op.Modifier, a, b op.Instruction) bool {
	switch mod {
	case op.ModA:
		return a.AField < b.AField
	case op.ModB:
		return a.BField < b.BField
	case op.ModAB:
		return a.AField < b.BField
	case op.ModBA:
		return a.BField < b.AField
	case op.ModX:
		return a.AField < b.BField && a.BField < b.AField
	default:
		return a.AField < b.AField && a.BField < b.BField
	}
}
