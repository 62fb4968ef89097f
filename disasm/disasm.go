// Package disasm renders instructions back into Redcode.
package disasm

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/assets"
	"go.creack.net/shork/op"
	"go.creack.net/shork/vm"
)

func md5sum(data []byte) string {
	h := md5.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Listing writes one canonical instruction per line.
// Compiling the output yields the same instructions.
func Listing(w io.Writer, code []op.Instruction) error {
	for _, elem := range code {
		if _, err := fmt.Fprintln(w, elem); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}
	return nil
}

func listingSum(code []op.Instruction) string {
	buf := bytes.NewBuffer(nil)
	_ = Listing(buf, code) // Writing to a buffer can't fail.
	return md5sum(buf.Bytes())
}

// Known looks for a bundled warrior compiling to the same instructions.
// Returns an empty name when there is no match.
func Known(code []op.Instruction) (string, error) {
	search := listingSum(code)
	for _, name := range assets.Names() {
		src, err := assets.Warrior(name)
		if err != nil {
			return "", fmt.Errorf("failed to read known warrior: %w", err)
		}
		res := asm.Compile(name, src)
		if res.ErrorsOccurred() {
			continue
		}
		if listingSum(res.Instructions) == search {
			return name, nil
		}
	}
	return "", nil
}

// Cell is one disassembled core cell.
type Cell struct {
	Addr        int
	Instruction op.Instruction
	Owner       string // Last program that wrote the cell, empty if none.
	Access      vm.AccessType
}

func (c Cell) String() string {
	owner := c.Owner
	if owner == "" {
		owner = "-"
	}
	return fmt.Sprintf("%05d %-8s %s", c.Addr, owner, c.Instruction)
}

// Window disassembles the cells around center, radius cells on each side.
func Window(core *vm.Core, center, radius int) []Cell {
	radius = min(radius, (core.Size()-1)/2)
	out := make([]Cell, 0, 2*radius+1)
	for i := center - radius; i <= center+radius; i++ {
		addr := core.Normalize(i)
		entry := core.Peek(addr)
		c := Cell{Addr: addr, Instruction: entry.Value, Access: entry.AccessType}
		if entry.Program != nil {
			c.Owner = entry.Program.ID
		}
		out = append(out, c)
	}
	return out
}
