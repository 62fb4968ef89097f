package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rivo/tview"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/asm/parser"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/op"
	"go.creack.net/shork/translate"
)

// bannedColors that are not legible.
var bannedColors = []int{
	0,
	16,
	17,
	18,
	19,
	20,
	21,
	52,
	53,
	54,
	55,
	232,
	233,
	234,
	235,
	236,
	237,
	238,
	239,
}

var curColor = 0

func nextColor() int {
	curColor++
	curColor %= 256
	for slices.Contains(bannedColors, curColor) {
		curColor++
		curColor %= 256
	}
	return curColor
}

func colorCodeModif(color int, mods ...int) string {
	modsStr := make([]string, 0, len(mods))
	for _, elem := range mods {
		modsStr = append(modsStr, fmt.Sprintf("%d", elem))
	}
	ansiMod := strings.Join(modsStr, ";")
	if ansiMod != "" {
		ansiMod += ";"
	}
	return fmt.Sprintf("\033[%s38;5;%dm", ansiMod, color)
}

func colorCodef(color int) string {
	return colorCodeModif(color)
}

// dump renders the listing, one color per opcode class, with the opcode description.
func dump(code []op.Instruction) string {
	out := &strings.Builder{}

	colors := map[op.Class]int{}
	for _, elem := range []op.Class{
		op.ClassData,
		op.ClassJump,
		op.ClassCompare,
		op.ClassMove,
		op.ClassArithmetic,
	} {
		colors[elem] = nextColor()
	}

	for i, elem := range code {
		info := elem.Opcode.Info()
		fmt.Fprintf(out, "%04d %s%-20s\033[0m %s; %s\033[0m\n", i, colorCodef(colors[info.Class]), elem, colorCodeModif(colors[info.Class], 2), info.Comment)
	}
	return out.String()
}

// annotate marks the source lines holding an error.
func annotate(src string, errs []parser.CompileError) string {
	out := &strings.Builder{}
	for i, line := range strings.Split(src, "\n") {
		bad := slices.ContainsFunc(errs, func(e parser.CompileError) bool { return e.Line == i+1 })
		if bad {
			fmt.Fprintf(out, "%s%4d %s\033[0m\n", colorCodeModif(196, 1), i+1, line)
			continue
		}
		fmt.Fprintf(out, "%4d %s\n", i+1, line)
	}
	return out.String()
}

func run(input string) error {
	src, err := cli.ReadSource(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	res := asm.Compile(input, src)
	render(src, res)
	return nil
}

func render(input string, res *asm.Result) {
	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	errs := res.Errors()

	rightContent := newTextView("")
	_, _ = tview.ANSIWriter(rightContent).Write([]byte(dump(res.Instructions)))

	leftContent := newTextView("")
	_, _ = tview.ANSIWriter(leftContent).Write([]byte(annotate(input, errs)))

	diags := &strings.Builder{}
	if len(errs) == 0 {
		fmt.Fprintln(diags, translate.From(translate.KeyClean))
	} else {
		fmt.Fprintln(diags, translate.From(translate.KeyDiagnostics, len(errs)))
	}
	for _, elem := range errs {
		fmt.Fprintf(diags, "%s:%s\n", res.Name, elem)
	}
	bottomContent := newTextView(tview.Escape(diags.String()))

	right := tview.NewFlex()
	right.SetBorder(true).SetTitle("Listing")
	right.AddItem(rightContent, 0, 1, false)

	left := tview.NewFlex()
	left.SetBorder(true)
	left.SetTitle(res.Name)
	left.AddItem(leftContent, 0, 1, false)

	bottom := tview.NewFlex()
	bottom.SetBorder(true).SetTitle("Diagnostics")
	bottom.AddItem(bottomContent, 0, 1, false)

	top := tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 1, false)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(bottom, 0, 1, false)

	app := tview.NewApplication().SetRoot(flex, true).SetFocus(flex).EnableMouse(true)
	if err := app.Run(); err != nil {
		panic(err)
	}
}

func main() {
	log.SetFlags(0)
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		fmt.Fprintf(os.Stderr, "usage: %s <.red path|builtin:name>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(input); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
