package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/shork"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/disasm"
	"go.creack.net/shork/op"
	"go.creack.net/shork/translate"
	"go.creack.net/shork/vm"
)

var colors = []tcell.Color{}

func programColor(cw *vm.Corewar, pr *vm.Program) tcell.Color {
	if pr == nil {
		return tcell.ColorDimGray
	}
	return colors[slices.Index(cw.Programs, pr)%len(colors)]
}

// glyph is the short form of an instruction shown in the RAM table.
func glyph(ins op.Instruction) string {
	return strings.ToLower(ins.Opcode.String()[:2])
}

func NewGame(ctx context.Context, cw *vm.Corewar) *Game {
	app := tview.NewApplication().EnableMouse(true)

	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	ramView := tview.NewTable().SetBorders(false)

	logsView := newTextView("")
	logsView.SetTitle("Logs").SetBorder(true)
	logsView.ScrollToEnd()

	processListView := tview.NewTable().SetBorders(false)
	processListView.SetTitle("Processes").SetBorder(true)

	stateView := newTextView("Settings")
	stateView.SetTitle("Settings").SetBorder(true)

	playersListView := tview.NewList()
	playersListView.SetBorder(true)
	playersListView.SetTitle("Players")
	playersListView.SetSelectedFocusOnly(true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow)
	rightPane.
		AddItem(stateView, 0, 2, false).
		AddItem(playersListView, 0, 2, false).
		AddItem(logsView, 0, 3, false).
		AddItem(processListView, 0, 4, false)

	ramPane := tview.NewFlex()
	ramPane.SetBorder(true)
	ramPane.SetTitle("RAM")
	ramPane.AddItem(ramView, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(ramPane, 0, 3, true).
		AddItem(rightPane, 0, 1, false)

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)

	for _, pr := range cw.Programs {
		playersListView.AddItem("", "", 0, func() {
			pages.ShowPage("disasm-player-" + pr.ID)
		})
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Game{
		app: app,

		root: pages,

		mainPage:        flex,
		ramView:         ramView,
		processListView: processListView,
		stateView:       stateView,
		playerListView:  playersListView,
		logsView:        logsView,

		cw:     cw,
		ctx:    ctx,
		cancel: cancel,

		paused: true,
	}
}

// Game is the terminal UI. Everything but the ticker runs on the tview event goroutine.
type Game struct {
	app *tview.Application

	root *tview.Pages

	mainPage *tview.Flex

	ramView         *tview.Table
	processListView *tview.Table
	stateView       *tview.TextView
	playerListView  *tview.List
	logsView        *tview.TextView

	cw *vm.Corewar

	paused   bool
	nextStep bool

	ctx    context.Context
	cancel context.CancelFunc
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

func (g *Game) Init() {
	f := func(event *tcell.EventKey) *tcell.EventKey {
		curPage, _ := g.root.GetFrontPage()
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		case tcell.KeyEnter:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			return event
		}
		switch event.Rune() {
		case 'n':
			g.nextStep = true
			return nil
		case ' ':
			if curPage == "main" {
				g.paused = !g.paused
			} else {
				g.root.SwitchToPage("main")
			}
			return nil
		case 'q':
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		}
		return event
	}
	g.root.SetInputCapture(f)
}

// drainMessages moves the pending vm messages to the logs.
func (g *Game) drainMessages() {
	for {
		select {
		case msg := <-g.cw.Messages:
			g.logMessage(msg)
		default:
			return
		}
	}
}

func (g *Game) logMessage(msg vm.Message) {
	if msg.Type == vm.MsgPause {
		g.paused = true
		return
	}
	// NOTE: Seems like there is a bug with tview, we can't reset the color to default
	// with [:] or [:::], so we use tcell default.
	colorCode := "[" + tcell.ColorDefault.String() + ":::]"
	if msg.Process != nil {
		colorCode = "[" + programColor(g.cw, msg.Process.Program).String() + ":::]"
		fmt.Fprintf(g.logsView, "%s[%d] %s[:::]\n", colorCode, msg.Process.ID, tview.Escape(strings.TrimSuffix(msg.Message, "\n")))
		return
	}
	fmt.Fprintf(g.logsView, "%s%s: %s[:::]\n", colorCode, msg.Type, tview.Escape(strings.TrimSuffix(msg.Message, "\n")))
}

// Update runs a round unless paused. Returns io.EOF once the game is over.
func (g *Game) Update() error {
	forceNextStep := g.nextStep
	g.nextStep = false
	if !forceNextStep && g.paused {
		return nil
	}

	err := g.cw.Round()
	g.drainMessages()
	if err != nil {
		return fmt.Errorf("failed to execute round: %w", err)
	}
	return nil
}

func (g *Game) drawProcessList() {
	var processes []*vm.Process
	for _, pr := range g.cw.Programs {
		processes = append(processes, pr.Processes()...)
	}

	g.processListView.SetTitle(fmt.Sprintf("Processes (%d)", len(processes)))
	g.processListView.Clear()
	for i, elem := range []string{
		"pid",
		"player",
		"pc",
		"instruction",
	} {
		cell := tview.NewTableCell(elem).
			SetAttributes(tcell.AttrBold).
			SetAlign(tview.AlignCenter)

		g.processListView.SetCell(0, i, cell).SetFixed(1, i)
	}

	for i, elem := range processes {
		for j, content := range []any{
			elem.ID,
			elem.Program.ID,
			fmt.Sprintf("%05d", elem.PC),
			g.cw.Core.Peek(elem.PC).Value,
		} {
			cell := tview.NewTableCell(fmt.Sprint(content)).SetAlign(tview.AlignRight)
			cell.SetTextColor(programColor(g.cw, elem.Program))
			g.processListView.SetCell(i+1, j, cell)
		}
	}
}

func (g *Game) drawPlayerList() {
	for i, pr := range g.cw.Programs {
		deadCode := ""
		if !pr.Alive() {
			deadCode = "s"
		}
		attr := "[" + programColor(g.cw, pr).String() + "::" + deadCode + ":]"
		txt := attr + tview.Escape(translate.From(translate.KeyProcesses, pr.ID, len(pr.Processes()))) + "[:::]"
		if !pr.Alive() {
			txt = attr + tview.Escape(translate.From(translate.KeyEliminated, pr.ID)) + "[:::]"
		}
		g.playerListView.SetItemText(i, txt, "")
	}
}

func (g *Game) drawState() {
	sv := g.stateView
	sv.Clear()

	cfg := g.cw.Config
	fmt.Fprintln(sv, translate.From(translate.KeyTick, g.cw.Tick))
	fmt.Fprintln(sv, translate.From(translate.KeyState, g.cw.State))
	if g.cw.State == vm.StateFinished {
		if g.cw.Winner != nil {
			fmt.Fprintln(sv, tview.Escape(translate.From(translate.KeyWinner, g.cw.Winner.ID, g.cw.Tick)))
		} else {
			fmt.Fprintln(sv, translate.From(translate.KeyDraw, g.cw.Tick))
		}
	}
	fmt.Fprintf(sv, "Core Size: %d\n", cfg.CoreSize)
	fmt.Fprintf(sv, "Maximum Ticks: %d\n", cfg.MaximumTicks)
	fmt.Fprintf(sv, "Processes per Player: %d\n", cfg.MaximumProcessesPerPlayer)
	fmt.Fprintf(sv, "Read/Write Distance: %d/%d\n", cfg.ReadDistance, cfg.WriteDistance)
	fmt.Fprintf(sv, "Initial Instruction: %s\n", cfg.InitialInstruction)
}

func (g *Game) drawRAM() {
	const width = 64

	pcs := map[int]*vm.Process{}
	for _, pr := range g.cw.Programs {
		for _, p := range pr.Processes() {
			pcs[p.PC] = p
		}
	}

	initial := g.cw.Config.InitialInstruction
	ramView := g.ramView
	ramView.SetSelectable(true, true)
	for i := range g.cw.Core.Size() {
		elem := g.cw.Core.Peek(i)
		addr := i

		cell := tview.NewTableCell(glyph(elem.Value))
		switch {
		case elem.Program != nil:
			cell.SetTextColor(programColor(g.cw, elem.Program))
			switch elem.AccessType {
			case vm.AccessRead:
				cell.SetAttributes(tcell.AttrBold)
			case vm.AccessWrite:
				cell.SetAttributes(tcell.AttrItalic | tcell.AttrDim)
			}
		case elem.Value == initial:
			cell.SetText("..")
			cell.SetTextColor(tcell.ColorDimGray)
			cell.SetAttributes(tcell.AttrDim)
		}
		if p, ok := pcs[i]; ok {
			cell.SetAttributes(tcell.AttrReverse).SetTextColor(programColor(g.cw, p.Program))
		}
		cell.SetClickedFunc(func() bool {
			select {
			case g.cw.Messages <- vm.NewMessage(vm.MsgPause, nil, ""):
			default:
				g.paused = true
			}
			for _, c := range disasm.Window(g.cw.Core, addr, 2) {
				fmt.Fprintf(g.logsView, "%s\n", tview.Escape(c.String()))
			}
			return true
		})
		ramView.SetCell(i/width, i%width, cell)
	}
}

func (g *Game) Draw() {
	g.drawRAM()
	g.drawState()
	g.drawPlayerList()
	g.drawProcessList()
}

func main() {
	log.SetFlags(0)
	configPath := flag.String("config", "", "starlark settings file")
	speed := flag.Duration("speed", 100*time.Millisecond, "delay between two rounds")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [--] [-n name] <warrior.red|builtin:name>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	names := make([]string, 0, len(tcell.ColorNames))
	for name := range tcell.ColorNames {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if c := tcell.ColorNames[name]; c != tcell.ColorBlack && !strings.Contains(name, "dark") {
			colors = append(colors, c)
		}
	}

	settings, players, err := cli.ParseConfig(*configPath, flag.Args())
	if err != nil {
		log.Fatalf("Failed to parse CLI config: %s.", err)
	}

	// Room for the placement messages and a few rounds of events.
	messages := make(chan vm.Message, 4096)
	cw, err := shork.NewGame(settings, cli.Warriors(players), shork.WithMessages(messages))
	if err != nil {
		log.Fatalf("Failed to create the game: %s.", err)
	}

	g := NewGame(context.Background(), cw)

	for _, p := range players {
		listing := &strings.Builder{}
		if err := disasm.Listing(listing, p.Result.Instructions); err != nil {
			log.Fatalf("Failed to disassemble %q: %s.", p.Name, err)
		}
		pl := tview.NewTextView().SetText(p.Source)
		pl.SetTitle(p.PathName).SetBorder(true)
		pl2 := tview.NewTextView().SetText(listing.String())
		pl2.SetTitle(fmt.Sprintf("Player %s", p.Name)).SetBorder(true)

		flex := tview.NewFlex().AddItem(pl, 0, 1, false).
			AddItem(pl2, 0, 1, false)
		g.root.AddPage("disasm-player-"+p.Name, flex, true, false)
	}

	g.Init()
	g.drainMessages()
	g.Draw()
	go func() {
		ticker := time.NewTicker(*speed)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-g.ctx.Done():
				return
			}
			g.app.QueueUpdateDraw(func() {
				// Round keeps returning io.EOF once the game is over.
				if err := g.Update(); err != nil && !errors.Is(err, io.EOF) {
					fmt.Fprintf(g.logsView, "failed to update: %s\n", tview.Escape(err.Error()))
				}
				g.Draw()
			})
		}
	}()

	if err := g.app.SetRoot(g.root, true).SetFocus(g.root).Run(); err != nil {
		panic(err)
	}
	log.Printf("Done")
}
