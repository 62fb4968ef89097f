package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go.creack.net/shork"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/translate"
	"go.creack.net/shork/vm"
)

var (
	fontFace  = text.NewGoXFace(bitmapfont.Face)
	panelFace = text.NewGoXFace(basicfont.Face7x13)
)

const initialScreenWidth, initialScreenHeight = 1024, 768

const (
	panelWidth  = 256
	gridColumns = 128
	maxLogLines = 12
)

var (
	backgroundColor = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}
	emptyColor      = color.RGBA{R: 0x28, G: 0x28, B: 0x30, A: 0xff}
	panelColor      = color.NRGBA{R: 0x1c, G: 0x1c, B: 0x28, A: 0xff}
	textColor       = color.White

	playerColors = []color.RGBA{
		{R: 0x4f, G: 0x8f, B: 0xff, A: 0xff},
		{R: 0x7f, G: 0xdf, B: 0x6f, A: 0xff},
		{R: 0xff, G: 0x5f, B: 0x5f, A: 0xff},
		{R: 0xbf, G: 0x7f, B: 0xff, A: 0xff},
		{R: 0xff, G: 0xbf, B: 0x4f, A: 0xff},
		{R: 0x4f, G: 0xdf, B: 0xdf, A: 0xff},
	}
)

func programColor(cw *vm.Corewar, pr *vm.Program) color.RGBA {
	return playerColors[slices.Index(cw.Programs, pr)%len(playerColors)]
}

// dim darkens a color for cells that are only owned, not touched this round.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// Game implements ebiten.Game interface.
type Game struct {
	cw     *vm.Corewar
	speed  int // Rounds per frame.
	paused bool

	ui        *ebitenui.UI
	tickText  *widget.Text
	stateText *widget.Text
	players   []*widget.Text
	logText   *widget.Text
	logs      []string
}

func NewGame(cw *vm.Corewar, speed int) *Game {
	g := &Game{cw: cw, speed: speed, paused: true}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(10)),
			widget.RowLayoutOpts.Spacing(6),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(panelWidth, initialScreenHeight),
		),
	)
	root.AddChild(panel)

	newText := func(label string, clr color.Color) *widget.Text {
		t := widget.NewText(widget.TextOpts.Text(label, panelFace, clr))
		panel.AddChild(t)
		return t
	}
	g.tickText = newText("", textColor)
	g.stateText = newText("", textColor)
	for _, pr := range cw.Programs {
		g.players = append(g.players, newText(pr.ID, programColor(cw, pr)))
	}
	newText("space: pause, n: step, q: quit", emptyColor)
	g.logText = newText("", textColor)

	g.ui = &ebitenui.UI{Container: root}
	g.drainMessages()
	g.updatePanel()
	return g
}

func (g *Game) drainMessages() {
	for {
		select {
		case msg := <-g.cw.Messages:
			if msg.Type == vm.MsgSpawn {
				// Too chatty for the panel.
				continue
			}
			g.logs = append(g.logs, msg.Message)
			if len(g.logs) > maxLogLines {
				g.logs = g.logs[len(g.logs)-maxLogLines:]
			}
		default:
			return
		}
	}
}

func (g *Game) updatePanel() {
	g.tickText.Label = translate.From(translate.KeyTick, g.cw.Tick)
	switch {
	case g.cw.State != vm.StateFinished:
		g.stateText.Label = translate.From(translate.KeyState, g.cw.State)
	case g.cw.Winner != nil:
		g.stateText.Label = translate.From(translate.KeyWinner, g.cw.Winner.ID, g.cw.Tick)
	default:
		g.stateText.Label = translate.From(translate.KeyDraw, g.cw.Tick)
	}
	for i, pr := range g.cw.Programs {
		if pr.Alive() {
			g.players[i].Label = translate.From(translate.KeyProcesses, pr.ID, len(pr.Processes()))
		} else {
			g.players[i].Label = translate.From(translate.KeyEliminated, pr.ID)
		}
	}
	g.logText.Label = strings.Join(g.logs, "\n")
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	}

	rounds := g.speed
	if g.paused {
		rounds = 0
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			rounds = 1
		}
	}
	for range rounds {
		if err := g.cw.Round(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to execute round: %w", err)
		}
	}
	g.drainMessages()
	g.updatePanel()
	g.ui.Update()
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	pcs := map[int]*vm.Process{}
	for _, pr := range g.cw.Programs {
		for _, p := range pr.Processes() {
			pcs[p.PC] = p
		}
	}

	cell := float32(initialScreenWidth-panelWidth) / gridColumns
	for i := range g.cw.Core.Size() {
		entry := g.cw.Core.Peek(i)
		x, y := float32(i%gridColumns)*cell, float32(i/gridColumns)*cell

		clr := emptyColor
		if entry.Program != nil {
			clr = dim(programColor(g.cw, entry.Program))
			if entry.AccessType != vm.AccessNone {
				clr = programColor(g.cw, entry.Program)
			}
		}
		if p, ok := pcs[i]; ok {
			clr = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			vector.DrawFilledRect(screen, x, y, cell, cell, programColor(g.cw, p.Program), false)
			vector.DrawFilledRect(screen, x+1, y+1, cell-2, cell-2, clr, false)
			continue
		}
		vector.DrawFilledRect(screen, x, y, cell-1, cell-1, clr, false)
	}

	// Legend under the grid.
	rows := (g.cw.Core.Size() + gridColumns - 1) / gridColumns
	textOp := &text.DrawOptions{}
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.GeoM.Translate(4, float64(float32(rows)*cell)+8)
	for _, pr := range g.cw.Programs {
		op := *textOp
		op.ColorScale.ScaleWithColor(programColor(g.cw, pr))
		text.Draw(screen, "■ "+pr.ID, fontFace, &op)
		textOp.GeoM.Translate(0, textOp.LineSpacing)
	}

	g.ui.Draw(screen)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
// If you don't have to adjust the screen size with the outside size, just return a fixed size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	log.SetFlags(0)
	configPath := flag.String("config", "", "starlark settings file")
	speed := flag.Int("speed", 1, "rounds per frame")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [--] [-n name] <warrior.red|builtin:name>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("Shork")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	settings, players, err := cli.ParseConfig(*configPath, flag.Args())
	if err != nil {
		log.Fatalf("Failed to parse cli config: %s.", err)
	}

	// Room for the placement messages and a few frames of events.
	messages := make(chan vm.Message, 4096)
	cw, err := shork.NewGame(settings, cli.Warriors(players), shork.WithMessages(messages))
	if err != nil {
		log.Fatalf("Failed to create the game: %s.", err)
	}

	// Call ebiten.RunGame to start your game loop.
	if err := ebiten.RunGameWithOptions(NewGame(cw, max(*speed, 1)), &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
