package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/shork"
	"go.creack.net/shork/cli"
	"go.creack.net/shork/translate"
	"go.creack.net/shork/vm"
)

// dump prints the cells differing from the initial instruction, runs of untouched cells collapse into '*'.
// Cells holding a program counter are highlighted.
func dump(w io.Writer, cw *vm.Corewar) {
	pcs := map[int]bool{}
	for _, pr := range cw.Programs {
		for _, p := range pr.Processes() {
			pcs[p.PC] = true
		}
	}
	initial := cw.Config.InitialInstruction
	for i := 0; i < cw.Core.Size(); {
		if entry := cw.Core.Peek(i); entry.Value == initial && !pcs[i] {
			fmt.Fprintf(w, "*\n")
			for ; i < cw.Core.Size() && cw.Core.Peek(i).Value == initial && !pcs[i]; i++ {
			}
			continue
		}
		entry := cw.Core.Peek(i)
		owner := "-"
		if entry.Program != nil {
			owner = entry.Program.ID
		}
		if pcs[i] {
			fmt.Fprintf(w, "\033[7m%05d %-10s %s\033[27m\n", i, owner, entry.Value)
		} else {
			fmt.Fprintf(w, "%05d %-10s %s\n", i, owner, entry.Value)
		}
		i++
	}
}

func run(configPath string, args []string, jsonOut, dumpCore bool, logger *log.Logger) error {
	settings, players, err := cli.ParseConfig(configPath, args)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p.Known != "" && p.Known != p.Name {
			logger.Printf("%s is the bundled %q warrior.", p.Name, p.Known)
		}
	}

	cw, err := shork.NewGame(settings, cli.Warriors(players), shork.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	if err := cw.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if dumpCore {
		dump(os.Stdout, cw)
	}

	res := shork.ResultOf(cw)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	}
	summary(os.Stdout, len(cw.Programs), res)
	return nil
}

// summary prints the outcome of a game in the user's language.
func summary(w io.Writer, players int, res *shork.GameResult) {
	fmt.Fprintln(w, translate.From(translate.KeyPlayers, players))
	if res.Outcome.Kind == shork.Win {
		fmt.Fprintln(w, translate.From(translate.KeyWinner, res.Outcome.Winner, res.Ticks))
	} else {
		fmt.Fprintln(w, translate.From(translate.KeyDraw, res.Ticks))
	}
	fmt.Fprintln(w, translate.From(translate.KeyRounds, len(res.Rounds)))
}

func main() {
	log.SetFlags(0)
	configPath := flag.String("config", "", "starlark settings file")
	jsonOut := flag.Bool("json", false, "print the result and the round log as json")
	dumpCore := flag.Bool("dump", false, "dump the core once the game is over")
	verbose := flag.Bool("v", false, "log the game events")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [--] [-n name] <warrior.red|builtin:name>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", 0)
	}
	if err := run(*configPath, flag.Args(), *jsonOut, *dumpCore, logger); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
