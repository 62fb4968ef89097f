// Package cli provides the functions to parse the non-standard CLI flags.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go.creack.net/shork"
	"go.creack.net/shork/asm"
	"go.creack.net/shork/assets"
	"go.creack.net/shork/disasm"
)

// BuiltinPrefix selects a bundled warrior instead of a file.
const BuiltinPrefix = "builtin:"

const ext = ".red"

type Player struct {
	PathName string
	Name     string
	Source   string

	Result *asm.Result
	Known  string // Name of the bundled warrior with the same code, if any.
}

// parse reads warriors from the arguments: each is a .red path or builtin:<name>,
// optionally preceded by -n <name>.
func parse(args []string) ([]*Player, error) {
	// Define a variable to hold the -n value temporarily
	var name string

	var players []*Player

	// Process arguments manually
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "-n" {
			if i+1 >= len(args) {
				return nil, errors.New("missing value for -n flag")
			}
			name = args[i+1]
			i++ // Skip the value of -n
			continue
		} else if strings.HasPrefix(arg, "-n=") {
			name = strings.TrimPrefix(arg, "-n=")
			continue
		}

		// If it's not a flag, it's a warrior.
		if arg != "" && arg[0] != '-' {
			players = append(players, &Player{PathName: arg, Name: name})
			name = "" // Reset for the next player
		}
	}
	if name != "" {
		return nil, errors.Errorf("-n %q is not followed by a warrior", name)
	}
	if len(players) == 0 {
		return nil, errors.New("no players provided")
	}

	seen := map[string]string{}
	for _, p := range players {
		if !strings.HasPrefix(p.PathName, BuiltinPrefix) && !strings.HasSuffix(p.PathName, ext) {
			return nil, errors.Errorf("invalid file extension for %q, must be %s", p.PathName, ext)
		}
		if p.Name == "" {
			p.Name = shortName(p.PathName)
		}
		if other, ok := seen[p.Name]; ok {
			return nil, errors.Errorf("duplicate player name %q, used for %q and %q", p.Name, p.PathName, other)
		}
		seen[p.Name] = p.PathName
	}
	return players, nil
}

func shortName(pathName string) string {
	if name, ok := strings.CutPrefix(pathName, BuiltinPrefix); ok {
		return name
	}
	return strings.TrimSuffix(filepath.Base(pathName), ext)
}

// ReadSource returns the source of a .red file or of a builtin:<name> warrior.
func ReadSource(pathName string) (string, error) {
	if name, ok := strings.CutPrefix(pathName, BuiltinPrefix); ok {
		src, err := assets.Warrior(name)
		if err != nil {
			return "", errors.Wrapf(err, "available builtins: %s", strings.Join(assets.Names(), ", "))
		}
		return src, nil
	}
	data, err := os.ReadFile(pathName)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file %q", pathName)
	}
	return string(data), nil
}

func loadPlayers(players []*Player) error {
	for _, p := range players {
		src, err := ReadSource(p.PathName)
		if err != nil {
			return err
		}
		p.Source = src
		p.Result = asm.Compile(p.PathName, src)

		known, err := disasm.Known(p.Result.Instructions)
		if err != nil {
			return errors.Wrapf(err, "failed to look up %q", p.PathName)
		}
		p.Known = known
	}
	return nil
}

// Warriors returns the players in command line order.
func Warriors(players []*Player) []shork.Warrior {
	out := make([]shork.Warrior, 0, len(players))
	for _, p := range players {
		out = append(out, shork.Warrior{Player: p.Name, Source: p.Source})
	}
	return out
}

// ParseConfig loads the settings script, when set, and the warriors listed in args.
func ParseConfig(configPath string, args []string) (shork.Settings, []*Player, error) {
	settings := shork.DefaultSettings()
	if configPath != "" {
		s, err := LoadSettings(configPath, settings)
		if err != nil {
			return shork.Settings{}, nil, errors.Wrap(err, "config")
		}
		settings = s
	}

	players, err := parse(args)
	if err != nil {
		return shork.Settings{}, nil, errors.Wrap(err, "parse")
	}
	if err := loadPlayers(players); err != nil {
		return shork.Settings{}, nil, errors.Wrap(err, "load players")
	}
	return settings, players, nil
}
