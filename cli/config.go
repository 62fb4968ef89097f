package cli

import (
	"os"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"go.creack.net/shork"
)

// setting binds a global of the settings script to a field.
type setting struct {
	get func(s *shork.Settings) starlark.Value
	set func(s *shork.Settings, v starlark.Value) error
}

func intSetting(field func(s *shork.Settings) *int) setting {
	return setting{
		get: func(s *shork.Settings) starlark.Value { return starlark.MakeInt(*field(s)) },
		set: func(s *shork.Settings, v starlark.Value) error {
			i, ok := v.(starlark.Int)
			if !ok {
				return errors.Errorf("expected int, got %s", v.Type())
			}
			i64, ok := i.Int64()
			if !ok {
				return errors.Errorf("%s out of range", i)
			}
			*field(s) = int(i64)
			return nil
		},
	}
}

var settings = map[string]setting{
	"core_size":         intSetting(func(s *shork.Settings) *int { return &s.CoreSize }),
	"instruction_limit": intSetting(func(s *shork.Settings) *int { return &s.InstructionLimit }),
	"max_ticks":         intSetting(func(s *shork.Settings) *int { return &s.MaximumTicks }),
	"max_processes":     intSetting(func(s *shork.Settings) *int { return &s.MaximumProcessesPerPlayer }),
	"read_distance":     intSetting(func(s *shork.Settings) *int { return &s.ReadDistance }),
	"write_distance":    intSetting(func(s *shork.Settings) *int { return &s.WriteDistance }),
	"min_separation":    intSetting(func(s *shork.Settings) *int { return &s.MinimumSeparation }),
	"separation":        intSetting(func(s *shork.Settings) *int { return &s.Separation }),
	"initial_instruction": {
		get: func(s *shork.Settings) starlark.Value { return starlark.String(s.InitialInstruction) },
		set: func(s *shork.Settings, v starlark.Value) error {
			str, ok := starlark.AsString(v)
			if !ok {
				return errors.Errorf("expected string, got %s", v.Type())
			}
			s.InitialInstruction = str
			return nil
		},
	},
	"random_separation": {
		get: func(s *shork.Settings) starlark.Value { return starlark.Bool(s.RandomSeparation) },
		set: func(s *shork.Settings, v starlark.Value) error {
			b, ok := v.(starlark.Bool)
			if !ok {
				return errors.Errorf("expected bool, got %s", v.Type())
			}
			s.RandomSeparation = bool(b)
			return nil
		},
	},
	"seed": {
		get: func(s *shork.Settings) starlark.Value { return starlark.MakeUint64(s.Seed) },
		set: func(s *shork.Settings, v starlark.Value) error {
			i, ok := v.(starlark.Int)
			if !ok {
				return errors.Errorf("expected int, got %s", v.Type())
			}
			u, ok := i.Uint64()
			if !ok {
				return errors.Errorf("%s out of range", i)
			}
			s.Seed = u
			return nil
		},
	},
}

// EvalSettings runs a Starlark settings script on top of base.
// Top level assignments named after a setting override it, a `defaults` dict holds the base values.
// Functions and names starting with an underscore are free for the script's own use.
func EvalSettings(name string, src []byte, base shork.Settings) (shork.Settings, error) {
	defaults := starlark.NewDict(len(settings))
	for key, elem := range settings {
		if err := defaults.SetKey(starlark.String(key), elem.get(&base)); err != nil {
			return shork.Settings{}, errors.Wrap(err, "defaults")
		}
	}
	defaults.Freeze()

	thread := starlark.Thread{Name: name}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{"defaults": defaults}
	globals, err := starlark.ExecFileOptions(&opts, &thread, name, src, pred)
	if err != nil {
		return shork.Settings{}, errors.Wrapf(err, "failed to evaluate %q", name)
	}

	out := base
	for _, key := range globals.Keys() {
		v := globals[key]
		if _, ok := v.(starlark.Callable); ok || key[0] == '_' {
			continue
		}
		elem, ok := settings[key]
		if !ok {
			return shork.Settings{}, errors.Errorf("%s: unknown setting %q", name, key)
		}
		if err := elem.set(&out, v); err != nil {
			return shork.Settings{}, errors.Wrapf(err, "%s: %s", name, key)
		}
	}
	return out, nil
}

// LoadSettings evaluates the settings script at path.
func LoadSettings(path string, base shork.Settings) (shork.Settings, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return shork.Settings{}, errors.Wrapf(err, "failed to read settings %q", path)
	}
	return EvalSettings(path, src, base)
}
