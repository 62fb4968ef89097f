// Package assets bundles sample warriors.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Classic warriors, trimmed to what the assembler supports (no labels nor directives).
//
//go:embed warriors/*.red
var warriors embed.FS

const ext = ".red"

// Names lists the bundled warriors, sorted.
func Names() []string {
	entries, err := fs.ReadDir(warriors, "warriors")
	if err != nil {
		// The directory is embedded, it can't be missing.
		panic(err)
	}
	out := make([]string, 0, len(entries))
	for _, elem := range entries {
		out = append(out, strings.TrimSuffix(elem.Name(), ext))
	}
	return out
}

// Warrior returns the source of a bundled warrior.
func Warrior(name string) (string, error) {
	buf, err := warriors.ReadFile(path.Join("warriors", name+ext))
	if err != nil {
		return "", fmt.Errorf("unknown warrior %q: %w", name, err)
	}
	return string(buf), nil
}
