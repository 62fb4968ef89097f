// Package translate prints human facing messages in the user's language.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys, in en-US Sprintf format.
const (
	KeyWinner      = "Player %q wins after %d ticks."
	KeyDraw        = "Draw after %d ticks."
	KeyRounds      = "%d rounds recorded."
	KeyPlayers     = "%d players."
	KeyTick        = "Tick %d"
	KeyState       = "State: %s"
	KeyProcesses   = "%s: %d processes"
	KeyEliminated  = "%s: eliminated"
	KeyDiagnostics = "%d errors."
	KeyClean       = "No error."
)

var catalog = map[language.Tag]map[string]string{
	language.French: {
		KeyWinner:      "Le joueur %q gagne après %d cycles.",
		KeyDraw:        "Match nul après %d cycles.",
		KeyRounds:      "%d tours enregistrés.",
		KeyPlayers:     "%d joueurs.",
		KeyTick:        "Cycle %d",
		KeyState:       "État : %s",
		KeyProcesses:   "%s : %d processus",
		KeyEliminated:  "%s : éliminé",
		KeyDiagnostics: "%d erreurs.",
		KeyClean:       "Aucune erreur.",
	},
	language.German: {
		KeyWinner:      "Spieler %q gewinnt nach %d Takten.",
		KeyDraw:        "Unentschieden nach %d Takten.",
		KeyRounds:      "%d Runden aufgezeichnet.",
		KeyPlayers:     "%d Spieler.",
		KeyTick:        "Takt %d",
		KeyState:       "Zustand: %s",
		KeyProcesses:   "%s: %d Prozesse",
		KeyEliminated:  "%s: ausgeschieden",
		KeyDiagnostics: "%d Fehler.",
		KeyClean:       "Kein Fehler.",
	},
}

var printer *message.Printer

func init() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				log.Printf("shork: translate: %v", err)
			}
		}
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("shork: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage overrides the language detected from the environment.
func SetLanguage(tag language.Tag) {
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
