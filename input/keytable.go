package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Gameplay bindings
const (
	KeyForward   Key = 'w'
	KeyBack      Key = 's'
	KeyPort      Key = 'a'
	KeyStarboard Key = 'd'
	KeyFire      Key = 'f'
	KeyFireAlt   Key = ' '
	KeyPause     Key = 'p'
)

// Host bindings, handled by the terminal front end and never seen by the scene
const (
	KeyMute   Key = 'm'
	KeyLabels Key = 'l'
)

var specialKeys = map[tcell.Key]Key{
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyEscape: KeyEscape,
	tcell.KeyEnter:  KeyEnter,
	tcell.KeyCtrlC:  KeyQuit,
	tcell.KeyCtrlQ:  KeyQuit,
}

// FromTcell maps a tcell key event onto a Key
func FromTcell(ev *tcell.EventKey) (Key, bool) {
	if ev.Key() == tcell.KeyRune {
		return Key(unicode.ToLower(ev.Rune())), true
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}
