package session

import "strings"

// Keyboard key grid. The last row holds the action keys; every other
// entry is the literal character it appends.
var keyboardRows = [][]string{
	splitKeys("ABCDEFGHIJ"),
	splitKeys("KLMNOPQRST"),
	splitKeys("UVWXYZ0123"),
	splitKeys("456789-_.<"),
	{KeySpace, KeyEnter, KeyBack},
}

// Action keys on the bottom row.
const (
	KeySpace = "SPACE"
	KeyEnter = "ENTER"
	KeyBack  = "BACK"
)

func splitKeys(s string) []string {
	keys := make([]string, 0, len(s))
	for _, r := range s {
		keys = append(keys, string(r))
	}
	return keys
}

// Keyboard is the on-screen query keyboard. The cursor clamps at the
// grid edges instead of wrapping, and moving between rows of different
// widths pulls the column back in range.
type Keyboard struct {
	row, col int
	text     []rune
}

// NewKeyboard creates a keyboard with empty input and the cursor on the
// top-left key.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Reset clears the input and returns the cursor to the top-left key.
func (k *Keyboard) Reset() {
	k.row, k.col = 0, 0
	k.text = k.text[:0]
}

// Move shifts the cursor one key in the given direction. Commands other
// than the four directions are ignored.
func (k *Keyboard) Move(cmd Command) {
	switch cmd {
	case CmdUp:
		if k.row > 0 {
			k.row--
		}
	case CmdDown:
		if k.row < len(keyboardRows)-1 {
			k.row++
		}
	case CmdLeft:
		if k.col > 0 {
			k.col--
		}
	case CmdRight:
		if k.col < len(keyboardRows[k.row])-1 {
			k.col++
		}
	}
	if last := len(keyboardRows[k.row]) - 1; k.col > last {
		k.col = last
	}
}

// Press activates the key under the cursor. For ENTER it returns the
// trimmed input and true; every other key edits the input and returns
// false.
func (k *Keyboard) Press() (string, bool) {
	switch key := keyboardRows[k.row][k.col]; key {
	case KeyEnter:
		return strings.TrimSpace(string(k.text)), true
	case KeyBack:
		if len(k.text) > 0 {
			k.text = k.text[:len(k.text)-1]
		}
	case KeySpace:
		k.text = append(k.text, ' ')
	default:
		k.text = append(k.text, []rune(key)...)
	}
	return "", false
}

// Text returns the input typed so far.
func (k *Keyboard) Text() string {
	return string(k.text)
}

// Cursor returns the cursor position as row, column.
func (k *Keyboard) Cursor() (int, int) {
	return k.row, k.col
}

// Rows returns the key grid for rendering. Callers must not mutate it.
func (k *Keyboard) Rows() [][]string {
	return keyboardRows
}
