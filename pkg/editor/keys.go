package editor

// Class is the closed set of input classes a keystroke can fall into.
type Class int

const (
	Other Class = iota
	Printable
	Backspace
	Enter
	EscapeStart
	// EscapeBody is a byte consumed in the middle of an escape sequence.
	EscapeBody
	Interrupt
	ArrowLeft
	ArrowRight
)

func (c Class) String() string {
	switch c {
	case Printable:
		return "printable"
	case Backspace:
		return "backspace"
	case Enter:
		return "enter"
	case EscapeStart:
		return "escape"
	case EscapeBody:
		return "escape-body"
	case Interrupt:
		return "interrupt"
	case ArrowLeft:
		return "left"
	case ArrowRight:
		return "right"
	default:
		return "other"
	}
}

const (
	keyInterrupt = 0x03
	keyCtrlH     = 0x08
	keyNewline   = '\n'
	keyReturn    = '\r'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
	// firstPrintable is the lowest code point inserted into the buffer.
	firstPrintable = 0x20

	finalLeft  = 'D'
	finalRight = 'C'

	// escapeLength counts the bytes following ESC in a cursor key sequence
	// (ESC [ D).
	escapeLength = 2
)

// Classify returns the class of r given the number of escape-sequence bytes
// still expected before r was read.
func Classify(r rune, pending int) Class {
	switch {
	case pending > 1:
		return EscapeBody
	case pending == 1:
		switch r {
		case finalLeft:
			return ArrowLeft
		case finalRight:
			return ArrowRight
		}
		return Other
	}
	switch r {
	case keyDelete, keyCtrlH:
		return Backspace
	case keyReturn, keyNewline:
		return Enter
	case keyEscape:
		return EscapeStart
	case keyInterrupt:
		return Interrupt
	}
	if r >= firstPrintable {
		return Printable
	}
	return Other
}
