package editor

import "strings"

// Unbounded marks a free-length field: no padding, no capacity limit.
const Unbounded = 0

// Field describes one prompt.
type Field struct {
	Label string
	// MaxLength caps len(prompt)+len(content). Unbounded disables the cap.
	MaxLength int
	// Fill pads unused capacity on bounded fields. Zero means no padding.
	Fill rune
	// Seed pre-fills the buffer when a value is edited again.
	Seed string
}

// Prompt is the non-editable prefix shown before the content.
func (f Field) Prompt() string {
	if f.Label == "" {
		return ""
	}
	return f.Label + ": "
}

func (f Field) bounded() bool {
	return f.MaxLength != Unbounded
}

// Session is the editable state of one field. The cursor is an offset into
// the full line, prompt included, and always lies in
// [len(prompt), len(prompt)+len(buffer)].
type Session struct {
	field   Field
	prompt  string
	start   int
	buffer  []rune
	cursor  int
	pending int
}

func NewSession(f Field) *Session {
	prompt := f.Prompt()
	start := len([]rune(prompt))
	seed := []rune(f.Seed)
	if f.bounded() {
		room := max(f.MaxLength-start, 0)
		if len(seed) > room {
			seed = seed[:room]
		}
	}
	return &Session{
		field:  f,
		prompt: prompt,
		start:  start,
		buffer: seed,
		cursor: start + len(seed),
	}
}

// Feed classifies r against the escape sub-state, applies the transition
// and reports whether the buffer or cursor changed.
func (s *Session) Feed(r rune) (Class, bool) {
	pending := s.pending
	if s.pending > 0 {
		s.pending--
	}
	class := Classify(r, pending)
	return class, s.apply(class, r)
}

func (s *Session) apply(class Class, r rune) bool {
	switch class {
	case ArrowLeft:
		if s.cursor > s.start {
			s.cursor--
			return true
		}
	case ArrowRight:
		if s.cursor < s.start+len(s.buffer) {
			s.cursor++
			return true
		}
	case Backspace:
		k := s.cursor - s.start
		if k > 0 {
			s.buffer = append(s.buffer[:k-1], s.buffer[k:]...)
			s.cursor--
			return true
		}
	case EscapeStart:
		s.pending = escapeLength
	case Printable:
		if s.Full() {
			return false
		}
		k := s.cursor - s.start
		s.buffer = append(s.buffer[:k], append([]rune{r}, s.buffer[k:]...)...)
		s.cursor++
		return true
	}
	return false
}

// Full reports whether a bounded field has reached its capacity.
func (s *Session) Full() bool {
	return s.field.bounded() && s.start+len(s.buffer) >= s.field.MaxLength
}

// Line is prompt + content + padding, the text painted on screen.
func (s *Session) Line() string {
	var b strings.Builder
	b.WriteString(s.prompt)
	b.WriteString(string(s.buffer))
	if s.field.bounded() && s.field.Fill != 0 {
		if pad := s.field.MaxLength - s.start - len(s.buffer); pad > 0 {
			b.WriteString(strings.Repeat(string(s.field.Fill), pad))
		}
	}
	return b.String()
}

func (s *Session) Prompt() string  { return s.prompt }
func (s *Session) Content() string { return string(s.buffer) }
func (s *Session) Cursor() int     { return s.cursor }
