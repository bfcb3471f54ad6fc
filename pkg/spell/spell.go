// Package spell checks field text with an external checker speaking the
// ispell pipe protocol (aspell -a, hunspell -a, ispell -a) and applies the
// corrections the user picks.
package spell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("spellchecker not available")

// Miss is one misspelled word. Offset is a byte offset into the checked text.
type Miss struct {
	Word        string
	Offset      int
	Suggestions []string
}

type Checker struct {
	args []string
	log  *zap.Logger
}

// NewChecker resolves command (executable plus optional arguments) on PATH.
func NewChecker(command string, log *zap.Logger) (*Checker, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUnavailable)
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, args[0])
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{args: args, log: log}, nil
}

// Check returns the misspellings of text in order of appearance.
func (c *Checker) Check(ctx context.Context, text string) ([]Miss, error) {
	line := strings.ReplaceAll(text, "\n", " ")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	args := append(append([]string{}, c.args[1:]...), "-a")
	cmd := exec.CommandContext(ctx, c.args[0], args...)
	// A leading ^ keeps the checker from reading the line as a command.
	cmd.Stdin = strings.NewReader("^" + line + "\n")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s -a: %w: %s", c.args[0], err, strings.TrimSpace(stderr.String()))
	}
	misses, err := ParsePipe(bytes.NewReader(out), line)
	if err != nil {
		return nil, err
	}
	c.log.Debug("spellcheck", zap.Int("misses", len(misses)))
	return misses, nil
}

// ParsePipe reads ispell -a output for a single checked line. Offsets
// reported by the checker are used as a hint to locate each word in line.
func ParsePipe(r io.Reader, line string) ([]Miss, error) {
	var (
		misses []Miss
		from   int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		var (
			word    string
			hint    int
			suggest []string
			err     error
		)
		switch text[0] {
		case '&', '?':
			// & word count offset: s1, s2, ...
			head, tail, _ := strings.Cut(strings.TrimSpace(text[1:]), ": ")
			fields := strings.Fields(head)
			if len(fields) != 3 {
				return nil, fmt.Errorf("malformed checker line %q", text)
			}
			word = fields[0]
			if hint, err = strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("malformed checker line %q: %w", text, err)
			}
			for _, s := range strings.Split(tail, ",") {
				if s = strings.TrimSpace(s); s != "" {
					suggest = append(suggest, s)
				}
			}
		case '#':
			// # word offset
			fields := strings.Fields(text[1:])
			if len(fields) != 2 {
				return nil, fmt.Errorf("malformed checker line %q", text)
			}
			word = fields[0]
			if hint, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("malformed checker line %q: %w", text, err)
			}
		default:
			continue
		}
		offset := locate(line, word, hint, from)
		if offset < 0 {
			continue
		}
		from = offset + len(word)
		misses = append(misses, Miss{Word: word, Offset: offset, Suggestions: suggest})
	}
	return misses, scanner.Err()
}

// locate finds word in line at or after from, trying the checker's offset
// (which may or may not count the leading ^) first.
func locate(line, word string, hint, from int) int {
	for _, at := range []int{hint - 1, hint} {
		if at >= from && at+len(word) <= len(line) && line[at:at+len(word)] == word {
			return at
		}
	}
	if from > len(line) {
		return -1
	}
	if i := strings.Index(line[from:], word); i >= 0 {
		return from + i
	}
	return -1
}
