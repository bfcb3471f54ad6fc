package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Dump writes cfg as a .gitmess file in dir. An existing file is never
// overwritten.
func Dump(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, ErrConfigExists
		}
		return path, err
	}
	if err := cfg.WriteText(f); err != nil {
		f.Close()
		return path, err
	}
	return path, f.Close()
}

// WriteText encodes cfg in the .gitmess line format. Settings are written in
// key order, followed by one AddType line per extra category.
func (c Config) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, kv := range c.settings() {
		fmt.Fprintf(&b, "%s %s\n", kv[0], kv[1])
	}
	for _, t := range c.Types {
		fmt.Fprintf(&b, "AddType %s %s\n", t.Code, t.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (c Config) settings() [][2]string {
	return [][2]string{
		{"BlankChar", string(c.BlankChar)},
		{"ConfirmCommit", yesNo(c.ConfirmCommit)},
		{"MaxLength", strconv.Itoa(c.MaxLength)},
		{"MultipleTypes", yesNo(c.MultipleTypes)},
		{"SpellCommand", c.SpellCommand},
		{"Spellcheck", yesNo(c.Spellcheck)},
		{"TypesStyle", string(c.TypesStyle)},
		{"UseDefaultMenu", yesNo(c.UseDefaultMenu)},
		{"WrapLength", strconv.Itoa(c.WrapLength)},
	}
}

// Markdown describes the effective settings and the type menu.
func (c Config) Markdown() string {
	var b strings.Builder
	b.WriteString("# git-mess configuration\n\n")
	b.WriteString("| Setting | Value |\n|---|---|\n")
	for _, kv := range c.settings() {
		fmt.Fprintf(&b, "| %s | `%s` |\n", kv[0], kv[1])
	}
	b.WriteString("\n## Commit types\n\n")
	b.WriteString("| Type | Description |\n|---|---|\n")
	for _, t := range c.Menu() {
		fmt.Fprintf(&b, "| %s | %s |\n", t.Code, strings.ReplaceAll(t.Description, "|", `\|`))
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
