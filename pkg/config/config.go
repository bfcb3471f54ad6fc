// Package config reads the repository-local composer settings.
//
// Settings live at the top level of the working tree, either in a .gitmess
// file of "Key value" lines or in .gitmess.yaml. The .gitmess file wins when
// both exist. Missing files yield the defaults.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName     = ".gitmess"
	YAMLFileName = ".gitmess.yaml"
)

var ErrConfigExists = errors.New("configuration file already exists")

type TypesStyle string

const (
	StyleComma    TypesStyle = "comma"
	StyleBrackets TypesStyle = "brackets"
)

// Category is one entry of the commit type menu.
type Category struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

var defaultCategories = []Category{
	{"feat", "New feature"},
	{"fix", "Bug fix"},
	{"chore", "Build process or auxiliary tool change"},
	{"docs", "Documentary only changes"},
	{"refactor", "Code that neither changes or add a feature"},
	{"style", "Markup, white-space, formatting..."},
	{"perf", "Code change that improves performance"},
	{"test", "Adding tests"},
	{"release", "Release version"},
}

// Config is built once at startup and passed by value.
type Config struct {
	UseDefaultMenu bool
	MaxLength      int
	WrapLength     int
	BlankChar      rune
	ConfirmCommit  bool
	MultipleTypes  bool
	TypesStyle     TypesStyle
	Spellcheck     bool
	// SpellCommand is an executable (plus arguments) speaking the ispell
	// pipe protocol.
	SpellCommand string
	// Types holds the AddType entries, appended after the defaults.
	Types []Category
}

func Default() Config {
	return Config{
		UseDefaultMenu: true,
		MaxLength:      80,
		WrapLength:     80,
		BlankChar:      '_',
		ConfirmCommit:  true,
		MultipleTypes:  false,
		TypesStyle:     StyleComma,
		Spellcheck:     true,
		SpellCommand:   "aspell",
	}
}

// Menu returns the categories offered to the user, in display order.
func (c Config) Menu() []Category {
	var out []Category
	if c.UseDefaultMenu {
		out = append(out, defaultCategories...)
	}
	return append(out, c.Types...)
}

// HeaderWidth is the width of the confirmation banner.
func (c Config) HeaderWidth() int {
	return max(c.MaxLength, c.WrapLength)
}

// Load reads the settings file found in dir.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		cfg, err := parseText(f)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, err
	}

	path = filepath.Join(dir, YAMLFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg, err := parseYAML(data)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return Default(), nil
	default:
		return Config{}, err
	}
}

func parseText(r io.Reader) (Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		if err := cfg.set(key, value); err != nil {
			return Config{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "AddType":
		code, desc, _ := strings.Cut(strings.TrimSpace(value), " ")
		if code == "" {
			return errors.New("AddType needs a type code")
		}
		c.Types = append(c.Types, Category{Code: code, Description: strings.TrimSpace(desc)})
	case "UseDefaultMenu":
		c.UseDefaultMenu = yes(value)
	case "MaxLength":
		c.MaxLength, err = positive(key, value)
	case "WrapLength":
		c.WrapLength, err = positive(key, value)
	case "BlankChar":
		if value != "" {
			c.BlankChar = []rune(value)[0]
		}
	case "ConfirmCommit":
		c.ConfirmCommit = yes(value)
	case "MultipleTypes":
		c.MultipleTypes = yes(value)
	case "TypesStyle":
		c.TypesStyle = TypesStyle(strings.TrimSpace(value))
	case "Spellcheck":
		c.Spellcheck = yes(value)
	case "SpellCommand":
		c.SpellCommand = strings.TrimSpace(value)
	}
	return err
}

func (c Config) validate() error {
	switch c.TypesStyle {
	case StyleComma, StyleBrackets:
	default:
		return fmt.Errorf("invalid TypesStyle %q (use comma or brackets)", c.TypesStyle)
	}
	if len(c.Menu()) == 0 {
		return errors.New("no commit types configured (UseDefaultMenu is off and no AddType given)")
	}
	return nil
}

func yes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "on":
		return true
	}
	return false
}

func positive(key, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return n, nil
}

type yamlFile struct {
	UseDefaultMenu *bool      `yaml:"useDefaultMenu"`
	MaxLength      *int       `yaml:"maxLength"`
	WrapLength     *int       `yaml:"wrapLength"`
	BlankChar      *string    `yaml:"blankChar"`
	ConfirmCommit  *bool      `yaml:"confirmCommit"`
	MultipleTypes  *bool      `yaml:"multipleTypes"`
	TypesStyle     *string    `yaml:"typesStyle"`
	Spellcheck     *bool      `yaml:"spellcheck"`
	SpellCommand   *string    `yaml:"spellCommand"`
	Types          []Category `yaml:"types"`
}

func parseYAML(data []byte) (Config, error) {
	var y yamlFile
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Config{}, err
	}
	cfg := Default()
	if y.UseDefaultMenu != nil {
		cfg.UseDefaultMenu = *y.UseDefaultMenu
	}
	if y.MaxLength != nil {
		if *y.MaxLength <= 0 {
			return Config{}, fmt.Errorf("invalid maxLength %d: must be positive", *y.MaxLength)
		}
		cfg.MaxLength = *y.MaxLength
	}
	if y.WrapLength != nil {
		if *y.WrapLength <= 0 {
			return Config{}, fmt.Errorf("invalid wrapLength %d: must be positive", *y.WrapLength)
		}
		cfg.WrapLength = *y.WrapLength
	}
	if y.BlankChar != nil && *y.BlankChar != "" {
		cfg.BlankChar = []rune(*y.BlankChar)[0]
	}
	if y.ConfirmCommit != nil {
		cfg.ConfirmCommit = *y.ConfirmCommit
	}
	if y.MultipleTypes != nil {
		cfg.MultipleTypes = *y.MultipleTypes
	}
	if y.TypesStyle != nil {
		cfg.TypesStyle = TypesStyle(*y.TypesStyle)
	}
	if y.Spellcheck != nil {
		cfg.Spellcheck = *y.Spellcheck
	}
	if y.SpellCommand != nil {
		cfg.SpellCommand = strings.TrimSpace(*y.SpellCommand)
	}
	for _, t := range y.Types {
		if strings.TrimSpace(t.Code) == "" {
			return Config{}, errors.New("types entry needs a code")
		}
		cfg.Types = append(cfg.Types, t)
	}
	return cfg, cfg.validate()
}
