package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	FormatTree = "tree"
	FormatJSON = "json"
	FormatYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds settings of the docblock command.
type Config struct {
	Output OutputConfig `toml:"output"`
	Parser ParserConfig `toml:"parser"`
}

// OutputConfig decides how parse results and diagnostics are printed.
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// ParserConfig decides which tables a parser uses and whether it traces its steps.
type ParserConfig struct {
	// Tables is a path to a tables file `docblock compile` wrote. An empty path means the built-in tables.
	Tables string `toml:"tables"`
	Trace  bool   `toml:"trace"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from a TOML file.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads configuration in TOML, applies defaults, and validates it.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key: %v", undecoded[0])
	}

	c.applyDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = FormatTree
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
	c.Parser.Tables = os.ExpandEnv(c.Parser.Tables)
}

func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatTree, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be %v, %v, or %v; got: %v", FormatTree, FormatJSON, FormatYAML, c.Output.Format)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be %v, %v, or %v; got: %v", ColorAuto, ColorAlways, ColorNever, c.Output.Color)
	}
	return nil
}
