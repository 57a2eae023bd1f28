package bitweaver

import (
	"log"

	"github.com/pkg/errors"

	"github.com/fumin/bitweaver/match"
	"github.com/fumin/bitweaver/model"
)

// A ModelKind selects the probability models the token stream is coded with.
// A stream must be decoded with the ModelKind it was encoded with, since it is not recorded in the stream.
type ModelKind byte

const (
	// ModelTrie codes every token bit through one Trie following the token grammar.
	ModelTrie ModelKind = iota
	// ModelFrequency codes control bits and bytes with plain frequency counts.
	ModelFrequency
	// ModelContext codes control bits with an order-1 context model, and bytes with frequency counts.
	ModelContext
	// ModelBinary codes control bits with an exponential model, and bytes bit by bit through byte trees.
	ModelBinary
)

var modelStrings = map[ModelKind]string{
	ModelTrie:      "trie",
	ModelFrequency: "frequency",
	ModelContext:   "context",
	ModelBinary:    "binary",
}

func (k ModelKind) String() string {
	if s, ok := modelStrings[k]; ok {
		return s
	}
	return "unknown"
}

// ParseModelKind returns the ModelKind named s.
func ParseModelKind(s string) (ModelKind, error) {
	for k, name := range modelStrings {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrConfig, "unknown models %q", s)
}

// A Parser selects how the input is split into literals and matches.
type Parser byte

const (
	// Optimal minimizes the coded size over all parses with dynamic programming.
	Optimal Parser = iota
	// Greedy takes the longest match at every position, if it is smaller than its literals.
	Greedy
)

var parserStrings = map[Parser]string{
	Optimal: "optimal",
	Greedy:  "greedy",
}

func (p Parser) String() string {
	if s, ok := parserStrings[p]; ok {
		return s
	}
	return "unknown"
}

// ParseParser returns the Parser named s.
func ParseParser(s string) (Parser, error) {
	for p, name := range parserStrings {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrConfig, "unknown parser %q", s)
}

// Config holds the settings of Encode, Decode and Info.
type Config struct {
	Models ModelKind
	Parser Parser
	Finder match.Algorithm
	// Window is how far back matches may reach.
	Window int
	Exp    model.ExpParams
	// Verify decodes every encoded stream and rejects it unless it reproduces the input.
	Verify bool
	// Logger receives parse statistics. Nil is silent.
	Logger *log.Logger
}

// DefaultConfig returns the settings used when no Option is given.
func DefaultConfig() Config {
	return Config{
		Models: ModelTrie,
		Parser: Optimal,
		Finder: match.HashChain,
		Window: match.MaxOffset,
		Exp:    model.DefaultExpParams,
		Verify: true,
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	if _, ok := modelStrings[c.Models]; !ok {
		return errors.Wrapf(ErrConfig, "models %d", c.Models)
	}
	if _, ok := parserStrings[c.Parser]; !ok {
		return errors.Wrapf(ErrConfig, "parser %d", c.Parser)
	}
	if err := c.Finder.Verify(); err != nil {
		return errors.Wrap(err, "")
	}
	if c.Window < 1 || c.Window > match.MaxOffset {
		return errors.Wrapf(match.ErrWindow, "%d", c.Window)
	}
	if err := c.Exp.Validate(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func (c *Config) logf(format string, v ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}

// An Option changes a Config.
type Option func(*Config)

func newConfig(opts []Option) (*Config, error) {
	c := DefaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// WithModels selects the probability models.
func WithModels(k ModelKind) Option {
	return func(c *Config) { c.Models = k }
}

// WithParser selects the parser.
func WithParser(p Parser) Option {
	return func(c *Config) { c.Parser = p }
}

// WithFinder selects the match finding algorithm.
func WithFinder(a match.Algorithm) Option {
	return func(c *Config) { c.Finder = a }
}

// WithWindow limits how far back matches may reach.
func WithWindow(n int) Option {
	return func(c *Config) { c.Window = n }
}

// WithExpParams tunes the exponential models of ModelBinary and ModelTrie.
func WithExpParams(p model.ExpParams) Option {
	return func(c *Config) { c.Exp = p }
}

// WithVerify turns the round trip check of Encode on or off.
func WithVerify(v bool) Option {
	return func(c *Config) { c.Verify = v }
}

// WithLogger sends parse statistics to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithConfig replaces every setting with those of cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}
