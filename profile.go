package bitweaver

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/fumin/bitweaver/match"
	"github.com/fumin/bitweaver/model"
)

// A Profile is a named set of options, as read from YAML:
//
//	models: binary
//	parser: greedy
//	finder: naive
//	window: 4096
//	verify: false
//	decayShift: 4
//
// Absent fields keep their defaults.
type Profile struct {
	Models     string `json:"models,omitempty"`
	Parser     string `json:"parser,omitempty"`
	Finder     string `json:"finder,omitempty"`
	Window     int    `json:"window,omitempty"`
	Verify     *bool  `json:"verify,omitempty"`
	DecayShift uint   `json:"decayShift,omitempty"`
	Lower      uint64 `json:"lower,omitempty"`
	Upper      uint64 `json:"upper,omitempty"`
}

// Options returns the options p sets.
func (p *Profile) Options() ([]Option, error) {
	var opts []Option
	if p.Models != "" {
		k, err := ParseModelKind(p.Models)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithModels(k))
	}
	if p.Parser != "" {
		ps, err := ParseParser(p.Parser)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithParser(ps))
	}
	if p.Finder != "" {
		a, err := match.ParseAlgorithm(p.Finder)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		opts = append(opts, WithFinder(a))
	}
	if p.Window != 0 {
		opts = append(opts, WithWindow(p.Window))
	}
	if p.Verify != nil {
		opts = append(opts, WithVerify(*p.Verify))
	}
	if p.DecayShift != 0 || p.Lower != 0 || p.Upper != 0 {
		exp := model.DefaultExpParams
		if p.DecayShift != 0 {
			exp.DecayShift = p.DecayShift
		}
		if p.Lower != 0 {
			exp.Lower = p.Lower
		}
		if p.Upper != 0 {
			exp.Upper = p.Upper
		}
		if err := exp.Validate(); err != nil {
			return nil, errors.Wrap(err, "")
		}
		opts = append(opts, WithExpParams(exp))
	}
	return opts, nil
}

// ParseProfile reads a YAML profile.
// Unknown fields are an error.
func ParseProfile(b []byte) ([]Option, error) {
	var p Profile
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return nil, errors.Wrapf(ErrConfig, "%v", err)
	}
	return p.Options()
}

// LoadProfile reads the YAML profile at path.
func LoadProfile(path string) ([]Option, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	opts, err := ParseProfile(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return opts, nil
}
