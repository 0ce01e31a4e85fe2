package permission

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kbukum/accessmatrix/authz"
	"github.com/kbukum/accessmatrix/snapshot"
	"github.com/kbukum/accessmatrix/validation"
)

// Built-in profile names.
const (
	ProfileClient = "client"
	ProfileServer = "server"
)

// Profile is a named view over the key set. Include selects canonical keys by
// glob pattern; Aliases expose canonical keys under external names, such as
// the mutation names the upstream API uses.
type Profile struct {
	Name    string
	Include []string
	Aliases map[string]Key
}

// ClientProfile exposes every canonical key under its own name.
func ClientProfile() Profile {
	return Profile{Name: ProfileClient, Include: []string{"*"}}
}

// ServerProfile exposes only the operations the server gates itself.
func ServerProfile() Profile {
	return Profile{
		Name: ProfileServer,
		Aliases: map[string]Key{
			"cancelCard": CancelCardForOtherMembership,
			"updateCard": UpdateCard,
		},
	}
}

// Validate checks that every alias targets a key of t.
func (p Profile) Validate(t *Table) error {
	v := validation.New().Required("name", p.Name)
	for _, name := range slices.Sorted(maps.Keys(p.Aliases)) {
		field := fmt.Sprintf("%s.aliases.%s", p.Name, name)
		v.Required(field, name)
		v.Custom(t.Has(p.Aliases[name]), field, fmt.Sprintf("unknown permission %q", p.Aliases[name]))
	}
	for i, pattern := range p.Include {
		v.Required(fmt.Sprintf("%s.include[%d]", p.Name, i), pattern)
	}
	return v.Err()
}

// Resolve maps an external name to a key of t. Aliases take precedence over
// included canonical names.
func (p Profile) Resolve(t *Table, name string) (Key, bool) {
	if k, ok := p.Aliases[name]; ok {
		return k, t.Has(k)
	}
	k := Key(name)
	if t.Has(k) && authz.MatchAny(p.Include, name) {
		return k, true
	}
	return "", false
}

// Gates reports whether name is an alias of p.
func (p Profile) Gates(name string) bool {
	_, ok := p.Aliases[name]
	return ok
}

// Select projects m onto the profile: every included key of m plus every
// alias, each looked up in m.
func (p Profile) Select(m Matrix) map[string]bool {
	out := make(map[string]bool, len(p.Aliases))
	if len(p.Include) > 0 {
		for k, v := range m {
			if authz.MatchAny(p.Include, string(k)) {
				out[string(k)] = v
			}
		}
	}
	for name, k := range p.Aliases {
		out[name] = m.Allows(k)
	}
	return out
}

// Authorize evaluates the key behind name against s. Names the profile does
// not expose are denied.
func (p Profile) Authorize(ev *Evaluator, s *snapshot.Snapshot, name string) bool {
	k, ok := p.Resolve(ev.Table(), name)
	if !ok {
		return false
	}
	return ev.EvaluateKey(s, k)
}

// Checker adapts a matrix to authz.Checker under the profile's names.
func (p Profile) Checker(t *Table, m Matrix) authz.Checker {
	return authz.CheckerFunc(func(name string) bool {
		k, ok := p.Resolve(t, name)
		return ok && m.Allows(k)
	})
}

// ProfileConfig is the configuration form of a Profile. Aliases are a list
// because configuration map keys are case-insensitive.
type ProfileConfig struct {
	Name    string        `mapstructure:"name" yaml:"name"`
	Include []string      `mapstructure:"include" yaml:"include,omitempty"`
	Aliases []AliasConfig `mapstructure:"aliases" yaml:"aliases,omitempty"`
}

// AliasConfig maps one external name to a canonical permission.
type AliasConfig struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Permission string `mapstructure:"permission" yaml:"permission"`
}

// Profile converts the configuration form.
func (c ProfileConfig) Profile() Profile {
	p := Profile{Name: c.Name, Include: slices.Clone(c.Include)}
	if len(c.Aliases) > 0 {
		p.Aliases = make(map[string]Key, len(c.Aliases))
		for _, a := range c.Aliases {
			p.Aliases[a.Name] = Key(a.Permission)
		}
	}
	return p
}

// Profiles is a validated set of profiles keyed by name.
type Profiles map[string]Profile

// DefaultProfiles returns the built-in client and server profiles.
func DefaultProfiles() Profiles {
	return Profiles{
		ProfileClient: ClientProfile(),
		ProfileServer: ServerProfile(),
	}
}

// BuildProfiles starts from DefaultProfiles, replaces or adds the configured
// profiles, and validates the result against t.
func BuildProfiles(t *Table, configs []ProfileConfig) (Profiles, error) {
	out := DefaultProfiles()
	seen := make(map[string]bool, len(configs))
	v := validation.New()
	for i, c := range configs {
		field := fmt.Sprintf("permissions.profiles[%d].name", i)
		v.Required(field, c.Name)
		v.Custom(!seen[c.Name], field, fmt.Sprintf("duplicate profile %q", c.Name))
		seen[c.Name] = true
		out[c.Name] = c.Profile()
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(out)) {
		if err := out[name].Validate(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Get returns the profile called name.
func (ps Profiles) Get(name string) (Profile, bool) {
	p, ok := ps[name]
	return p, ok
}
