package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/accessmatrix/config"
	"github.com/kbukum/accessmatrix/permission"
	"github.com/kbukum/accessmatrix/snapshot"
	"github.com/kbukum/accessmatrix/version"
)

// errHelp stops a command after its flag usage was printed.
var errHelp = errors.New("help requested")

func newFlagSet(name string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("permctl "+name, pflag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return nil
}

type evalOptions struct {
	file    string
	profile string
	key     string
	config  string
	compact bool
}

func runEval(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts evalOptions
	fs := newFlagSet("eval", stdout)
	fs.StringVarP(&opts.file, "file", "f", "-", "snapshot JSON file, - for stdin")
	fs.StringVarP(&opts.profile, "profile", "p", "", "project the matrix onto a profile")
	fs.StringVarP(&opts.key, "key", "k", "", "print a single permission instead of the matrix")
	fs.StringVarP(&opts.config, "config", "c", "", "gateway config file with profile overrides")
	fs.BoolVar(&opts.compact, "compact", false, "print JSON on one line")
	if err := parseFlags(fs, args); err != nil {
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}

	data, err := readInput(opts.file, stdin)
	if err != nil {
		return err
	}
	s, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	ev := permission.Default()
	var profile *permission.Profile
	if opts.profile != "" {
		profiles, err := loadProfiles(ev.Table(), opts.config)
		if err != nil {
			return err
		}
		p, ok := profiles.Get(opts.profile)
		if !ok {
			return fmt.Errorf("unknown profile %q", opts.profile)
		}
		profile = &p
	}

	if opts.key != "" {
		k, err := resolveKey(ev.Table(), profile, opts.key)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, ev.EvaluateKey(s, k))
		return err
	}

	m := ev.Evaluate(s)
	var out map[string]bool
	if profile != nil {
		out = profile.Select(m)
	} else {
		out = m.Strings()
	}
	return writeJSON(stdout, out, opts.compact)
}

func resolveKey(t *permission.Table, profile *permission.Profile, name string) (permission.Key, error) {
	if profile != nil {
		k, ok := profile.Resolve(t, name)
		if !ok {
			return "", fmt.Errorf("profile %q does not expose %q", profile.Name, name)
		}
		return k, nil
	}
	k, ok := permission.ParseKey(name)
	if !ok {
		return "", fmt.Errorf("unknown permission %q", name)
	}
	return k, nil
}

// loadProfiles returns the built-in profiles, overridden by the
// permissions section of the gateway config when path is set.
func loadProfiles(t *permission.Table, path string) (permission.Profiles, error) {
	if path == "" {
		return permission.DefaultProfiles(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	var cfg struct {
		Permissions struct {
			Profiles []permission.ProfileConfig `mapstructure:"profiles"`
		} `mapstructure:"permissions"`
	}
	err := config.LoadConfig("permission-gateway", &cfg,
		config.WithConfigFile(path),
		config.WithEnvPrefix("PERMGW"),
	)
	if err != nil {
		return nil, err
	}
	return permission.BuildProfiles(t, cfg.Permissions.Profiles)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// decodeSnapshot treats empty input and a JSON null as no snapshot, which
// evaluates to the default matrix.
func decodeSnapshot(data []byte) (*snapshot.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	return snapshot.Parse(data)
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func runRules(args []string, stdout io.Writer) error {
	if err := parseFlags(newFlagSet("rules", stdout), args); err != nil {
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}
	return permission.ExportYAML(stdout, permission.Default().Table())
}

func runKeys(args []string, stdout io.Writer) error {
	if err := parseFlags(newFlagSet("keys", stdout), args); err != nil {
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}
	for _, k := range permission.Keys() {
		if _, err := fmt.Fprintln(stdout, k); err != nil {
			return err
		}
	}
	return nil
}

func runVersion(args []string, stdout io.Writer) error {
	fs := newFlagSet("version", stdout)
	asJSON := fs.Bool("json", false, "print build info as JSON")
	if err := parseFlags(fs, args); err != nil {
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}
	digest, err := permission.Digest(permission.Default().Table())
	if err != nil {
		return err
	}
	info := version.Get().With("rules", digest)
	if *asJSON {
		return writeJSON(stdout, info, false)
	}
	_, err = fmt.Fprintf(stdout, "permctl %s (rules %s)\n", info.String(), digest)
	return err
}
