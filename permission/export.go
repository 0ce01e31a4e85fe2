package permission

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/accessmatrix/authz"
)

// exportVersion is bumped when the document layout changes.
const exportVersion = 1

type exportDocument struct {
	Version     int          `yaml:"version"`
	Permissions []exportRule `yaml:"permissions"`
}

type exportRule struct {
	Key          Key                 `yaml:"key"`
	Alternatives []exportAlternative `yaml:"alternatives"`
}

// exportAlternative flattens one AND-group into its constraints.
type exportAlternative struct {
	All []authz.Predicate `yaml:"all"`
}

// ExportYAML writes t as a YAML document ordered by key, one entry per
// approval path.
func ExportYAML(w io.Writer, t *Table) error {
	doc := exportDocument{Version: exportVersion}
	for _, r := range t.Rules() {
		er := exportRule{Key: r.Key}
		for _, alt := range r.Alternatives() {
			constraints := []authz.Predicate{alt}
			if alt.Op == authz.OpAll {
				constraints = alt.Children
			}
			er.Alternatives = append(er.Alternatives, exportAlternative{All: constraints})
		}
		doc.Permissions = append(doc.Permissions, er)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Digest identifies the content of t: the SHA-256 of its YAML export.
func Digest(t *Table) (string, error) {
	var buf bytes.Buffer
	if err := ExportYAML(&buf, t); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf.Bytes())
	return "sha256:" + hex.EncodeToString(sum[:12]), nil
}
