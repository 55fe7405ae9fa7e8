// Package sales resolves quarter labels to EV sales files and reads them.
package sales

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Quarter is one selectable quarter and the file holding its sales.
type Quarter struct {
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"file" json:"path"`
}

// Catalog is the ordered list of quarters offered by the slider.
type Catalog struct {
	quarters []Quarter
}

// DefaultLabels are the quarters shipped with the dashboard, oldest first.
var DefaultLabels = []string{
	"Q1 2022", "Q2 2022", "Q3 2022", "Q4 2022",
	"Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023",
	"Q1 2024", "Q2 2024",
}

// NewCatalog builds a catalog from an explicit list. Labels must be unique.
func NewCatalog(quarters []Quarter) (*Catalog, error) {
	if len(quarters) == 0 {
		return nil, eris.New("sales: catalog has no quarters")
	}
	seen := make(map[string]bool, len(quarters))
	for i, q := range quarters {
		if q.Label == "" || q.Path == "" {
			return nil, eris.Errorf("sales: quarter %d needs both label and file", i)
		}
		if seen[q.Label] {
			return nil, eris.Errorf("sales: duplicate quarter label %q", q.Label)
		}
		seen[q.Label] = true
	}
	out := make([]Quarter, len(quarters))
	copy(out, quarters)
	return &Catalog{quarters: out}, nil
}

// DefaultCatalog maps DefaultLabels to dir/q<n>_<year>.csv.
func DefaultCatalog(dir string) *Catalog {
	quarters := make([]Quarter, len(DefaultLabels))
	for i, label := range DefaultLabels {
		var q, year int
		_, _ = fmt.Sscanf(label, "Q%d %d", &q, &year)
		quarters[i] = Quarter{
			Label: label,
			Path:  filepath.Join(dir, fmt.Sprintf("q%d_%d.csv", q, year)),
		}
	}
	return &Catalog{quarters: quarters}
}

// LoadManifest reads a YAML manifest:
//
//	quarters:
//	  - label: Q1 2022
//	    file: q1_2022.csv
//
// Relative file paths resolve against the manifest's directory.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sales: read manifest %s", path)
	}

	var manifest struct {
		Quarters []Quarter `yaml:"quarters"`
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, eris.Wrap(err, "sales: parse manifest")
	}

	base := filepath.Dir(path)
	for i, q := range manifest.Quarters {
		if q.Path != "" && !filepath.IsAbs(q.Path) {
			manifest.Quarters[i].Path = filepath.Join(base, q.Path)
		}
	}
	return NewCatalog(manifest.Quarters)
}

// Len returns the number of quarters.
func (c *Catalog) Len() int { return len(c.quarters) }

// Labels returns the quarter labels in slider order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.quarters))
	for i, q := range c.quarters {
		labels[i] = q.Label
	}
	return labels
}

// Quarters returns a copy of the ordered quarters.
func (c *Catalog) Quarters() []Quarter {
	out := make([]Quarter, len(c.quarters))
	copy(out, c.quarters)
	return out
}

// At returns the quarter at slider position i.
func (c *Catalog) At(i int) (Quarter, error) {
	if i < 0 || i >= len(c.quarters) {
		return Quarter{}, eris.Errorf("sales: quarter index %d out of range [0, %d]", i, len(c.quarters)-1)
	}
	return c.quarters[i], nil
}

// Index returns the slider position of label, or -1.
func (c *Catalog) Index(label string) int {
	for i, q := range c.quarters {
		if q.Label == label {
			return i
		}
	}
	return -1
}
