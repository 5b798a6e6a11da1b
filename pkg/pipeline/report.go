package pipeline

import (
	"github.com/platinummonkey/protoweave/pkg/render"
)

// Report summarizes one pass
type Report struct {
	PassID  string         `yaml:"pass_id"`
	Events  int            `yaml:"events"`
	Routed  int            `yaml:"routed"`
	Records map[string]int `yaml:"records"`
	Sets    []SetReport    `yaml:"sets"`
	Totals  render.Stats   `yaml:"totals"`
}

// SetReport summarizes the renderer runs over one file set
type SetReport struct {
	Language  string        `yaml:"language"`
	Root      string        `yaml:"root,omitempty"`
	Files     int           `yaml:"files"`
	Renderers []RendererRun `yaml:"renderers"`
}

// RendererRun is the outcome of one renderer over one file set
type RendererRun struct {
	Name    string       `yaml:"name"`
	Skipped bool         `yaml:"skipped,omitempty"`
	Stats   render.Stats `yaml:"stats"`
}

func (r *Report) total() {
	r.Totals = render.Stats{}
	for _, set := range r.Sets {
		for _, run := range set.Renderers {
			r.Totals.Applied += run.Stats.Applied
			r.Totals.NotFound += run.Stats.NotFound
			r.Totals.MissingFile += run.Stats.MissingFile
		}
	}
}
