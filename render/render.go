package render

import (
	"encoding/json"
	"io"

	"github.com/NethermindEth/blockstats/stats"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

const clearScreen = "\033[2J\033[H"

type Renderer interface {
	Render(w io.Writer, s *stats.Summary) error
}

// New returns the renderer for format. clear only affects the box renderer.
func New(format Format, clear bool) (Renderer, error) {
	switch format {
	case Box:
		return &boxRenderer{clear: clear}, nil
	case JSON:
		return jsonRenderer{}, nil
	case YAML:
		return yamlRenderer{}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// boxRenderer draws the report lines inside a border as wide as the longest line.
type boxRenderer struct {
	clear bool
}

func (r *boxRenderer) Render(w io.Writer, s *stats.Summary) error {
	if r.clear {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("#")
	table.SetColumnSeparator("#")
	table.SetRowSeparator("-")
	for _, line := range s.Report().Lines() {
		table.Append([]string{line})
	}
	table.Render()
	return nil
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, s *stats.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, s *stats.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
