package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/poolkit/pool"
)

// jsonPool represents pool state in JSON format.
type jsonPool struct {
	Label       string        `json:"label,omitempty"`
	TotalSize   int           `json:"total_size"`
	UsedMemory  int           `json:"used_memory"`
	Allocations int           `json:"allocations"`
	Segments    []jsonSegment `json:"segments,omitempty"`
}

// jsonSegment represents one gap or used segment in JSON format.
type jsonSegment struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Ref    uint32 `json:"ref,omitempty"`
}

// printJSON prints pool stats and layout as a single indented JSON object.
func (pr *Printer) printJSON(p *pool.Pool) error {
	st := p.Stats()

	out := jsonPool{
		TotalSize:   st.TotalSize,
		UsedMemory:  st.UsedMemory,
		Allocations: st.NumAllocations,
	}

	if pr.opts.ShowLabel {
		out.Label = p.Label()
	}

	if pr.opts.ShowLayout {
		segs, err := p.Snapshot()
		if err != nil {
			return err
		}
		out.Segments = make([]jsonSegment, 0, len(segs))
		for _, seg := range segs {
			out.Segments = append(out.Segments, jsonSegment{
				Kind:   string(seg.Kind),
				Offset: int(seg.Offset),
				Length: int(seg.Length),
				Ref:    seg.Ref,
			})
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pr.writer, "%s\n", data)
	return err
}
