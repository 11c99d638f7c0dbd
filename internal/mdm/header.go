package mdm

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Header section marker lines, exact match after trimming.
const (
	markerInputs    = "ICCAP_INPUTS"
	markerOutputs   = "ICCAP_OUTPUTS"
	markerValues    = "ICCAP_VALUES"
	markerEndHeader = "END_HEADER"
)

// conOrder sorts constant (CON) inputs after every real sweep order.
const conOrder = math.MaxInt

// section is the current state of the header scan.
type section int

const (
	sectionNone section = iota
	sectionInputs
	sectionOutputs
	sectionValues
)

var valuesRe = regexp.MustCompile(`^(\w+)\s+"([^"]*)"`)

// Header holds the declarative part of an MDM file: the raw input and output
// variable lines in declaration order and the ICCAP_VALUES metadata map
// (Lot, Wafer, Die, Temperature and friends).
type Header struct {
	RawInputs  []string
	RawOutputs []string
	Values     map[string]string
}

// parseHeader runs the NONE→INPUTS→OUTPUTS→VALUES section machine over the
// file's lines, stopping at END_HEADER. Lines in the values section that do
// not match the `key "value"` grammar are dropped.
func parseHeader(lines []string) Header {
	h := Header{Values: make(map[string]string)}
	state := sectionNone
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch stripped {
		case markerInputs:
			state = sectionInputs
			continue
		case markerOutputs:
			state = sectionOutputs
			continue
		case markerValues:
			state = sectionValues
			continue
		case markerEndHeader:
			return h
		}
		if stripped == "" {
			continue
		}
		switch state {
		case sectionInputs:
			h.RawInputs = append(h.RawInputs, stripped)
		case sectionOutputs:
			h.RawOutputs = append(h.RawOutputs, stripped)
		case sectionValues:
			if m := valuesRe.FindStringSubmatch(stripped); m != nil {
				h.Values[m[1]] = m[2]
			}
		}
	}
	return h
}

// InputVariable is one decoded ICCAP_INPUTS line. Frequency inputs (unit F)
// carry no terminal wiring; voltage/current inputs do. Params holds the
// sweep parameters in declaration order: for a swept input Params[0] is the
// sweep order, then start, stop, point count and step.
type InputVariable struct {
	Name       string
	Unit       string
	Terminal   string
	Ground     string
	Source     string
	Compliance string
	SweepType  string
	Params     [5]string

	// Derived display attributes.
	SweepOrder int
	SweepLabel string
	SweepDesc  string
}

// OutputVariable is one decoded ICCAP_OUTPUTS line. S-parameter outputs
// (unit S) span two terminal nodes, recorded space-joined in Terminal.
type OutputVariable struct {
	Name     string
	Unit     string
	Terminal string
	Ground   string
	Source   string
	Type     string
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// ParseInput decodes a single input declaration line.
func ParseInput(line string) InputVariable {
	parts := strings.Fields(line)
	in := InputVariable{
		Name: field(parts, 0),
		Unit: field(parts, 1),
	}
	if in.Unit == "F" {
		// name unit sweepType order start stop points step
		in.SweepType = field(parts, 2)
		for i := range in.Params {
			in.Params[i] = field(parts, 3+i)
		}
	} else {
		// name unit terminal ground source compliance sweepType params...
		in.Terminal = field(parts, 2)
		in.Ground = field(parts, 3)
		in.Source = field(parts, 4)
		in.Compliance = field(parts, 5)
		in.SweepType = field(parts, 6)
		for i := range in.Params {
			in.Params[i] = field(parts, 7+i)
		}
	}
	in.SweepOrder = conOrder
	switch {
	case in.SweepType == "CON":
		in.SweepLabel = "CON"
		in.SweepDesc = in.Params[0]
	case in.SweepType != "":
		if n, err := strconv.Atoi(in.Params[0]); err == nil && n > 0 {
			in.SweepOrder = n
		}
		in.SweepLabel = "VAR" + in.Params[0]
		in.SweepDesc = in.SweepType + ": " + in.Params[1] + " → " + in.Params[2] +
			" (" + in.Params[3] + " pts, step " + in.Params[4] + ")"
	}
	return in
}

// ParseOutput decodes a single output declaration line.
func ParseOutput(line string) OutputVariable {
	parts := strings.Fields(line)
	out := OutputVariable{
		Name: field(parts, 0),
		Unit: field(parts, 1),
	}
	if out.Unit == "S" {
		// name unit node1 node2 ground source option
		out.Terminal = strings.TrimSpace(field(parts, 2) + " " + field(parts, 3))
		out.Ground = field(parts, 4)
		out.Source = field(parts, 5)
		out.Type = field(parts, 6)
	} else {
		// name unit terminal ground source option
		out.Terminal = field(parts, 2)
		out.Ground = field(parts, 3)
		out.Source = field(parts, 4)
		out.Type = field(parts, 5)
	}
	return out
}

// Inputs returns the decoded input variables sorted by sweep order,
// constants last. The sort is stable so equal orders keep declaration order.
func (h Header) Inputs() []InputVariable {
	ins := make([]InputVariable, len(h.RawInputs))
	for i, line := range h.RawInputs {
		ins[i] = ParseInput(line)
	}
	sort.SliceStable(ins, func(i, j int) bool { return ins[i].SweepOrder < ins[j].SweepOrder })
	return ins
}

// Outputs returns the decoded output variables ordered to follow the terminal
// order of the sorted inputs; outputs on nodes no input drives sort last.
func (h Header) Outputs() []OutputVariable {
	ins := h.Inputs()
	nodeRank := make(map[string]int, len(ins))
	for i, in := range ins {
		if _, ok := nodeRank[in.Terminal]; !ok {
			nodeRank[in.Terminal] = i
		}
	}
	rank := func(node string) int {
		if r, ok := nodeRank[node]; ok {
			return r
		}
		return len(ins) + 1
	}
	outs := make([]OutputVariable, len(h.RawOutputs))
	for i, line := range h.RawOutputs {
		outs[i] = ParseOutput(line)
	}
	sort.SliceStable(outs, func(i, j int) bool { return rank(outs[i].Terminal) < rank(outs[j].Terminal) })
	return outs
}

// Data type tags for the renderer: S-parameter measurements get a Smith
// chart, everything else an X-Y plot.
const (
	DataTypeS    = "S_data"
	DataTypeDCCV = "DC_CV_data"
)

// DataType classifies the measurement by the unit of the primary sweep
// (sweep order 1): frequency means S-parameter data.
func (h Header) DataType() string {
	for _, in := range h.Inputs() {
		if in.SweepOrder == 1 && in.Unit == "F" {
			return DataTypeS
		}
	}
	return DataTypeDCCV
}

// SweepOrderOf reports the sweep order for a named input column, or conOrder
// when the name is not an input variable. Used for data-table column sorting.
func (h Header) SweepOrderOf(name string) int {
	for _, in := range h.Inputs() {
		if in.Name == name {
			return in.SweepOrder
		}
	}
	return conOrder
}

// IsInput reports whether name is a declared input variable.
func (h Header) IsInput(name string) bool {
	for _, raw := range h.RawInputs {
		if ParseInput(raw).Name == name {
			return true
		}
	}
	return false
}
