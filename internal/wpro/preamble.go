package wpro

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var commentPrefixRe = regexp.MustCompile(`^\*[,\s]*`)

// Preamble holds the metadata carried by the `*`-commented lines ahead of
// the data table: bare `key,value` pairs and the nested
// "Meas Condition Description" sub-table.
type Preamble struct {
	Header         map[string]string
	MeasConditions map[string]string
}

// LoadPreamble reads a WPro file and parses only its commented preamble.
func LoadPreamble(path string) (*Preamble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wpro file: %w", err)
	}
	return ParsePreamble(data), nil
}

// ParsePreamble scans the leading comment lines. The scan stops at the
// first non-comment line; lines that fit neither the key,value shape nor
// the measurement-condition sub-table are ignored.
func ParsePreamble(content []byte) *Preamble {
	p := &Preamble{
		Header:         make(map[string]string),
		MeasConditions: make(map[string]string),
	}
	inMeasCondition := false
	var condHeader []string

	for _, line := range strings.Split(string(content), "\n") {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, "*") {
			break
		}
		body := strings.TrimSpace(commentPrefixRe.ReplaceAllString(stripped, ""))

		switch {
		case strings.HasPrefix(body, "Start Meas Condition Description"):
			inMeasCondition = true
			continue
		case strings.HasPrefix(body, "End Meas Condition Description"):
			inMeasCondition = false
			continue
		case body == "HEADER_START" || body == "HEADER_END":
			continue
		}

		if inMeasCondition {
			fields := splitNonEmpty(body)
			if condHeader == nil {
				condHeader = fields
				continue
			}
			for i, v := range fields {
				if i < len(condHeader) {
					p.MeasConditions[condHeader[i]] = v
				}
			}
			continue
		}

		if strings.Contains(body, ",") {
			parts := strings.SplitN(body, ",", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" && value != "" {
				p.Header[key] = value
			}
		}
	}
	return p
}

// Lot returns the lot name from the preamble, defaulting to "Unknown".
func (p *Preamble) Lot() string {
	if lot, ok := p.Header["Lot"]; ok && lot != "" {
		return lot
	}
	return "Unknown"
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
