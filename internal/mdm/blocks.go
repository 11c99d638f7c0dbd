package mdm

import (
	"fmt"
	"strconv"
	"strings"
)

// Block markers. Each BEGIN_DB..END_DB region is one candidate block.
const (
	markerBeginDB = "BEGIN_DB"
	markerEndDB   = "END_DB"
)

// Row maps a column name to the measured value. Column order lives in the
// owning block's Columns slice.
type Row map[string]float64

// Block is one measurement sweep: the scalar conditions held for the sweep
// (ICCAP_VAR lines), the column names from the # header line, and the data
// rows. Index is the block's position among all BEGIN_DB regions in the
// file, counted before empty regions are filtered out.
type Block struct {
	Index   int
	Vars    map[string]float64
	Columns []string
	Rows    []Row
}

// scanBlocks walks the file's lines locating BEGIN_DB/END_DB boundaries and
// parses each region's body. It returns the non-empty blocks, the total
// region count (empty regions still consume an index slot), and an error on
// the first ICCAP_VAR line whose value does not parse as a float. Data rows
// with the wrong field count or non-numeric tokens are dropped silently;
// regions with no column header or no surviving rows are omitted.
func scanBlocks(lines []string) ([]Block, int, error) {
	var blocks []Block
	regions := 0

	inBlock := false
	var vars map[string]float64
	var columns []string
	var rows []Row

	flush := func() {
		if len(columns) > 0 && len(rows) > 0 {
			blocks = append(blocks, Block{
				Index:   regions - 1,
				Vars:    vars,
				Columns: columns,
				Rows:    rows,
			})
		}
		inBlock = false
		vars = nil
		columns = nil
		rows = nil
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		first := strings.Fields(stripped)[0]
		if !inBlock {
			if first == markerBeginDB {
				inBlock = true
				regions++
				vars = make(map[string]float64)
			}
			continue
		}
		if first == markerEndDB {
			flush()
			continue
		}

		switch {
		case first == "ICCAP_VAR":
			parts := strings.Fields(stripped)
			if len(parts) < 3 {
				continue
			}
			v, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, regions, fmt.Errorf("block %d: ICCAP_VAR %s: bad numeric value %q: %w",
					regions-1, parts[1], parts[2], err)
			}
			vars[parts[1]] = v
		case strings.HasPrefix(stripped, "#"):
			// Column header; the last one seen before a data row wins.
			columns = strings.Fields(stripped[1:])
		case columns != nil && (stripped[0] == '-' || (stripped[0] >= '0' && stripped[0] <= '9')):
			fields := strings.Fields(stripped)
			if len(fields) != len(columns) {
				continue
			}
			row := make(Row, len(columns))
			ok := true
			for i, col := range columns {
				v, err := strconv.ParseFloat(fields[i], 64)
				if err != nil {
					ok = false
					break
				}
				row[col] = v
			}
			if ok {
				rows = append(rows, row)
			}
		}
	}
	return blocks, regions, nil
}
