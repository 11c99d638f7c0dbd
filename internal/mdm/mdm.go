// Package mdm parses IC-CAP MDM measurement exports: a declarative header
// (ICCAP_INPUTS / ICCAP_OUTPUTS / ICCAP_VALUES) followed by BEGIN_DB..END_DB
// data blocks of column-oriented numeric rows.
package mdm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is the parse result for one MDM file. Immutable once produced.
type File struct {
	Name   string
	Header Header
	Blocks []Block

	regionCount int
}

// Parse parses MDM file content. name is used for labeling only.
func Parse(name string, content []byte) (*File, error) {
	lines := strings.Split(string(content), "\n")
	header := parseHeader(lines)
	blocks, regions, err := scanBlocks(lines)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &File{Name: name, Header: header, Blocks: blocks, regionCount: regions}, nil
}

// ParseFile reads and parses an MDM file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mdm file: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

// BlockCount returns the number of BEGIN_DB regions in the file, including
// regions that produced no data.
func (f *File) BlockCount() int {
	return f.regionCount
}

// Block returns the block for the i-th BEGIN_DB region. A region that was
// filtered out as empty yields a zero-value block with the requested index;
// an index past the region count is an error naming both the index and the
// available count.
func (f *File) Block(i int) (*Block, error) {
	if i < 0 || i >= f.regionCount {
		return nil, fmt.Errorf("block index %d out of range: file has %d blocks", i, f.regionCount)
	}
	for j := range f.Blocks {
		if f.Blocks[j].Index == i {
			return &f.Blocks[j], nil
		}
	}
	return &Block{Index: i}, nil
}

// Export flattens the parse result into plain nested maps and slices for
// consumers that format it without re-deriving anything (the HTML renderer,
// JSON dumps).
func (f *File) Export() map[string]any {
	blocks := make([]map[string]any, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		rows := make([]map[string]float64, len(b.Rows))
		for i, r := range b.Rows {
			rows[i] = map[string]float64(r)
		}
		blocks = append(blocks, map[string]any{
			"index":   b.Index,
			"vars":    b.Vars,
			"columns": b.Columns,
			"data":    rows,
		})
	}
	return map[string]any{
		"name":    f.Name,
		"inputs":  f.Header.RawInputs,
		"outputs": f.Header.RawOutputs,
		"values":  f.Header.Values,
		"blocks":  blocks,
	}
}
