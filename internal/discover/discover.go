// Package discover walks a lot folder for MDM measurement files and maps
// them to output locations under the report folder.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ReportDirName is the directory reports are written to inside the lot
// folder; anything already under it is excluded from discovery.
const ReportDirName = "Report"

// FindMDMFiles recursively enumerates *.mdm files under root, skipping any
// path below a directory named Report.
func FindMDMFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ReportDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".mdm") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// OutputPath derives the HTML output location for an MDM file: the path
// relative to the lot root, re-rooted under the report folder with the
// extension swapped to .html. Intermediate directories are created.
func OutputPath(mdmPath, lotRoot, reportRoot string) (string, error) {
	rel, err := filepath.Rel(lotRoot, mdmPath)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", mdmPath, err)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	out := filepath.Join(reportRoot, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("mkdir output dir: %w", err)
	}
	return out, nil
}

// Tree organizes discovered files for navigation:
// wafer → temperature → die → measurement group → files.
type Tree map[string]map[string]map[string]map[string][]string

// Organize buckets MDM files by the lot folder's conventional layout
// (Wafer_1/T27/WholeDie/N/X0-Y0/MeasGroup/file.mdm). Files at unexpected
// depths are left out of the tree; they still get viewer pages.
func Organize(files []string, lotRoot string) Tree {
	tree := make(Tree)
	for _, f := range files {
		rel, err := filepath.Rel(lotRoot, f)
		if err != nil {
			continue
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) < 6 {
			continue
		}
		wafer, temp, die, group := parts[0], parts[1], parts[4], parts[5]
		if tree[wafer] == nil {
			tree[wafer] = make(map[string]map[string]map[string][]string)
		}
		if tree[wafer][temp] == nil {
			tree[wafer][temp] = make(map[string]map[string][]string)
		}
		if tree[wafer][temp][die] == nil {
			tree[wafer][temp][die] = make(map[string][]string)
		}
		tree[wafer][temp][die][group] = append(tree[wafer][temp][die][group], f)
	}
	return tree
}

// LotFolder resolves the lot directory for a WPro CSV: a sibling directory
// named after the lot when present, the CSV's own directory otherwise.
func LotFolder(csvPath, lot string) string {
	dir := filepath.Dir(csvPath)
	if filepath.Base(dir) == lot {
		return dir
	}
	candidate := filepath.Join(dir, lot)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return dir
}
