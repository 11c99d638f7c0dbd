package discover_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waferlab/mdmreport/internal/discover"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("END_HEADER\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindMDMFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Wafer_1", "a.mdm"))
	touch(t, filepath.Join(root, "Wafer_1", "sub", "b.MDM"))
	touch(t, filepath.Join(root, "Wafer_1", "notes.txt"))
	touch(t, filepath.Join(root, "Report", "stale.mdm"))

	files, err := discover.FindMDMFiles(root)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want 2 entries", files)
	}
	for _, f := range files {
		if strings.Contains(f, "Report") {
			t.Errorf("report folder not excluded: %s", f)
		}
	}
}

func TestOutputPathMirrorsLotLayout(t *testing.T) {
	lot := t.TempDir()
	report := filepath.Join(lot, "Report")
	mdm := filepath.Join(lot, "Wafer_1", "T27", "meas.mdm")

	out, err := discover.OutputPath(mdm, lot, report)
	if err != nil {
		t.Fatalf("output path: %v", err)
	}
	want := filepath.Join(report, "Wafer_1", "T27", "meas.html")
	if out != want {
		t.Errorf("out = %s, want %s", out, want)
	}
	if info, err := os.Stat(filepath.Dir(out)); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestOrganize(t *testing.T) {
	lot := t.TempDir()
	deep := filepath.Join(lot, "Wafer_1", "T27", "WholeDie", "N", "X0-Y0", "idvg~nmos", "sweep.mdm")
	shallow := filepath.Join(lot, "Wafer_1", "loose.mdm")

	tree := discover.Organize([]string{deep, shallow}, lot)
	files := tree["Wafer_1"]["T27"]["X0-Y0"]["idvg~nmos"]
	if len(files) != 1 || files[0] != deep {
		t.Errorf("tree = %+v", tree)
	}
	// Files above the conventional depth are navigable only via their pages.
	if len(tree["Wafer_1"]) != 1 {
		t.Errorf("shallow file should not create tree entries: %+v", tree["Wafer_1"])
	}
}

func TestLotFolder(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "WPro.csv")

	if got := discover.LotFolder(csv, "LOT42"); got != dir {
		t.Errorf("no sibling: got %s, want csv dir %s", got, dir)
	}

	sibling := filepath.Join(dir, "LOT42")
	if err := os.Mkdir(sibling, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got := discover.LotFolder(csv, "LOT42"); got != sibling {
		t.Errorf("sibling present: got %s, want %s", got, sibling)
	}

	nested := filepath.Join(sibling, "WPro.csv")
	if got := discover.LotFolder(nested, "LOT42"); got != sibling {
		t.Errorf("csv inside lot dir: got %s, want %s", got, sibling)
	}
}
