package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureCSV = `*,HEADER_START
*,Lot,LOT42
*,HEADER_END
Wafer,Die,Temperature (C),Block,Subsite,Name,$,Vth,ResultRead
Wafer_1,X0-Y0,25,B1,S1,nmos,,0.45,ok
Wafer_1,X1-Y0,25,B1,S1,nmos,,0.47,ok
`

const fixtureMDM = `BEGIN_HEADER
 ICCAP_INPUTS
 VDS V D GROUND SMU1 0.1 LIN 1 0 1.2 13 0.1
 ICCAP_OUTPUTS
 ID I D GROUND SMU1 B
 ICCAP_VALUES
 Lot "LOT42"
 Wafer "Wafer_1"
END_HEADER

BEGIN_DB
ICCAP_VAR TEMP 25
#VDS ID
0 0.0
0.1 1.2e-6
END_DB
`

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "WPro.csv")
	if err := os.WriteFile(csvPath, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mdmPath := filepath.Join(dir, "Wafer_1", "T25", "WholeDie", "N", "X0-Y0", "idvd~nmos", "sweep.mdm")
	if err := os.MkdirAll(filepath.Dir(mdmPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(mdmPath, []byte(fixtureMDM), 0o644); err != nil {
		t.Fatalf("write mdm: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"report", csvPath, "--no-open", "--lot-dir", dir, "--out", outDir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("report command: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("index page not written: %v", err)
	}
	if !strings.Contains(string(index), "LOT42") {
		t.Error("index page missing lot name")
	}
	viewer := filepath.Join(outDir, "Wafer_1", "T25", "WholeDie", "N", "X0-Y0", "idvd~nmos", "sweep.html")
	if _, err := os.Stat(viewer); err != nil {
		t.Errorf("viewer page not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "report.json")); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "WPro.csv")
	if err := os.WriteFile(csvPath, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	outPath := filepath.Join(dir, "stats.txt")

	rootCmd.SetArgs([]string{"stats", csvPath, "--pivot", "--output", outPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("stats command: %v", err)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("stats output not written: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "Vth") || !strings.Contains(out, "[PIVOT]") {
		t.Errorf("unexpected stats output:\n%s", out)
	}
}
