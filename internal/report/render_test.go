package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waferlab/mdmreport/internal/discover"
	"github.com/waferlab/mdmreport/internal/mdm"
	"github.com/waferlab/mdmreport/internal/report"
	"github.com/waferlab/mdmreport/internal/stats"
	"github.com/waferlab/mdmreport/internal/wpro"
)

const plotlyURL = "https://cdn.plot.ly/plotly-2.27.0.min.js"

const viewerMDM = `! header
BEGIN_HEADER
 ICCAP_INPUTS
 VDS V D GROUND SMU1 0.1 LIN 1 0 1.2 13 0.1
 ICCAP_OUTPUTS
 ID I D GROUND SMU1 B
 ICCAP_VALUES
 Lot "LOT42"
 Wafer "W1"
 Die "X0-Y0"
 Temperature "25"
END_HEADER

BEGIN_DB
ICCAP_VAR TEMP 25
#VDS ID
0 0.0
0.1 1.2e-6
END_DB
`

func parseMDM(t *testing.T) *mdm.File {
	t.Helper()
	f, err := mdm.Parse("idvd.mdm", []byte(viewerMDM))
	if err != nil {
		t.Fatalf("parse mdm: %v", err)
	}
	return f
}

func TestRenderViewer(t *testing.T) {
	html, err := report.RenderViewer(parseMDM(t), plotlyURL)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(html)
	for _, want := range []string{"idvd.mdm", plotlyURL, "LOT42", "X0-Y0", "VDS", "ID"} {
		if !strings.Contains(page, want) {
			t.Errorf("viewer page missing %q", want)
		}
	}
}

func TestRenderViewerNoBlocks(t *testing.T) {
	f, err := mdm.Parse("empty.mdm", []byte("BEGIN_HEADER\nEND_HEADER\n"))
	if err != nil {
		t.Fatalf("parse mdm: %v", err)
	}
	if _, err := report.RenderViewer(f, plotlyURL); err == nil {
		t.Fatal("expected error for file without data blocks")
	}
}

func TestWriteViewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "idvd.html")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := report.WriteViewer(parseMDM(t), path, plotlyURL); err != nil {
		t.Fatalf("write viewer: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(b), "<html") {
		t.Error("written page is not HTML")
	}
}

func indexInput(t *testing.T) report.IndexInput {
	t.Helper()
	csv := "*,Lot,LOT42\n" +
		"Wafer,Die,Temperature (C),Block,Subsite,Name,$,Vth,ResultRead\n" +
		"W1,X0-Y0,25,B1,S1,nmos,,0.45,ok\n" +
		"W1,X1-Y0,25,B1,S1,nmos,,0.47,ok\n"
	table, err := wpro.Parse([]byte(csv))
	if err != nil {
		t.Fatalf("parse table: %v", err)
	}
	resultCols := table.ResultColumns()
	return report.IndexInput{
		Source:     "WPro.csv",
		Preamble:   wpro.ParsePreamble([]byte(csv)),
		Table:      table,
		ResultCols: resultCols,
		Flat:       stats.Flat(table, resultCols),
		Pivot:      stats.Pivot(table, resultCols),
		Tree:       discover.Tree{},
		Pages:      map[string]string{},
		ReportRoot: t.TempDir(),
		MDMCount:   0,
		RunID:      "test-run",
		PlotlyURL:  plotlyURL,
	}
}

func TestRenderIndex(t *testing.T) {
	html, err := report.RenderIndex(indexInput(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(html)
	for _, want := range []string{"LOT42", "Vth", "X0-Y0", "X1-Y0", "test-run"} {
		if !strings.Contains(page, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestRenderIndexNavLinks(t *testing.T) {
	in := indexInput(t)
	mdmPath := filepath.Join("lot", "W1", "T25", "WholeDie", "N", "X0-Y0", "idvg~nmos", "sweep.mdm")
	in.Tree = discover.Organize([]string{mdmPath}, "lot")
	in.Pages = map[string]string{
		mdmPath: filepath.Join(in.ReportRoot, "W1", "T25", "sweep.html"),
	}
	html, err := report.RenderIndex(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "W1/T25/sweep.html") {
		t.Error("nav link not relative to report root with forward slashes")
	}
}

func TestManifestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	m := report.NewManifest("WPro.csv", "LOT42")
	m.MDMFiles = 3
	m.Pages = []string{"a.html"}
	if m.RunID == "" {
		t.Fatal("manifest has no run id")
	}
	if err := m.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got report.Manifest
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Lot != "LOT42" || got.MDMFiles != 3 || got.RunID != m.RunID {
		t.Errorf("manifest round trip = %+v", got)
	}
}

func TestWriteWorkbook(t *testing.T) {
	in := indexInput(t)
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	if err := report.WriteWorkbook(path, in.ResultCols, in.Flat, in.Pivot); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat workbook: %v", err)
	}
	if info.Size() == 0 {
		t.Error("workbook file is empty")
	}
}
