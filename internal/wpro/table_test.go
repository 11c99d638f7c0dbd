package wpro_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/waferlab/mdmreport/internal/wpro"
)

const sampleCSV = `*,HEADER_START
*,Lot,LOT42
*,Operator,jdoe
*,Start Meas Condition Description
*,Instrument,Range
*,SMU1,1A
*,End Meas Condition Description
*,HEADER_END
Wafer,Die,Temperature (C),Block,Subsite,Name,$,Vth,Idsat,ResultRead,Extra
W1,X0-Y0,25,B1,S1,nmos_10x1,,0.45,0.0012,ok,x
W1,X1-Y0,25,B1,S1,nmos_10x1,,0.47,0.0013,ok,x
W1,X0-Y0,85,B1,S1,nmos_10x1,,0.41,,ok,x
W2,X0-Y0,25,B1,S2,pmos_10x1,,-0.52,0.0008,ok,x
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "WPro.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadSkipsPreamble(t *testing.T) {
	table, err := wpro.Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("rows = %d, want 4", table.Len())
	}
	if table.Columns[0] != "Wafer" {
		t.Errorf("first column = %q, want Wafer", table.Columns[0])
	}
	if got := table.Get(0, "Name"); got != "nmos_10x1" {
		t.Errorf("Name[0] = %q", got)
	}
}

func TestAllCommentsIsFormatError(t *testing.T) {
	_, err := wpro.Parse([]byte("*,only\n*,comments"))
	if err == nil {
		t.Fatal("expected format error for all-comment file")
	}
}

func TestResultColumnsSentinelSlicing(t *testing.T) {
	table, err := wpro.Parse([]byte("A,$,B,C,ResultRead,D\n1,2,3,4,5,6\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := table.ResultColumns()
	if !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("result columns = %v, want [B C]", got)
	}
}

func TestResultColumnsMissingSentinel(t *testing.T) {
	for _, header := range []string{"A,B,C,ResultRead", "A,$,B,C", "A,B,C"} {
		table, err := wpro.Parse([]byte(header + "\n1,2,3,4\n"))
		if err != nil {
			t.Fatalf("parse %q: %v", header, err)
		}
		if got := table.ResultColumns(); len(got) != 0 {
			t.Errorf("header %q: result columns = %v, want none", header, got)
		}
	}
}

func TestUniqueFirstEncounteredOrder(t *testing.T) {
	table, err := wpro.Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := table.Wafers(); !reflect.DeepEqual(got, []string{"W1", "W2"}) {
		t.Errorf("wafers = %v", got)
	}
	if got := table.Dies(); !reflect.DeepEqual(got, []string{"X0-Y0", "X1-Y0"}) {
		t.Errorf("dies = %v", got)
	}
	if got := table.Temperatures(); !reflect.DeepEqual(got, []string{"25", "85"}) {
		t.Errorf("temperatures = %v", got)
	}
}

func TestWaferSummaries(t *testing.T) {
	table, err := wpro.Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sums := table.WaferSummaries()
	if len(sums) != 2 {
		t.Fatalf("summaries = %d, want 2", len(sums))
	}
	w1 := sums[0]
	if w1.Wafer != "W1" || w1.DieCount != 2 {
		t.Errorf("W1 summary = %+v", w1)
	}
	if !reflect.DeepEqual(w1.Temperatures, []string{"25", "85"}) {
		t.Errorf("W1 temperatures = %v", w1.Temperatures)
	}
}

func TestDiesPerTemperature(t *testing.T) {
	table, err := wpro.Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	counts := table.DiesPerTemperature()
	if len(counts) != 2 {
		t.Fatalf("counts = %+v", counts)
	}
	if counts[0].Temperature != "25" || counts[0].DieCount != 2 {
		t.Errorf("25C count = %+v", counts[0])
	}
	if counts[1].Temperature != "85" || counts[1].DieCount != 1 {
		t.Errorf("85C count = %+v", counts[1])
	}
}

func TestParsePreamble(t *testing.T) {
	p := wpro.ParsePreamble([]byte(sampleCSV))
	if p.Lot() != "LOT42" {
		t.Errorf("lot = %q, want LOT42", p.Lot())
	}
	if got := p.Header["Operator"]; got != "jdoe" {
		t.Errorf("Operator = %q", got)
	}
	if _, ok := p.Header["HEADER_START"]; ok {
		t.Error("HEADER_START marker should not become a header entry")
	}
	if got := p.MeasConditions["Instrument"]; got != "SMU1" {
		t.Errorf("Instrument = %q, want SMU1", got)
	}
	if got := p.MeasConditions["Range"]; got != "1A" {
		t.Errorf("Range = %q, want 1A", got)
	}
}

func TestPreambleLotDefault(t *testing.T) {
	p := wpro.ParsePreamble([]byte("*,NoLotHere,1\nWafer\nW1\n"))
	if p.Lot() != "Unknown" {
		t.Errorf("lot = %q, want Unknown", p.Lot())
	}
}

func TestSortValuesNumericAware(t *testing.T) {
	vals := []string{"85", "25", "-40"}
	wpro.SortValues(vals)
	if !reflect.DeepEqual(vals, []string{"-40", "25", "85"}) {
		t.Errorf("numeric sort = %v", vals)
	}
	mixed := []string{"T85", "T25", "T-40"}
	wpro.SortValues(mixed)
	if !reflect.DeepEqual(mixed, []string{"T-40", "T25", "T85"}) {
		t.Errorf("lexical sort = %v", mixed)
	}
}
