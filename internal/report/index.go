package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/waferlab/mdmreport/internal/discover"
	"github.com/waferlab/mdmreport/internal/stats"
	"github.com/waferlab/mdmreport/internal/utils"
	"github.com/waferlab/mdmreport/internal/wpro"
)

// IndexInput is everything the lot index page is built from. All of it is
// already-computed plain data; the renderer formats without re-deriving.
type IndexInput struct {
	Source     string
	Preamble   *wpro.Preamble
	Table      *wpro.Table
	ResultCols []string
	Flat       map[string]stats.ParameterStats
	Pivot      *stats.PivotTable
	Tree       discover.Tree
	Pages      map[string]string // mdm path -> generated html path
	ReportRoot string
	MDMCount   int
	RunID      string
	PlotlyURL  string
}

type statRow struct {
	Parameter string
	Count     int
	Mean      string
	Std       string
	Min       string
	Max       string
	Median    string
	CV        string
}

type pivotDisplayRow struct {
	Wafer       string
	Temperature string
	Device      string
	Parameter   string
	Cells       []string
	Min         string
	Max         string
	Average     string
	Median      string
	StdDev      string
}

type navFile struct {
	Label string
	Href  string
}

type navGroup struct {
	Name  string
	Files []navFile
}

type navDie struct {
	Name   string
	Groups []navGroup
}

type navTemp struct {
	Name string
	Dies []navDie
}

type navWafer struct {
	Name  string
	Temps []navTemp
}

type indexData struct {
	Lot            string
	Source         string
	GeneratedAt    string
	RunID          string
	PlotlyURL      string
	HeaderInfo     []metaItem
	MeasConditions []metaItem
	Wafers         []wpro.WaferSummary
	TempCounts     []wpro.TemperatureCount
	TotalDies      int
	MDMCount       int
	PageCount      int
	Stats          []statRow
	Dies           []string
	PivotRows      []pivotDisplayRow
	Nav            []navWafer
	MapPayload     template.JS
}

// RenderIndex renders the lot index page: stat cards, parameter statistics,
// the cross-die pivot table, the wafer-map view and the navigation tree over
// the generated viewer pages.
func RenderIndex(in IndexInput) ([]byte, error) {
	data := indexData{
		Lot:         in.Preamble.Lot(),
		Source:      filepath.Base(in.Source),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		RunID:       in.RunID,
		PlotlyURL:   in.PlotlyURL,
		Wafers:      in.Table.WaferSummaries(),
		TempCounts:  in.Table.DiesPerTemperature(),
		TotalDies:   len(in.Table.Dies()),
		MDMCount:    in.MDMCount,
		PageCount:   len(in.Pages),
		Dies:        in.Pivot.Dies,
	}
	data.HeaderInfo = sortedItems(in.Preamble.Header)
	data.MeasConditions = sortedItems(in.Preamble.MeasConditions)

	for _, col := range in.ResultCols {
		s, ok := in.Flat[col]
		if !ok {
			continue
		}
		data.Stats = append(data.Stats, statRow{
			Parameter: col,
			Count:     s.Count,
			Mean:      FormatNumber(s.Mean),
			Std:       FormatNumber(s.Std),
			Min:       FormatNumber(s.Min),
			Max:       FormatNumber(s.Max),
			Median:    FormatNumber(s.Median),
			CV:        fmt.Sprintf("%.2f", s.CV),
		})
	}

	for _, pr := range in.Pivot.Rows {
		row := pivotDisplayRow{
			Wafer:       pr.Wafer,
			Temperature: pr.Temperature,
			Device:      pr.Device,
			Parameter:   pr.Parameter,
			Min:         noValue,
			Max:         noValue,
			Average:     noValue,
			Median:      noValue,
			StdDev:      noValue,
		}
		for _, die := range in.Pivot.Dies {
			v, ok := pr.Values[die]
			if !ok {
				row.Cells = append(row.Cells, noValue)
				continue
			}
			if num, numeric := stats.Coerce(v); numeric {
				row.Cells = append(row.Cells, FormatNumber(num))
			} else {
				row.Cells = append(row.Cells, v)
			}
		}
		if pr.Stats != nil {
			row.Min = FormatNumber(pr.Stats.Min)
			row.Max = FormatNumber(pr.Stats.Max)
			row.Average = FormatNumber(pr.Stats.Average)
			row.Median = FormatNumber(pr.Stats.Median)
			row.StdDev = FormatNumber(pr.Stats.StdDev)
		}
		data.PivotRows = append(data.PivotRows, row)
	}

	nav, err := buildNav(in.Tree, in.Pages, in.ReportRoot)
	if err != nil {
		return nil, err
	}
	data.Nav = nav

	payload, err := waferMapPayload(in.Pivot)
	if err != nil {
		return nil, err
	}
	data.MapPayload = payload

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteIndex renders the index page and writes it atomically.
func WriteIndex(in IndexInput, path string) error {
	b, err := RenderIndex(in)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}

func sortedItems(m map[string]string) []metaItem {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]metaItem, len(keys))
	for i, k := range keys {
		items[i] = metaItem{Key: k, Value: m[k]}
	}
	return items
}

// buildNav flattens the discovery tree into sorted navigation entries with
// hrefs relative to the report folder. Files without a generated page (a
// parse failure, for instance) are left out.
func buildNav(tree discover.Tree, pages map[string]string, reportRoot string) ([]navWafer, error) {
	var nav []navWafer
	for _, wafer := range sortedKeys(tree) {
		nw := navWafer{Name: wafer}
		for _, temp := range sortedKeys(tree[wafer]) {
			nt := navTemp{Name: temp}
			for _, die := range sortedKeys(tree[wafer][temp]) {
				nd := navDie{Name: die}
				for _, group := range sortedKeys(tree[wafer][temp][die]) {
					ng := navGroup{Name: shortGroupName(group)}
					files := append([]string(nil), tree[wafer][temp][die][group]...)
					sort.Slice(files, func(i, j int) bool {
						return filepath.Base(files[i]) < filepath.Base(files[j])
					})
					for _, f := range files {
						page, ok := pages[f]
						if !ok {
							continue
						}
						rel, err := filepath.Rel(reportRoot, page)
						if err != nil {
							return nil, fmt.Errorf("relativize page %s: %w", page, err)
						}
						label := strings.TrimSuffix(filepath.Base(page), filepath.Ext(page))
						ng.Files = append(ng.Files, navFile{Label: label, Href: filepath.ToSlash(rel)})
					}
					if len(ng.Files) > 0 {
						nd.Groups = append(nd.Groups, ng)
					}
				}
				if len(nd.Groups) > 0 {
					nt.Dies = append(nt.Dies, nd)
				}
			}
			if len(nt.Dies) > 0 {
				nw.Temps = append(nw.Temps, nt)
			}
		}
		if len(nw.Temps) > 0 {
			nav = append(nav, nw)
		}
	}
	return nav, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// shortGroupName trims the measurement-group prefix up to the last `~`.
func shortGroupName(group string) string {
	if i := strings.LastIndex(group, "~"); i >= 0 {
		return group[i+1:]
	}
	return group
}

// waferMapPayload serializes the pivot numerically for the wafer-map view:
// one entry per pivot row with the coercible die values only.
func waferMapPayload(pivot *stats.PivotTable) (template.JS, error) {
	type mapRow struct {
		Wafer       string             `json:"wafer"`
		Temperature string             `json:"temperature"`
		Device      string             `json:"device"`
		Parameter   string             `json:"parameter"`
		Values      map[string]float64 `json:"values"`
	}
	payload := struct {
		Dies []string `json:"dies"`
		Rows []mapRow `json:"rows"`
	}{Dies: pivot.Dies}
	for _, pr := range pivot.Rows {
		row := mapRow{
			Wafer:       pr.Wafer,
			Temperature: pr.Temperature,
			Device:      pr.Device,
			Parameter:   pr.Parameter,
			Values:      make(map[string]float64),
		}
		for die, v := range pr.Values {
			if num, ok := stats.Coerce(v); ok {
				row.Values[die] = num
			}
		}
		payload.Rows = append(payload.Rows, row)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal wafer map payload: %w", err)
	}
	return template.JS(b), nil
}
