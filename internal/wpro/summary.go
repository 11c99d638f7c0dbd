package wpro

import (
	"sort"
	"strconv"
)

// WaferSummary aggregates what the index page shows per wafer.
type WaferSummary struct {
	Wafer        string
	DieCount     int
	Temperatures []string
	Blocks       []string
	Subsites     []string
}

// TemperatureCount is the number of distinct dies measured at one
// temperature.
type TemperatureCount struct {
	Temperature string
	DieCount    int
}

// WaferSummaries returns one summary per wafer, wafers in first-encountered
// order and temperatures sorted.
func (t *Table) WaferSummaries() []WaferSummary {
	var out []WaferSummary
	for _, wafer := range t.Wafers() {
		dies := make(map[string]struct{})
		temps := make(map[string]struct{})
		blocks := make(map[string]struct{})
		var blockOrder []string
		subsites := make(map[string]struct{})
		var subsiteOrder []string
		for i := 0; i < t.Len(); i++ {
			if t.Get(i, ColWafer) != wafer {
				continue
			}
			dies[t.Get(i, ColDie)] = struct{}{}
			temps[t.Get(i, ColTemperature)] = struct{}{}
			if b := t.Get(i, ColBlock); b != "" {
				if _, ok := blocks[b]; !ok {
					blocks[b] = struct{}{}
					blockOrder = append(blockOrder, b)
				}
			}
			if s := t.Get(i, ColSubsite); s != "" {
				if _, ok := subsites[s]; !ok {
					subsites[s] = struct{}{}
					subsiteOrder = append(subsiteOrder, s)
				}
			}
		}
		tempList := make([]string, 0, len(temps))
		for temp := range temps {
			tempList = append(tempList, temp)
		}
		SortValues(tempList)
		out = append(out, WaferSummary{
			Wafer:        wafer,
			DieCount:     len(dies),
			Temperatures: tempList,
			Blocks:       blockOrder,
			Subsites:     subsiteOrder,
		})
	}
	return out
}

// DiesPerTemperature returns distinct-die counts keyed by temperature,
// temperatures sorted.
func (t *Table) DiesPerTemperature() []TemperatureCount {
	byTemp := make(map[string]map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		temp := t.Get(i, ColTemperature)
		if byTemp[temp] == nil {
			byTemp[temp] = make(map[string]struct{})
		}
		byTemp[temp][t.Get(i, ColDie)] = struct{}{}
	}
	temps := make([]string, 0, len(byTemp))
	for temp := range byTemp {
		temps = append(temps, temp)
	}
	SortValues(temps)
	out := make([]TemperatureCount, len(temps))
	for i, temp := range temps {
		out[i] = TemperatureCount{Temperature: temp, DieCount: len(byTemp[temp])}
	}
	return out
}

// SortValues sorts in place, numerically when every value parses as a
// number, lexically otherwise.
func SortValues(vals []string) {
	numeric := true
	for _, v := range vals {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		sort.Slice(vals, func(i, j int) bool {
			a, _ := strconv.ParseFloat(vals[i], 64)
			b, _ := strconv.ParseFloat(vals[j], 64)
			return a < b
		})
		return
	}
	sort.Strings(vals)
}
