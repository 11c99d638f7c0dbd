// Package report renders the parsed measurement data into static HTML
// artifacts: one viewer page per MDM file and an index page per lot.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/waferlab/mdmreport/internal/mdm"
	"github.com/waferlab/mdmreport/internal/utils"
)

type metaItem struct {
	Key   string
	Value string
}

// Metadata keys shown on a viewer page, in display order.
var viewerMetaKeys = []string{
	"Date", "Lot", "Wafer", "Die", "Subsite", "DeviceName",
	"DevTechno", "DevPolarity", "Setup", "W", "L", "Temperature",
}

type viewerData struct {
	Title      string
	PlotlyURL  string
	DataType   string
	Inputs     []mdm.InputVariable
	Outputs    []mdm.OutputVariable
	Metadata   []metaItem
	BlockCount int
	Payload    template.JS
}

// RenderViewer renders the interactive page for one parsed MDM file.
// A file with no data blocks cannot be rendered.
func RenderViewer(f *mdm.File, plotlyURL string) ([]byte, error) {
	if len(f.Blocks) == 0 {
		return nil, errors.New("no data blocks found in MDM file")
	}
	inputs := f.Header.Inputs()

	payload := f.Export()
	payload["dataType"] = f.Header.DataType()
	inputOrder := make([]string, len(inputs))
	for i, in := range inputs {
		inputOrder[i] = in.Name
	}
	payload["inputOrder"] = inputOrder

	js, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal viewer payload: %w", err)
	}

	data := viewerData{
		Title:      f.Name,
		PlotlyURL:  plotlyURL,
		DataType:   f.Header.DataType(),
		Inputs:     inputs,
		Outputs:    f.Header.Outputs(),
		BlockCount: len(f.Blocks),
		Payload:    template.JS(js),
	}
	for _, key := range viewerMetaKeys {
		if v, ok := f.Header.Values[key]; ok && v != "" {
			data.Metadata = append(data.Metadata, metaItem{Key: key, Value: v})
		}
	}

	var buf bytes.Buffer
	if err := viewerTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render viewer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteViewer renders the viewer page and writes it atomically.
func WriteViewer(f *mdm.File, path, plotlyURL string) error {
	b, err := RenderViewer(f, plotlyURL)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}
