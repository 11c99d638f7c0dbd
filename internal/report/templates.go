package report

import "html/template"

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerTemplate))

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

const viewerTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
<style>
:root {
  --bg-primary: #ffffff;
  --bg-secondary: #fafafa;
  --border-color: #eeeeee;
  --text-primary: #333333;
  --text-secondary: #666666;
  --accent-blue: #0066cc;
  --font-family: 'Inter', 'Segoe UI', system-ui, sans-serif;
}
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: var(--font-family); background: var(--bg-primary); color: var(--text-primary); padding: 24px; }
h1 { font-size: 1.3rem; margin-bottom: 12px; }
h2 { font-size: 1.05rem; margin: 20px 0 8px; color: var(--text-secondary); }
.metadata-grid { display: flex; flex-wrap: wrap; gap: 8px 24px; background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 6px; padding: 12px; }
.metadata-item .label { color: var(--text-secondary); margin-right: 4px; }
table { border-collapse: collapse; width: 100%; font-size: 0.85rem; }
th, td { border: 1px solid var(--border-color); padding: 4px 8px; text-align: left; white-space: nowrap; }
th { background: var(--bg-secondary); position: sticky; top: 0; }
.controls { display: flex; gap: 16px; align-items: center; margin: 8px 0; }
.controls select { padding: 4px; }
.table-wrap { max-height: 420px; overflow: auto; border: 1px solid var(--border-color); }
#plot { width: 100%; height: 520px; }
button { padding: 4px 10px; cursor: pointer; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="metadata-grid">
{{range .Metadata}}  <div class="metadata-item"><span class="label">{{.Key}}:</span><span>{{.Value}}</span></div>
{{end}}</div>

<h2>Inputs</h2>
<table>
<thead><tr><th>Name</th><th>Unit</th><th>Node</th><th>SMU</th><th>Sweep</th><th>Details</th></tr></thead>
<tbody>
{{range .Inputs}}<tr><td>{{.Name}}</td><td>{{.Unit}}</td><td>{{.Terminal}}</td><td>{{.Source}}</td><td>{{.SweepLabel}}</td><td>{{.SweepDesc}}</td></tr>
{{end}}</tbody>
</table>

<h2>Outputs</h2>
<table>
<thead><tr><th>Name</th><th>Unit</th><th>Node</th><th>Source</th><th>Type</th></tr></thead>
<tbody>
{{range .Outputs}}<tr><td>{{.Name}}</td><td>{{.Unit}}</td><td>{{.Terminal}}</td><td>{{.Source}}</td><td>{{if .Type}}{{.Type}}{{else}}&mdash;{{end}}</td></tr>
{{end}}</tbody>
</table>

<h2>Graph</h2>
<div class="controls">
  <label id="x-label">X: <select id="x-select"></select></label>
  <label id="y-label">Y: <select id="y-select"></select></label>
  <button onclick="savePlot()">Save PNG</button>
</div>
<div id="plot"></div>

<h2>Measurement Data</h2>
<div class="controls">
  <label>Block: <select id="block-select"><option value="all">All ({{.BlockCount}})</option></select></label>
</div>
<div class="table-wrap">
<table>
<thead id="table-head"></thead>
<tbody id="table-body"></tbody>
</table>
</div>

<script>
const MDM = {{.Payload}};

function sweepRank(name) {
  const i = MDM.inputOrder.indexOf(name);
  return i === -1 ? Number.MAX_SAFE_INTEGER : i;
}

function orderedColumns(block) {
  const all = [...Object.keys(block.vars), ...block.columns];
  const inputs = all.filter(c => MDM.inputOrder.includes(c));
  const outputs = all.filter(c => !MDM.inputOrder.includes(c));
  inputs.sort((a, b) => sweepRank(a) - sweepRank(b));
  return [...inputs, ...outputs];
}

function formatNumber(num) {
  if (num === 0) return '0';
  const abs = Math.abs(num);
  if (abs < 1e-12 || abs >= 1e6) return num.toExponential(6);
  return num.toPrecision(6);
}

function blockLabel(block) {
  const vars = Object.entries(block.vars).map(([k, v]) => k + '=' + formatNumber(v));
  return 'DB' + block.index + (vars.length ? ' (' + vars.join(', ') + ')' : '');
}

// S-parameter columns come in R:name / I:name pairs holding the real and
// imaginary parts of the reflection coefficient.
function sParamNames() {
  const cols = MDM.blocks[0].columns;
  const names = new Set();
  cols.forEach(c => {
    const m = c.match(/^[RI]:(.+)$/);
    if (m) names.add(m[1]);
  });
  return [...names].filter(n => cols.includes('R:' + n) && cols.includes('I:' + n));
}

const smithParams = MDM.dataType === 'S_data' ? sParamNames() : [];

function setupControls() {
  const cols = MDM.blocks[0].columns;
  const xSel = document.getElementById('x-select');
  const ySel = document.getElementById('y-select');
  if (smithParams.length) {
    document.getElementById('x-label').style.display = 'none';
    smithParams.forEach(n => ySel.add(new Option(n, n)));
    ySel.value = smithParams[0];
  } else {
    cols.forEach(c => {
      xSel.add(new Option(c, c));
      ySel.add(new Option(c, c));
    });
    const inputs = cols.filter(c => MDM.inputOrder.includes(c));
    xSel.value = inputs.length ? inputs.sort((a, b) => sweepRank(a) - sweepRank(b))[0] : cols[0];
    const outputs = cols.filter(c => !MDM.inputOrder.includes(c));
    ySel.value = outputs.length ? outputs[0] : cols[cols.length - 1];
  }
  xSel.onchange = updatePlot;
  ySel.onchange = updatePlot;

  const bSel = document.getElementById('block-select');
  MDM.blocks.forEach(b => bSel.add(new Option(blockLabel(b), String(b.index))));
  bSel.onchange = () => updateDataTable(bSel.value);
}

function smithShapes() {
  const shapes = [];
  [0, 0.2, 0.5, 1, 2, 5].forEach(r => {
    const cx = r / (1 + r);
    const rad = 1 / (1 + r);
    shapes.push({
      type: 'circle', xref: 'x', yref: 'y',
      x0: cx - rad, y0: -rad, x1: cx + rad, y1: rad,
      line: { color: '#c0c0c0', width: 1 }
    });
  });
  shapes.push({
    type: 'line', x0: -1, y0: 0, x1: 1, y1: 0,
    line: { color: '#707070', width: 1 }
  });
  return shapes;
}

function drawSmith(name) {
  const traces = MDM.blocks.map(b => ({
    x: b.data.map(r => r['R:' + name]),
    y: b.data.map(r => r['I:' + name]),
    mode: 'lines+markers',
    name: blockLabel(b)
  }));
  const layout = {
    shapes: smithShapes(),
    xaxis: { range: [-1.1, 1.1], zeroline: false, showgrid: false },
    yaxis: { range: [-1.1, 1.1], scaleanchor: 'x', zeroline: false, showgrid: false },
    title: { text: name, font: { size: 13 } },
    margin: { t: 40 }
  };
  Plotly.newPlot('plot', traces, layout, { responsive: true });
}

function updatePlot() {
  const y = document.getElementById('y-select').value;
  if (smithParams.length) {
    drawSmith(y);
    return;
  }
  const x = document.getElementById('x-select').value;
  const traces = MDM.blocks.map(b => ({
    x: b.data.map(r => r[x]),
    y: b.data.map(r => r[y]),
    mode: 'lines+markers',
    name: blockLabel(b)
  }));
  const layout = {
    xaxis: { title: x, type: MDM.dataType === 'S_data' ? 'log' : 'linear' },
    yaxis: { title: y },
    margin: { t: 24 }
  };
  Plotly.newPlot('plot', traces, layout, { responsive: true });
}

function updateDataTable(which) {
  const blocks = which === 'all' ? MDM.blocks : MDM.blocks.filter(b => String(b.index) === which);
  if (blocks.length === 0) return;
  const cols = orderedColumns(blocks[0]);
  document.getElementById('table-head').innerHTML =
    '<tr><th>#</th>' + cols.map(c => '<th>' + c + '</th>') .join('') + '</tr>';
  let n = 1;
  let rows = '';
  blocks.forEach(b => {
    b.data.forEach(r => {
      const cells = cols.map(c => {
        const v = b.vars[c] !== undefined ? b.vars[c] : r[c];
        return '<td>' + formatNumber(v) + '</td>';
      }).join('');
      rows += '<tr><td>' + (n++) + '</td>' + cells + '</tr>';
    });
  });
  document.getElementById('table-body').innerHTML = rows;
}

function savePlot() {
  Plotly.downloadImage('plot', { format: 'png', width: 1200, height: 600, filename: MDM.name });
}

document.addEventListener('DOMContentLoaded', () => {
  setupControls();
  updatePlot();
  updateDataTable('all');
});
</script>
</body>
</html>
`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Lot {{.Lot}} — Measurement Report</title>
<script src="{{.PlotlyURL}}"></script>
<style>
:root {
  --bg-primary: #ffffff;
  --bg-secondary: #fafafa;
  --border-color: #eeeeee;
  --text-primary: #333333;
  --text-secondary: #666666;
  --accent-blue: #0066cc;
  --font-family: 'Inter', 'Segoe UI', system-ui, sans-serif;
}
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: var(--font-family); color: var(--text-primary); display: flex; min-height: 100vh; }
nav { width: 300px; background: var(--bg-secondary); border-right: 1px solid var(--border-color); padding: 16px; overflow-y: auto; }
nav details { margin-left: 8px; }
nav summary { cursor: pointer; padding: 2px 0; color: var(--text-secondary); }
nav a { display: block; margin-left: 20px; padding: 1px 0; font-size: 0.82rem; color: var(--accent-blue); text-decoration: none; }
nav a:hover { text-decoration: underline; }
.nav-label { margin-left: 12px; font-size: 0.78rem; color: var(--text-secondary); }
main { flex: 1; padding: 24px; overflow-x: auto; }
h1 { font-size: 1.4rem; margin-bottom: 4px; }
h2 { font-size: 1.05rem; margin: 24px 0 8px; color: var(--text-secondary); }
.subtitle { color: var(--text-secondary); font-size: 0.85rem; margin-bottom: 16px; }
.cards { display: flex; flex-wrap: wrap; gap: 12px; }
.card { background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 6px; padding: 12px 18px; min-width: 130px; }
.card .num { font-size: 1.4rem; font-weight: 600; }
.card .label { color: var(--text-secondary); font-size: 0.8rem; }
table { border-collapse: collapse; font-size: 0.82rem; }
th, td { border: 1px solid var(--border-color); padding: 4px 8px; text-align: left; white-space: nowrap; }
th { background: var(--bg-secondary); }
.table-wrap { max-height: 480px; overflow: auto; border: 1px solid var(--border-color); }
.controls { display: flex; gap: 16px; align-items: center; margin: 8px 0; }
#wafer-map { width: 640px; height: 520px; }
footer { margin-top: 32px; color: var(--text-secondary); font-size: 0.75rem; }
input[type=text] { padding: 4px 8px; width: 280px; }
</style>
</head>
<body>
<nav>
<h2>MDM Files</h2>
{{range .Nav}}<details open><summary>{{.Name}}</summary>
{{range .Temps}}<details><summary>{{.Name}}</summary>
{{range .Dies}}<details><summary>{{.Name}}</summary>
{{range .Groups}}<div class="nav-label">{{.Name}}</div>
{{range .Files}}<a href="{{.Href}}" target="_blank">{{.Label}}</a>
{{end}}{{end}}</details>
{{end}}</details>
{{end}}</details>
{{end}}</nav>

<main>
<h1>Lot {{.Lot}}</h1>
<div class="subtitle">Source: {{.Source}} · Generated {{.GeneratedAt}}</div>

<div class="cards">
  <div class="card"><div class="num">{{len .Wafers}}</div><div class="label">Wafers</div></div>
  <div class="card"><div class="num">{{.TotalDies}}</div><div class="label">Dies</div></div>
  <div class="card"><div class="num">{{len .TempCounts}}</div><div class="label">Temperatures</div></div>
  <div class="card"><div class="num">{{.MDMCount}}</div><div class="label">MDM Files</div></div>
  <div class="card"><div class="num">{{.PageCount}}</div><div class="label">Viewer Pages</div></div>
</div>

{{if .HeaderInfo}}
<h2>Lot Header</h2>
<table><tbody>
{{range .HeaderInfo}}<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}</tbody></table>
{{end}}

{{if .MeasConditions}}
<h2>Measurement Conditions</h2>
<table><tbody>
{{range .MeasConditions}}<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}</tbody></table>
{{end}}

<h2>Wafer Summary</h2>
<table>
<thead><tr><th>Wafer</th><th>Dies</th><th>Temperatures</th><th>Blocks</th><th>Subsites</th></tr></thead>
<tbody>
{{range .Wafers}}<tr><td>{{.Wafer}}</td><td>{{.DieCount}}</td><td>{{range $i, $t := .Temperatures}}{{if $i}}, {{end}}{{$t}}{{end}}</td><td>{{range $i, $b := .Blocks}}{{if $i}}, {{end}}{{$b}}{{end}}</td><td>{{range $i, $s := .Subsites}}{{if $i}}, {{end}}{{$s}}{{end}}</td></tr>
{{end}}</tbody>
</table>

{{if .Stats}}
<h2>Parameter Statistics</h2>
<div class="table-wrap">
<table>
<thead><tr><th>Parameter</th><th>Count</th><th>Mean</th><th>StdDev</th><th>Min</th><th>Max</th><th>Median</th><th>CV (%)</th></tr></thead>
<tbody>
{{range .Stats}}<tr><td>{{.Parameter}}</td><td>{{.Count}}</td><td>{{.Mean}}</td><td>{{.Std}}</td><td>{{.Min}}</td><td>{{.Max}}</td><td>{{.Median}}</td><td>{{.CV}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{end}}

<h2>Wafer Map</h2>
<div class="controls">
  <label>Row: <select id="map-select"></select></label>
</div>
<div id="wafer-map"></div>

<h2>Measurements</h2>
<div class="controls">
  <input type="text" id="pivot-filter" placeholder="Filter rows (wafer, device, parameter...)">
</div>
<div class="table-wrap">
<table id="pivot-table">
<thead><tr><th>Wafer</th><th>T (&deg;C)</th><th>Device</th><th>Parameter</th>{{range .Dies}}<th>{{.}}</th>{{end}}<th>Min</th><th>Max</th><th>Average</th><th>Median</th><th>StdDev</th></tr></thead>
<tbody>
{{range .PivotRows}}<tr><td>{{.Wafer}}</td><td>{{.Temperature}}</td><td>{{.Device}}</td><td>{{.Parameter}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}<td>{{.Min}}</td><td>{{.Max}}</td><td>{{.Average}}</td><td>{{.Median}}</td><td>{{.StdDev}}</td></tr>
{{end}}</tbody>
</table>
</div>

<footer>Run {{.RunID}}</footer>
</main>

<script>
const WAFER_MAP = {{.MapPayload}};

function dieCoords(die) {
  const m = die.match(/X(-?\d+)-Y(-?\d+)/);
  return m ? { x: parseInt(m[1], 10), y: parseInt(m[2], 10) } : null;
}

function mapRowLabel(r) {
  return [r.wafer, r.temperature + '°C', r.device, r.parameter].join(' | ');
}

function drawWaferMap(idx) {
  const row = WAFER_MAP.rows[idx];
  if (!row) return;
  const xs = [], ys = [], zs = [], labels = [];
  WAFER_MAP.dies.forEach(die => {
    const c = dieCoords(die);
    if (!c || row.values[die] === undefined) return;
    xs.push(c.x);
    ys.push(c.y);
    zs.push(row.values[die]);
    labels.push(die);
  });
  const trace = {
    x: xs, y: ys, text: labels,
    mode: 'markers',
    marker: { size: 26, symbol: 'square', color: zs, colorscale: 'Viridis', showscale: true },
    type: 'scatter',
    hovertemplate: '%{text}: %{marker.color:.4g}<extra></extra>'
  };
  const layout = {
    title: { text: row.parameter, font: { size: 13 } },
    xaxis: { title: 'X', dtick: 1 },
    yaxis: { title: 'Y', dtick: 1, scaleanchor: 'x' },
    margin: { t: 40 }
  };
  Plotly.newPlot('wafer-map', [trace], layout, { responsive: true });
}

function setupWaferMap() {
  const sel = document.getElementById('map-select');
  WAFER_MAP.rows.forEach((r, i) => sel.add(new Option(mapRowLabel(r), String(i))));
  sel.onchange = () => drawWaferMap(parseInt(sel.value, 10));
  if (WAFER_MAP.rows.length) drawWaferMap(0);
}

function setupPivotFilter() {
  const input = document.getElementById('pivot-filter');
  const rows = document.querySelectorAll('#pivot-table tbody tr');
  input.oninput = () => {
    const q = input.value.toLowerCase();
    rows.forEach(tr => {
      tr.style.display = tr.textContent.toLowerCase().includes(q) ? '' : 'none';
    });
  };
}

document.addEventListener('DOMContentLoaded', () => {
  setupWaferMap();
  setupPivotFilter();
});
</script>
</body>
</html>
`
