package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/mwiater/signalcmp/internal/util"
)

// DashboardFile is the default name of the HTML dashboard.
const DashboardFile = "dashboard.html"

type dashboardView struct {
	Title        string
	AnalysisJSON template.JS
}

// GenerateDashboard renders a standalone HTML dashboard around an analysis
// document. The document must marshal to an object with "summary",
// "scoreboard", "matrix" and "timeSeries" keys; absent keys leave their
// panel empty.
func GenerateDashboard(title string, analysis any) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal dashboard payload: %w", err)
	}
	view := dashboardView{
		Title:        title,
		AnalysisJSON: template.JS(payload),
	}
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}
	return util.WriteFile(path, data)
}

// WriteDashboard renders and writes the dashboard to path.
func WriteDashboard(path, title string, analysis any) error {
	html, err := GenerateDashboard(title, analysis)
	if err != nil {
		return fmt.Errorf("failed generating HTML dashboard: %w", err)
	}
	return util.WriteFile(path, []byte(html))
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardTemplateHTML))

const dashboardTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --ml: #2E86AB;
      --static: #F24236;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body { background-color: var(--light); color: var(--text); }
    .navbar-dark { background-color: var(--primary) !important; }
    .card { border: 1px solid var(--border); background-color: var(--background); }
    .chart-card {
      background: var(--background);
      border-radius: 16px;
      padding: 1.5rem;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
      border: 1px solid var(--border);
    }
    .chart-title { font-size: 1.25rem; font-weight: 700; margin-bottom: 1rem; }
    .chart-canvas { position: relative; height: 360px; }
    td.better { font-weight: 600; color: #047857; }
    td.worse { font-weight: 600; color: #B91C1C; }
    td.heat { text-align: center; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark mb-4">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light" id="winner"></span>
    </div>
  </nav>
  <div class="container-fluid">
    <div class="row g-4">
      <div class="col-lg-6">
        <div class="chart-card">
          <div class="chart-title">Summary</div>
          <table class="table table-bordered table-sm" id="summaryTable">
            <thead><tr><th>Metric</th><th>ML_Mean</th><th>Static_Mean</th><th>ML_Std</th><th>Static_Std</th><th>Improvement_%</th></tr></thead>
            <tbody></tbody>
          </table>
          <ul class="list-unstyled small text-muted" id="warnings"></ul>
        </div>
      </div>
      <div class="col-lg-6">
        <div class="chart-card">
          <div class="chart-title">Episode Performance Comparison</div>
          <div class="chart-canvas"><canvas id="meansChart"></canvas></div>
        </div>
      </div>
      <div class="col-12" id="timeSeriesPanels"></div>
      <div class="col-12">
        <div class="chart-card">
          <div class="chart-title">Normalized Performance Matrix</div>
          <table class="table table-bordered table-sm" id="matrixTable">
            <thead><tr><th>Metric</th><th>ML Agent</th><th>Static Controller</th></tr></thead>
            <tbody></tbody>
          </table>
        </div>
      </div>
    </div>
  </div>

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var analysis = {{ .AnalysisJSON }};
  </script>
  <script>
    (function() {
      var ML = '#2E86AB';
      var STATIC = '#F24236';

      function formatNumber(value, decimals) {
        if (value === null || value === undefined || isNaN(value)) {
          return 'N/A';
        }
        return Number(value).toFixed(decimals);
      }

      function cell(text, cls) {
        var td = document.createElement('td');
        td.textContent = text;
        if (cls) { td.className = cls; }
        return td;
      }

      var summary = (analysis.summary && analysis.summary.rows) || [];
      var body = document.querySelector('#summaryTable tbody');
      summary.forEach(function(row) {
        var tr = document.createElement('tr');
        var imp = row.improvementPct;
        var cls = imp === null || imp === undefined ? '' : (imp > 0 ? 'better' : 'worse');
        tr.appendChild(cell(row.metric));
        tr.appendChild(cell(formatNumber(row.mlMean, 2)));
        tr.appendChild(cell(formatNumber(row.staticMean, 2)));
        tr.appendChild(cell(formatNumber(row.mlStd, 2)));
        tr.appendChild(cell(formatNumber(row.staticStd, 2)));
        tr.appendChild(cell(imp === null || imp === undefined ? 'N/A' : formatNumber(imp, 2) + '%', cls));
        body.appendChild(tr);
      });

      var warnings = (analysis.summary && analysis.summary.warnings) || [];
      var list = document.getElementById('warnings');
      warnings.forEach(function(w) {
        var li = document.createElement('li');
        li.textContent = (w.scope ? w.scope + ': ' : '') + w.message;
        list.appendChild(li);
      });

      if (analysis.scoreboard) {
        var sb = analysis.scoreboard;
        document.getElementById('winner').textContent =
          'ML better: ' + sb.primaryWins + ' | Static better: ' + sb.baselineWins;
      }

      new Chart(document.getElementById('meansChart'), {
        type: 'bar',
        data: {
          labels: summary.map(function(r) { return r.metric; }),
          datasets: [
            { label: 'ML Agent', data: summary.map(function(r) { return r.mlMean; }), backgroundColor: ML },
            { label: 'Static Controller', data: summary.map(function(r) { return r.staticMean; }), backgroundColor: STATIC }
          ]
        },
        options: { responsive: true, maintainAspectRatio: false, animation: false }
      });

      var panels = document.getElementById('timeSeriesPanels');
      (analysis.timeSeries || []).forEach(function(ts, idx) {
        var card = document.createElement('div');
        card.className = 'chart-card mb-4';
        card.innerHTML = '<div class="chart-title"></div><div class="chart-canvas"><canvas></canvas></div>';
        card.querySelector('.chart-title').textContent = ts.metric + ' Over Time';
        panels.appendChild(card);
        var datasets = [];
        if (ts.primary) {
          datasets.push({ label: 'ML Agent', data: ts.primary, borderColor: ML, pointRadius: 0, borderWidth: 2 });
        }
        if (ts.baseline) {
          datasets.push({ label: 'Static Controller', data: ts.baseline, borderColor: STATIC, pointRadius: 0, borderWidth: 2 });
        }
        new Chart(card.querySelector('canvas'), {
          type: 'line',
          data: { datasets: datasets },
          options: {
            responsive: true,
            maintainAspectRatio: false,
            animation: false,
            parsing: { xAxisKey: 'x', yAxisKey: 'y' },
            scales: { x: { type: 'linear', title: { display: true, text: 'Simulation Time (s)' } } }
          }
        });
      });

      var matrix = document.querySelector('#matrixTable tbody');
      (analysis.matrix || []).forEach(function(m) {
        var tr = document.createElement('tr');
        tr.appendChild(cell(m.metric));
        [m.primary, m.baseline].forEach(function(v) {
          var td = cell(formatNumber(v, 2), 'heat');
          if (v !== null && v !== undefined) {
            td.style.backgroundColor = 'rgba(242, 66, 54, ' + (0.15 + 0.6 * v) + ')';
          }
          tr.appendChild(td);
        });
        matrix.appendChild(tr);
      });
    })();
  </script>
</body>
</html>
`
