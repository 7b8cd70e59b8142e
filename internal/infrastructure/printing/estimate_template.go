package printing

const defaultEstimateTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Estimate - {{.Project.Name}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #222; }
  header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 24px; }
  header img { max-height: 64px; max-width: 200px; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  h2 { font-size: 14px; margin: 20px 0 6px; border-bottom: 1px solid #ccc; padding-bottom: 4px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 4px 6px; text-align: left; }
  th { background: #f3f3f3; font-weight: 600; }
  td.num, th.num { text-align: right; white-space: nowrap; }
  tr.subtotal td { border-top: 1px solid #ddd; font-weight: 600; }
  .meta { color: #555; line-height: 1.5; }
  .summary { width: 50%; margin-left: auto; margin-top: 24px; }
  .summary tr.grand td { font-size: 14px; font-weight: 700; border-top: 2px solid #222; }
  .notes { margin-top: 24px; white-space: pre-wrap; }
</style>
</head>
<body>
<header>
  <div>
    {{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.Contractor.CompanyName}}">{{end}}
    <h1>{{.Contractor.CompanyName}}</h1>
    <div class="meta">
      {{with .Contractor.ContactName}}{{.}}<br>{{end}}
      {{with .Contractor.Address}}{{.}}<br>{{end}}
      {{with .Contractor.Phone}}{{.}}<br>{{end}}
      {{with .Contractor.Email}}{{.}}<br>{{end}}
      {{with .Contractor.LicenseNumber}}License {{.}}{{end}}
    </div>
  </div>
  <div class="meta">
    <strong>Estimate</strong><br>
    {{date .IssuedAt}}<br>
    {{.Project.Name}}<br>
    {{with .Project.ClientName}}{{.}}<br>{{end}}
    {{with .Project.Address}}{{.}}<br>{{end}}
    {{with .Project.ClientEmail}}{{.}}<br>{{end}}
    {{with .Project.ClientPhone}}{{.}}{{end}}
  </div>
</header>

{{range .Sections}}
<h2>{{category .Category}}</h2>
<table>
  <thead>
    <tr><th>Item</th><th class="num">Qty</th><th>Unit</th><th class="num">Price</th><th class="num">Total</th></tr>
  </thead>
  <tbody>
  {{range .Labor}}
    <tr><td>{{.Name}}</td><td class="num">{{qty .Quantity}}</td><td>hr</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
  {{end}}
  {{range .Materials}}
    <tr><td>{{.Name}}</td><td class="num">{{qty .Quantity}}</td><td>{{.Unit}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
  {{end}}
    <tr class="subtotal"><td colspan="4">{{category .Category}} total</td><td class="num">{{money .Totals.Total}}</td></tr>
  </tbody>
</table>
{{end}}

<table class="summary">
  <tr><td>Labor ({{qty .Summary.LaborHours}} hrs)</td><td class="num">{{money .Summary.LaborSubtotal}}</td></tr>
  <tr><td>Materials</td><td class="num">{{money .Summary.MaterialSubtotal}}</td></tr>
  {{if nonzero .Summary.Markup}}<tr><td>Overhead &amp; profit ({{percent .Summary.MarkupPercent}})</td><td class="num">{{money .Summary.Markup}}</td></tr>{{end}}
  {{if nonzero .Summary.Tax}}<tr><td>Sales tax on materials ({{percent .Summary.TaxRatePercent}})</td><td class="num">{{money .Summary.Tax}}</td></tr>{{end}}
  <tr class="grand"><td>Total</td><td class="num">{{money .Summary.GrandTotal}}</td></tr>
</table>

{{with .Project.Notes}}<div class="notes">{{.}}</div>{{end}}
</body>
</html>
`

const estimateFooterTemplate = `<div style="font-size:8px; width:100%; text-align:center; color:#777;">
Page <span class="pageNumber"></span> of <span class="totalPages"></span>
</div>`
