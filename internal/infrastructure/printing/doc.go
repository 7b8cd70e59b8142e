// Package printing renders project estimates to PDF.
//
// An EstimateDocument is executed through an html/template with locale aware
// money and title formatting, then printed by headless Chrome via chromedp.
package printing
