// Package report renders a planning run as markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

// Markdown renders the run as a GFM document: a header, the per-product
// decision table, and the decision-step summary.
func Markdown(res plan.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Production Plan\n\n")
	fmt.Fprintf(&b, "Week: %s\n\n", res.Label)

	if len(res.Rows) == 0 {
		b.WriteString("No products had demand in the planning week.\n")
		return b.String()
	}

	b.WriteString("| SKU | Gross | Inventory | Net | Packaging | Capacity | Decision | Confidence | Rationale |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range res.Rows {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s | %s | %.2f | %s |\n",
			r.SKU, r.GrossDemand, r.Inventory, r.NetDemand,
			r.PackagingStatus, r.CapacityStatus,
			r.Decision, r.Confidence, escapeCell(r.Rationale))
	}

	var blocked []string
	for _, r := range res.Rows {
		if r.PackagingStatus != plan.StatusOK && len(r.PackagingDetail) > 0 {
			blocked = append(blocked, fmt.Sprintf("- **%s** (%s): %s", r.SKU, r.PackagingStatus, strings.Join(r.PackagingDetail, "; ")))
		}
	}
	if len(blocked) > 0 {
		b.WriteString("\n## Packaging notes\n\n")
		b.WriteString(strings.Join(blocked, "\n"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n## Decision step\n\n")
	fmt.Fprintf(&b, "- Rule decisions: %d\n", res.Metadata.RuleDecisions)
	fmt.Fprintf(&b, "- Model decisions: %d\n", res.Metadata.ModelCalls)
	fmt.Fprintf(&b, "- Fallbacks: %d\n", res.Metadata.Fallbacks)
	if res.Metadata.Fallbacks > 0 {
		b.WriteString("\nFallback rows are conservative defaults, not model verdicts; check collaborator health.\n")
	}
	return b.String()
}

// HTML converts the markdown report into a standalone HTML document.
func HTML(res plan.Result) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(res)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Weekly Production Plan</title>" +
		"<style>" + styleCSS + "</style></head><body>" + content.String() + "</body></html>", nil
}

const styleCSS = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:70rem;color:#1a1a1a}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ccc;padding:0.4rem 0.6rem;text-align:left}
th{background:#f2f2f2}`

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}
