package tui

import (
	"fmt"
	"strings"

	"github.com/amellido/triagetui/internal/models"
	"github.com/amellido/triagetui/internal/render"
	"github.com/amellido/triagetui/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"
)

// renderEmailList repaints the table from a fresh email slice. Row bindings
// from the previous render cycle are discarded first; a row handler can never
// act on an id from an older cycle. Must run on the UI thread.
func (a *App) renderEmailList(emails []models.EmailRecord) {
	table, ok := a.views["list"].(*tview.Table)
	if !ok {
		a.logger.Error().Msg("list view missing; skipping render")
		return
	}

	selectedRow, _ := table.GetSelection()
	table.Clear()
	a.rowEmailIDs = nil

	headers := []string{"", "From", "Subject", "Priority", "Sentiment", "Status", "Action"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false)
		table.SetCell(0, col, cell)
	}

	if len(emails) == 0 {
		a.renderEmptyState()
		return
	}

	for i, email := range emails {
		row := i + 1
		a.rowEmailIDs = append(a.rowEmailIDs, email.ID)

		marker := " "
		if email.Priority == models.PriorityUrgent {
			marker = "❗"
		}

		table.SetCell(row, 0, tview.NewTableCell(marker))
		table.SetCell(row, 1, tview.NewTableCell(truncate(email.Sender, 28)))
		table.SetCell(row, 2, tview.NewTableCell(truncate(email.Subject, 40)))
		table.SetCell(row, 3, tview.NewTableCell(string(email.Priority)))
		table.SetCell(row, 4, tview.NewTableCell(string(email.Sentiment)))
		table.SetCell(row, 5, tview.NewTableCell(string(email.Status)))
		table.SetCell(row, 6, tview.NewTableCell(a.affordanceLabel(email)))
	}

	if selectedRow >= table.GetRowCount() {
		selectedRow = table.GetRowCount() - 1
	}
	if selectedRow < 1 {
		selectedRow = 1
	}
	table.Select(selectedRow, 0)
	a.renderDetailForRow(selectedRow)
}

// affordanceLabel shows what the operator can do with a row right now. Send
// availability comes from the coordinator, which consults the synchronizer's
// server-confirmed status.
func (a *App) affordanceLabel(email models.EmailRecord) string {
	if kind, busy := a.inFlight[email.ID]; busy {
		if kind == services.ActionSend {
			return "sending…"
		}
		return "regenerating…"
	}
	if !a.actionService.SendAvailable(email.ID) {
		return "regenerate"
	}
	return "send | regenerate"
}

// renderEmptyState shows the no-data hint in list and detail panes.
func (a *App) renderEmptyState() {
	if table, ok := a.views["list"].(*tview.Table); ok {
		table.SetCell(1, 1, tview.NewTableCell("No emails yet — press L to load sample data").SetSelectable(false))
	}
	if detail, ok := a.views["detail"].(*tview.TextView); ok {
		detail.SetText("")
	}
}

// renderDetailForRow paints the detail pane for a table row (1-based; row 0
// is the header).
func (a *App) renderDetailForRow(row int) {
	detail, ok := a.views["detail"].(*tview.TextView)
	if !ok {
		a.logger.Error().Msg("detail view missing; skipping render")
		return
	}

	idx := row - 1
	a.mu.RLock()
	if idx < 0 || idx >= len(a.emails) {
		a.mu.RUnlock()
		detail.SetText("")
		return
	}
	email := a.emails[idx]
	a.mu.RUnlock()

	_, _, width, _ := detail.GetInnerRect()
	if width <= 4 {
		width = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]From:[::-] %s\n", tview.Escape(email.Sender))
	fmt.Fprintf(&b, "[::b]Subject:[::-] %s\n", tview.Escape(email.Subject))
	fmt.Fprintf(&b, "[::b]Received:[::-] %s\n", tview.Escape(email.DateReceived))
	fmt.Fprintf(&b, "[::b]Priority:[::-] %s   [::b]Sentiment:[::-] %s   [::b]Status:[::-] %s\n",
		email.Priority, email.Sentiment, email.Status)
	if tags := render.KeywordTags(email.Keywords); len(tags) > 0 {
		fmt.Fprintf(&b, "[::b]Keywords:[::-] %s\n", tview.Escape(strings.Join(tags, " · ")))
	}
	if email.ContactInfo != "" {
		fmt.Fprintf(&b, "[::b]Contact:[::-] %s\n", tview.Escape(email.ContactInfo))
	}
	if email.Requirements != "" {
		fmt.Fprintf(&b, "[::b]Requirements:[::-] %s\n", tview.Escape(email.Requirements))
	}
	fmt.Fprintf(&b, "\n%s\n", tview.Escape(render.Body(email.Body, width)))
	if email.AIResponse != "" {
		fmt.Fprintf(&b, "\n[::b]── AI Response ──[::-]\n%s\n", tview.Escape(render.Body(email.AIResponse, width)))
	}

	detail.SetText(b.String())
	detail.ScrollToBeginning()
}

// renderSummaryCounts paints the aggregate numbers next to the chart.
func (a *App) renderSummaryCounts(analytics models.AnalyticsSnapshot) {
	summary, ok := a.views["summary"].(*tview.TextView)
	if !ok {
		a.logger.Error().Msg("summary view missing; skipping render")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, " Total:    %d\n", analytics.TotalEmails)
	fmt.Fprintf(&b, " Last 24h: %d\n", analytics.RecentEmails)
	fmt.Fprintf(&b, " Urgent:   %d\n", analytics.UrgentEmails)
	fmt.Fprintf(&b, " Pending:  %d\n", analytics.PendingEmails)
	fmt.Fprintf(&b, " Resolved: %d\n", analytics.ResolvedEmails)
	if filter := a.syncService.Filter(); !filter.IsZero() {
		fmt.Fprintf(&b, "\n Filter: %s\n", describeFilter(filter))
	}
	summary.SetText(b.String())
}

func describeFilter(f models.EmailFilter) string {
	var parts []string
	if f.Priority != "" {
		parts = append(parts, "priority="+string(f.Priority))
	}
	if f.Sentiment != "" {
		parts = append(parts, "sentiment="+string(f.Sentiment))
	}
	return strings.Join(parts, " ")
}

// truncate trims a string to a display width, runewidth-aware.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
