package tui

import (
	"errors"

	"github.com/amellido/triagetui/internal/models"
	"github.com/amellido/triagetui/internal/services"
	"github.com/derailed/tview"
)

// selectedEmailID resolves the current table selection to an email id using
// this render cycle's bindings.
func (a *App) selectedEmailID() (int, bool) {
	table, ok := a.views["list"].(*tview.Table)
	if !ok {
		a.logger.Error().Msg("list view missing; cannot resolve selection")
		return 0, false
	}
	row, _ := table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(a.rowEmailIDs) {
		return 0, false
	}
	return a.rowEmailIDs[idx], true
}

// sendSelected triggers the send action for the selected email. The
// coordinator refuses the trigger when an action is already in flight or the
// record is server-confirmed resolved.
func (a *App) sendSelected() {
	id, ok := a.selectedEmailID()
	if !ok {
		return
	}
	go func() {
		if err := a.actionService.Trigger(a.ctx, id, services.ActionSend); errors.Is(err, services.ErrEmailResolved) {
			a.notifier.Publish(services.NotifyInfo, "email already resolved; send is unavailable")
		}
	}()
}

// regenerateSelected triggers a redraft of the AI response for the selected
// email. An in-flight refusal needs no notification; the row already shows
// the action as busy.
func (a *App) regenerateSelected() {
	id, ok := a.selectedEmailID()
	if !ok {
		return
	}
	go func() { _ = a.actionService.Trigger(a.ctx, id, services.ActionRegenerate) }()
}

// refreshNow requests a manual refresh; overlap with the periodic cycle is
// coalesced inside the synchronizer.
func (a *App) refreshNow() {
	go func() { _ = a.syncService.Refresh(a.ctx) }()
}

// loadSample asks the backend for its bundled sample set.
func (a *App) loadSample() {
	go func() { _ = a.syncService.LoadSampleData(a.ctx) }()
}

// filterCycle is the fixed rotation the f key walks through.
var filterCycle = []models.EmailFilter{
	{},
	{Priority: models.PriorityUrgent},
	{Priority: models.PriorityNormal},
	{Sentiment: models.SentimentPositive},
	{Sentiment: models.SentimentNegative},
	{Sentiment: models.SentimentNeutral},
}

// cycleFilter advances to the next list filter and refreshes.
func (a *App) cycleFilter() {
	a.filterIndex = (a.filterIndex + 1) % len(filterCycle)
	filter := filterCycle[a.filterIndex]
	go a.syncService.SetFilter(a.ctx, filter)
}
