package tui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// initComponents creates the primitive set and registers it in the views map.
func (a *App) initComponents() {
	list := tview.NewTable().SetSelectable(true, false)
	list.SetBorder(true)
	list.SetBorderAttributes(tcell.AttrBold)
	list.SetTitle(" 📧 Emails ")
	list.SetTitleAlign(tview.AlignCenter)

	detail := tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetScrollable(true)
	detail.SetBorder(true)
	detail.SetTitle(" Detail ")

	summary := tview.NewTextView().SetDynamicColors(true)
	summary.SetBorder(true)
	summary.SetTitle(" 📊 Summary ")

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBorder(false)

	flash := tview.NewTextView().SetDynamicColors(true)
	flash.SetBorder(false)

	a.views["list"] = list
	a.views["detail"] = detail
	a.views["summary"] = summary
	a.views["status"] = status
	a.views["flash"] = flash

	list.SetSelectionChangedFunc(func(row, col int) {
		a.renderDetailForRow(row)
	})
}

// initLayout arranges the main page: list above detail on the left, summary
// counts and chart on the right, status and flash lines at the bottom.
func (a *App) initLayout() {
	a.chartContainer = tview.NewFlex().SetDirection(tview.FlexRow)
	a.chartContainer.SetBorder(true)
	a.chartContainer.SetTitle(" Chart ")

	left := tview.NewFlex().SetDirection(tview.FlexRow)
	left.AddItem(a.views["list"], 0, 3, true)
	left.AddItem(a.views["detail"], 0, 2, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow)
	right.AddItem(a.views["summary"], 9, 0, false)
	right.AddItem(a.chartContainer, 0, 1, false)

	body := tview.NewFlex().SetDirection(tview.FlexColumn)
	body.AddItem(left, 0, 3, true)
	body.AddItem(right, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow)
	main.AddItem(body, 0, 1, true)
	main.AddItem(a.views["flash"], 1, 0, false)
	main.AddItem(a.views["status"], 1, 0, false)

	a.Pages.AddPage("main", main, true, true)
	a.renderStatusBar()
	a.renderEmptyState()
}
