package tui

import (
	"github.com/amellido/triagetui/internal/models"
	"github.com/derailed/tview"
)

// openComposeForm shows the modal form for submitting a new email to the
// backend. Validation happens in the synchronizer before any network call;
// a rejected draft keeps the form open so the operator can fix it.
func (a *App) openComposeForm() {
	var draft models.EmailDraft

	form := tview.NewForm()
	form.AddInputField("Sender", "", 50, nil, func(text string) { draft.Sender = text })
	form.AddInputField("Subject", "", 50, nil, func(text string) { draft.Subject = text })
	form.AddInputField("Body", "", 50, nil, func(text string) { draft.Body = text })
	form.AddButton("Submit", func() {
		go func(d models.EmailDraft) {
			if err := a.syncService.SubmitEmail(a.ctx, d); err == nil {
				a.QueueUpdateDraw(func() { a.closeComposeForm() })
			}
		}(draft)
	})
	form.AddButton("Cancel", func() { a.closeComposeForm() })
	form.SetBorder(true)
	form.SetTitle(" ✉️ Process New Email ")
	form.SetTitleAlign(tview.AlignCenter)

	modal := tview.NewFlex().SetDirection(tview.FlexRow)
	modal.AddItem(nil, 0, 1, false)
	modal.AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 0, 1, false).
		AddItem(form, 60, 0, true).
		AddItem(nil, 0, 1, false), 17, 0, true)
	modal.AddItem(nil, 0, 1, false)

	a.Pages.AddPage("compose", modal, true, true)
	a.SetFocus(form)
}

// closeComposeForm tears the modal down and returns focus to the list.
func (a *App) closeComposeForm() {
	a.Pages.RemovePage("compose")
	a.Pages.SwitchToPage("main")
	if list, ok := a.views["list"]; ok {
		a.SetFocus(list)
	}
}
