package tui

import (
	"github.com/derailed/tcell/v2"
)

// bindKeys installs the global key handling. Rune keys only fire outside
// modal forms so typing into the compose form stays unaffected.
func (a *App) bindKeys() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if name, _ := a.Pages.GetFrontPage(); name != "main" {
			if event.Key() == tcell.KeyEscape {
				a.closeComposeForm()
				return nil
			}
			return event
		}

		if event.Key() != tcell.KeyRune {
			return event
		}

		switch event.Rune() {
		case 'q':
			a.quit()
			return nil
		case 'r':
			a.refreshNow()
			return nil
		case 's':
			a.sendSelected()
			return nil
		case 'g':
			a.regenerateSelected()
			return nil
		case 'n':
			a.openComposeForm()
			return nil
		case 'L':
			a.loadSample()
			return nil
		case 'f':
			a.cycleFilter()
			return nil
		}
		return event
	})
}
