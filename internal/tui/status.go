package tui

import (
	"fmt"
	"strings"

	"github.com/amellido/triagetui/internal/services"
	"github.com/derailed/tview"
)

// renderStatusBar paints the baseline status line with the connectivity
// indicator. Must run on the UI thread.
func (a *App) renderStatusBar() {
	status, ok := a.views["status"].(*tview.TextView)
	if !ok {
		a.logger.Error().Msg("status view missing; skipping render")
		return
	}

	a.mu.RLock()
	connected := a.connected
	a.mu.RUnlock()

	indicator := "[red]○ disconnected[-]"
	if connected {
		indicator = "[green]● connected[-]"
	}
	status.SetText(fmt.Sprintf(" Triage TUI | %s | r refresh  s send  g regenerate  n new  L sample  f filter  q quit", indicator))
}

// renderNotifications paints the flash line from the active queue, oldest
// first. Entering notifications are withheld until their entry delay ends.
func (a *App) renderNotifications(items []services.Notification) {
	flash, ok := a.views["flash"].(*tview.TextView)
	if !ok {
		a.logger.Error().Msg("flash view missing; skipping render")
		return
	}

	var parts []string
	for _, n := range items {
		if n.Phase == services.NotificationEntering {
			continue
		}
		tag := notificationTag(n.Kind)
		text := tview.Escape(n.Message)
		if n.Phase == services.NotificationLeaving {
			parts = append(parts, fmt.Sprintf("%s[::d]%s[::-][-]", tag, text))
		} else {
			parts = append(parts, fmt.Sprintf("%s%s[-]", tag, text))
		}
	}
	flash.SetText(" " + strings.Join(parts, "  •  "))
}

func notificationTag(kind services.NotificationKind) string {
	switch kind {
	case services.NotifySuccess:
		return "[green]✅ "
	case services.NotifyError:
		return "[red]❌ "
	case services.NotifyWarning:
		return "[yellow]⚠️ "
	default:
		return "[blue]ℹ️ "
	}
}
