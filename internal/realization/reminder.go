package realization

import (
	"fmt"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
)

// Notice is a reminder that due transactions wait for realization.
type Notice struct {
	Title string
	Body  string
	Count int
}

// Reminder builds the daily reminder for state at now. It reports false when
// notifications are off, a reminder already went out today, or nothing is due.
func Reminder(state *models.State, now time.Time) (Notice, bool) {
	if !state.NotificationsEnabled {
		return Notice{}, false
	}
	if sameDay(state.LastNotificationDate, now) {
		return Notice{}, false
	}
	count := len(ledger.New(state.Transactions).Due(now))
	if count == 0 {
		return Notice{}, false
	}
	plural := ""
	if count > 1 {
		plural = "s"
	}
	return Notice{
		Title: "Action Required",
		Body:  fmt.Sprintf("You have %d scheduled transaction%s pending realization.", count, plural),
		Count: count,
	}, true
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
