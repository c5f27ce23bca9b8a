package render

import (
	"html/template"
	"time"
)

// CountdownView is the countdown element. The client script reads the
// timestamp selected by Upcoming and keeps Text current.
type CountdownView struct {
	Upcoming bool
	Start    time.Time
	End      time.Time
	Text     string
}

type countdownData struct {
	Upcoming bool
	Start    string
	End      string
	Text     string
}

// Countdown renders the countdown element
func (r *Renderer) Countdown(v CountdownView) (template.HTML, error) {
	return r.execute("countdown", countdownData{
		Upcoming: v.Upcoming,
		Start:    v.Start.Format(time.RFC3339),
		End:      v.End.Format(time.RFC3339),
		Text:     v.Text,
	})
}
