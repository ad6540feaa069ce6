package orders

import "seller-cli/internal/model"

// Summary is the done / remaining / total counter row shown above the cook queue.
type Summary struct {
	Done      int `json:"done"`
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

// Summarize counts the cook queue as remaining and completed orders as done.
// Entries are counted once per distinct order_id.
func Summarize(cook, completed []model.Order) Summary {
	seen := map[string]bool{}
	var s Summary
	for _, o := range completed {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		s.Done++
	}
	for _, o := range cook {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		if model.ViewStatusFor(o.Status) == model.ViewDone {
			s.Done++
		} else {
			s.Remaining++
		}
	}
	s.Total = s.Done + s.Remaining
	return s
}
