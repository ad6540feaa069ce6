// Package receipt renders an order as a printable receipt: markdown first,
// then either styled terminal text or a standalone HTML page.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"seller-cli/internal/model"
)

// Options tune the markdown receipt.
type Options struct {
	StoreName string
	// Location formats timestamps; nil means local time.
	Location *time.Location
	// ShowFullID prints the full order id under the short one.
	ShowFullID bool
}

// Markdown renders o as a GFM document with an item table and totals.
func Markdown(o model.Order, opts Options) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder

	if opts.StoreName != "" {
		fmt.Fprintf(&b, "# %s\n\n", escape(opts.StoreName))
	}
	fmt.Fprintf(&b, "## Order %s\n\n", o.ShortID())
	if opts.ShowFullID {
		fmt.Fprintf(&b, "`%s`\n\n", o.ID)
	}
	status := model.ViewStatusFor(o.Status)
	fmt.Fprintf(&b, "Status: **%s**\n\n", status.Label())
	if t, ok := o.Created(); ok {
		fmt.Fprintf(&b, "Ordered: %s\n\n", t.In(loc).Format("02/01/2006 15:04"))
	}
	if o.HasFastLane() {
		fmt.Fprintf(&b, "> :zap: Fast Lane: +%s\n\n", strings.TrimSpace(o.FastLanePrice))
	}

	b.WriteString("| Item | Qty | Price |\n")
	b.WriteString("|:-----|----:|------:|\n")
	for _, it := range o.Items {
		name := escape(it.Menu.Name)
		if extra := optionSummary(it.Options); extra != "" {
			name += " (" + escape(extra) + ")"
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", name, it.Quantity, money(it.Menu.Price))
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** |\n", o.TotalQuantity(), money(o.TotalPrice()))

	if t, ok := o.Pickup(); ok {
		fmt.Fprintf(&b, "\nPickup: %s\n", t.In(loc).Format("02/01/2006 15:04"))
	}
	return b.String()
}

func optionSummary(opts []model.ItemOption) string {
	var parts []string
	for _, op := range opts {
		if op.Kind != model.ItemOptionSelection {
			continue
		}
		s := op.Name
		if op.Choice != "" {
			if s != "" {
				s += ": "
			}
			s += op.Choice
		}
		if op.Price > 0 {
			s += " +" + money(op.Price)
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func money(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// escape keeps user text from breaking table cells or emphasis.
func escape(s string) string {
	r := strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "\n", " ")
	return r.Replace(s)
}
