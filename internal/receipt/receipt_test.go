package receipt

import (
	"strings"
	"testing"
	"time"

	"seller-cli/internal/model"
)

func sampleOrder() model.Order {
	return model.Order{
		ID:            "0f3c2a1e-9b7d-4c55-8e21-6a1b2c3d4e5f",
		Status:        model.OrderStatusCook,
		FastLanePrice: "15",
		CreatedAt:     "2025-03-01T09:30:00Z",
		PickupAt:      "2025-03-01T10:00:00Z",
		Items: []model.OrderItem{
			{Menu: model.Menu{Name: "Pad Thai", Price: 60}, Quantity: 2, Options: []model.ItemOption{
				{Kind: model.ItemOptionSelection, Version: 2, Name: "Size", Choice: "Large", Price: 10},
			}},
			{Menu: model.Menu{Name: "Iced Tea | L", Price: 25}, Quantity: 1},
		},
	}
}

func TestMarkdown_TableAndTotals(t *testing.T) {
	t.Parallel()

	md := Markdown(sampleOrder(), Options{StoreName: "Som Tam", Location: time.UTC, ShowFullID: true})
	for _, want := range []string{
		"# Som Tam",
		"## Order 0f3c2a1e",
		"`0f3c2a1e-9b7d-4c55-8e21-6a1b2c3d4e5f`",
		"Status: **cooking**",
		"Ordered: 01/03/2025 09:30",
		"Fast Lane: +15",
		"| Pad Thai (Size: Large +10) | 2 | 60 |",
		`| Iced Tea \| L | 1 | 25 |`,
		"| **Total** | **3** | **145** |",
		"Pickup: 01/03/2025 10:00",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestMarkdown_NoFastLaneForZero(t *testing.T) {
	t.Parallel()

	o := sampleOrder()
	o.FastLanePrice = "0"
	if md := Markdown(o, Options{}); strings.Contains(md, "Fast Lane") {
		t.Fatalf("unexpected fast lane line:\n%s", md)
	}
}

func TestTerminal_PlainStyleKeepsText(t *testing.T) {
	t.Parallel()

	out := Terminal(Markdown(sampleOrder(), Options{}), 60, "notty")
	for _, want := range []string{"Order 0f3c2a1e", "Pad Thai", "145"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if Terminal("   ", 60, "dark") != "" {
		t.Fatalf("blank input should render empty")
	}
}

func TestHTML_RendersTableAndEscapesRawHTML(t *testing.T) {
	t.Parallel()

	o := sampleOrder()
	o.Items[1].Menu.Name = "<script>x</script>"
	page, err := HTML(Markdown(o, Options{}), "Order 0f3c2a1e")
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{"<title>Order 0f3c2a1e</title>", "<table>", "Pad Thai (Size: Large +10)</td>"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<script>") {
		t.Fatalf("raw html should not pass through:\n%s", page)
	}
}
