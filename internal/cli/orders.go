package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"seller-cli/internal/api"
	"seller-cli/internal/model"
	"seller-cli/internal/orders"
	"seller-cli/internal/receipt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order lifecycle commands",
	}
	cmd.AddCommand(newOrdersNewCmd(app))
	cmd.AddCommand(newOrdersCompletedCmd(app))
	cmd.AddCommand(newOrdersCookCmd(app))
	cmd.AddCommand(newOrdersCompleteCmd(app))
	cmd.AddCommand(newOrdersCloseCmd(app))
	cmd.AddCommand(newOrdersSummaryCmd(app))
	cmd.AddCommand(newOrdersReceiptCmd(app))
	return cmd
}

func newOrdersNewCmd(app *App) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "List new orders (one page)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			vm := orders.NewNewOrders(app.client, app.viewOptions(cmd))
			if err := vm.Fetch(cmd.Context(), offset, limit); err != nil {
				return writeErr(cmd, err)
			}
			st := vm.State()
			first := vm.FirstEditable()
			var firstID any
			if first >= 0 {
				firstID = st.Orders[first].ID
			}
			return writeOut(cmd, app, map[string]any{
				"data": st,
				"meta": map[string]any{
					"firstEditable":   first,
					"firstEditableId": firstID,
					"hasNext":         st.HasNext(),
					"hasPrev":         st.HasPrev(),
				},
			})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Row offset")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default from config)")
	return cmd
}

func newOrdersCompletedCmd(app *App) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "completed",
		Short: "List completed orders waiting to be handed over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			vm := orders.NewToSend(app.client, app.viewOptions(cmd))
			if err := vm.Fetch(cmd.Context(), offset, limit); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": vm.State()})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Row offset")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default from config)")
	return cmd
}

func (app *App) cookView(cmd *cobra.Command) *orders.Cook {
	return orders.NewCook(app.client, orders.CookOptions{
		Options:            app.viewOptions(cmd),
		EmptyOnServerError: *app.cfg.Cook.EmptyOnServerError,
	})
}

func newOrdersCookCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cook",
		Short: "Show the cook queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			vm := app.cookView(cmd)
			if err := vm.Fetch(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": vm.Views(),
				"meta": map[string]any{"shape": vm.Shape()},
			})
		},
	}
	return cmd
}

func newOrdersCompleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <order-id>",
		Short: "Mark a cooking order as complete (full id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			vm := app.cookView(cmd)
			if err := vm.Fetch(ctx); err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveOrderID(args[0], vm.State().Orders)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := vm.Complete(ctx, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"orderId": id, "queue": vm.Views()},
			})
		},
	}
	return cmd
}

func newOrdersCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <order-id>",
		Short: "Hand over a completed order (full id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			vm := orders.NewToSend(app.client, app.viewOptions(cmd))
			if err := vm.Fetch(ctx, 0, 0); err != nil {
				return writeErr(cmd, err)
			}
			id, err := resolveOrderID(args[0], vm.State().Orders)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := vm.Close(ctx, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"orderId": id, "completed": vm.State()},
			})
		},
	}
	return cmd
}

func newOrdersSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Done / remaining counters for the current shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			cook := app.cookView(cmd)
			if err := cook.Fetch(ctx); err != nil {
				return writeErr(cmd, err)
			}
			done := orders.NewToSend(app.client, app.viewOptions(cmd))
			if err := done.Fetch(ctx, 0, 0); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": orders.Summarize(cook.State().Orders, done.State().Orders),
			})
		},
	}
}

func newOrdersReceiptCmd(app *App) *cobra.Command {
	var (
		htmlPath string
		markdown bool
		width    int
		style    string
		store    string
	)

	cmd := &cobra.Command{
		Use:   "receipt <order-id>",
		Short: "Render a receipt for an order (terminal, markdown or HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			o, err := findOrder(cmd.Context(), app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			md := receipt.Markdown(o, receipt.Options{StoreName: store, ShowFullID: true})

			if htmlPath != "" {
				page, err := receipt.HTML(md, "Order "+o.ShortID())
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"orderId": o.ID, "html": htmlPath}})
			}
			if markdown {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			if style == "" {
				style = terminalStyle()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), receipt.Terminal(md, width, style))
			return err
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "Write a standalone HTML receipt to this path")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print raw markdown")
	cmd.Flags().IntVar(&width, "width", 60, "Wrap width for terminal output")
	cmd.Flags().StringVar(&style, "style", "", "Terminal style (dark|light|notty); default from the terminal")
	cmd.Flags().StringVar(&store, "store", "", "Store name printed as the receipt title")
	return cmd
}

// terminalStyle picks a glamour style from the detected terminal.
func terminalStyle() string {
	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return "notty"
	}
	if out.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// findOrder looks id up in the new, cook and completed lists, in that order.
func findOrder(ctx context.Context, app *App, id string) (model.Order, error) {
	var pool []model.Order
	var errs []error

	if page, err := app.client.NewOrders(ctx, 0, 100); err == nil {
		pool = append(pool, page.Orders...)
	} else {
		errs = append(errs, err)
	}
	if q, err := app.client.CookOrders(ctx); err == nil {
		pool = append(pool, q.Orders...)
	} else if !(api.StatusOf(err) >= 500 || api.IsNoData(err)) {
		errs = append(errs, err)
	}
	if page, err := app.client.CompletedOrders(ctx, 0, 100); err == nil {
		pool = append(pool, page.Orders...)
	} else {
		errs = append(errs, err)
	}

	full, err := resolveOrderID(id, pool)
	if err != nil {
		if len(errs) > 0 {
			return model.Order{}, errors.Join(append([]error{err}, errs...)...)
		}
		return model.Order{}, err
	}
	for _, o := range pool {
		if o.ID == full {
			return o, nil
		}
	}
	return model.Order{}, errNotFound("order", id)
}

// resolveOrderID maps a full id or a unique prefix (such as the 8-char short
// id shown in lists) to the full order id.
func resolveOrderID(id string, pool []model.Order) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("order id is required")
	}
	var matches []string
	seen := map[string]bool{}
	for _, o := range pool {
		if o.ID == id {
			return id, nil
		}
		if strings.HasPrefix(o.ID, id) && !seen[o.ID] {
			seen[o.ID] = true
			matches = append(matches, o.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errNotFound("order", id)
	case 1:
		return matches[0], nil
	default:
		return "", ambiguousIDError{prefix: id, matches: matches}
	}
}
