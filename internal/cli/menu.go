package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"seller-cli/internal/api"
	"seller-cli/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMenuCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Menu commands",
	}
	cmd.AddCommand(newMenuListCmd(app))
	cmd.AddCommand(newMenuCategoriesCmd(app))
	cmd.AddCommand(newMenuCreateCmd(app))
	cmd.AddCommand(newMenuUpdateCmd(app))
	return cmd
}

func newMenuListCmd(app *App) *cobra.Command {
	var merchantID string
	var visible bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the merchant's menus",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			if merchantID == "" {
				id, ok := app.sess.MerchantID()
				if !ok {
					return writeErr(cmd, missingClaimError{claim: "merchant_id"})
				}
				merchantID = id
			}
			menus, err := app.client.Menus(cmd.Context(), merchantID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if visible {
				for i := range menus {
					menus[i] = menus[i].VisibleOnly()
				}
			}
			return writeOut(cmd, app, map[string]any{"data": menus})
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "Merchant id (default: from the session token)")
	cmd.Flags().BoolVar(&visible, "visible", false, "Drop options and sub-options with display 0")
	return cmd
}

func newMenuCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List menu categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			cats, err := app.client.MenuCategories(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cats})
		},
	}
}

func newMenuCreateCmd(app *App) *cobra.Command {
	var (
		file     string
		name     string
		detail   string
		category int
		price    float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a menu from flags or a JSON/YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.CreateMenuPayload
			if file != "" {
				if err := readPayload(cmd, file, &p); err != nil {
					return writeErr(cmd, err)
				}
			} else {
				p = model.CreateMenuPayload{CategoryID: category, Name: name, Detail: detail, Price: price}
			}
			if p.Name == "" {
				return writeErr(cmd, errors.New("menu name is required (--name or file)"))
			}
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.client.CreateMenu(cmd.Context(), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": resultData(res)})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Payload file (JSON or YAML; - for stdin)")
	cmd.Flags().StringVar(&name, "name", "", "Menu name")
	cmd.Flags().StringVar(&detail, "detail", "", "Menu description")
	cmd.Flags().IntVar(&category, "category", 0, "Category id")
	cmd.Flags().Float64Var(&price, "price", 0, "Price")
	return cmd
}

func newMenuUpdateCmd(app *App) *cobra.Command {
	var (
		file  string
		id    string
		price float64
		name  string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a menu from a file, or patch name/price of an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			var p model.UpdateMenuPayload
			if file != "" {
				if err := readPayload(cmd, file, &p); err != nil {
					return writeErr(cmd, err)
				}
			} else {
				if id == "" {
					return writeErr(cmd, errors.New("--id or --file is required"))
				}
				merchantID, ok := app.sess.MerchantID()
				if !ok {
					return writeErr(cmd, missingClaimError{claim: "merchant_id"})
				}
				menus, err := app.client.Menus(cmd.Context(), merchantID)
				if err != nil {
					return writeErr(cmd, err)
				}
				found := false
				for _, m := range menus {
					if m.ID == id {
						p = model.UpdateFromRecord(m)
						found = true
						break
					}
				}
				if !found {
					return writeErr(cmd, errNotFound("menu", id))
				}
				if cmd.Flags().Changed("price") {
					p.Price = price
				}
				if cmd.Flags().Changed("name") {
					p.Name = name
				}
			}
			res, err := app.client.UpdateMenu(cmd.Context(), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": resultData(res), "meta": map[string]any{"payload": p.Normalized()}})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Payload file (JSON or YAML; - for stdin)")
	cmd.Flags().StringVar(&id, "id", "", "Menu id to patch")
	cmd.Flags().Float64Var(&price, "price", 0, "New price")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	return cmd
}

// readPayload decodes a JSON or YAML file into v. YAML goes through JSON so
// the payload types' JSON decoding rules apply.
func readPayload(cmd *cobra.Command, path string, v any) error {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if json.Valid(b) {
		return json.Unmarshal(b, v)
	}
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%s: not JSON or YAML: %w", path, err)
	}
	jb, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return json.Unmarshal(jb, v)
}

// resultData is the envelope payload for calls whose body is informational.
func resultData(res api.Result) map[string]any {
	out := map[string]any{"status": res.Status, "empty": res.Empty}
	switch {
	case res.Degraded():
		out["message"] = res.Raw
	case len(res.Body) > 0:
		out["body"] = res.Body
	}
	return out
}
