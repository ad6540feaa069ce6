package cli

import (
	"errors"
	"strings"

	"seller-cli/internal/model"

	"github.com/spf13/cobra"
)

func newStoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store commands",
	}
	cmd.AddCommand(newStoreCreateCmd(app))
	return cmd
}

// newStoreCreateCmd posts the legacy /Store/Create body.
func newStoreCreateCmd(app *App) *cobra.Command {
	var name, phone, branchType, merchantType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a store (legacy endpoint)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(phone) == "" {
				return writeErr(cmd, errors.New("--name and --phone are required"))
			}
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.client.CreateStore(cmd.Context(), model.CreateStorePayload{
				BranchType:   strings.TrimSpace(branchType),
				MerchantType: strings.TrimSpace(merchantType),
				Name:         strings.TrimSpace(name),
				Phone:        strings.TrimSpace(phone),
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": resultData(res)})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Store name")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&branchType, "branch-type", "mobile", "Branch type")
	cmd.Flags().StringVar(&merchantType, "merchant-type", "food", "Merchant type")
	return cmd
}

func newMerchantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchant",
		Short: "Merchant commands",
	}
	cmd.AddCommand(newMerchantCreateCmd(app))
	return cmd
}

func newMerchantCreateCmd(app *App) *cobra.Command {
	var form model.StoreForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register the seller's merchant (create-store form)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := form.MerchantPayload()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireLogin(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.client.CreateMerchant(cmd.Context(), payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": resultData(res),
				"meta": map[string]any{"payload": payload},
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Store name")
	cmd.Flags().StringVar(&form.Type, "type", "", "Store type (e.g. food)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&form.Address, "address", "", "Address (kept locally, not sent)")
	cmd.Flags().StringVar(&form.Format, "format-type", "Mobile", "Store format (Mobile|Fixed)")
	return cmd
}
