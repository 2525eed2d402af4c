/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var assetOpt struct {
	TraceID     string `json:"trace_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Payment     string `json:"payment"`
}

// assetCmd represents the asset command
var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "list assets, or show one by id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return showAsset(cmd, args[0])
		}

		return listAssets(cmd)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "create a new asset on the curve",
	RunE: func(cmd *cobra.Command, args []string) error {
		if assetOpt.TraceID == "" {
			assetOpt.TraceID = uuid.NewString()
		}

		var asset any
		if err := call(cmd, http.MethodPost, "/assets", assetOpt, &asset); err != nil {
			return err
		}

		return printJson(cmd, asset)
	},
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&assetOpt.TraceID, "trace", "", "trace id (optional)")
	createCmd.Flags().StringVar(&assetOpt.Name, "name", "", "asset name")
	createCmd.Flags().StringVar(&assetOpt.Symbol, "symbol", "", "asset symbol")
	createCmd.Flags().StringVar(&assetOpt.Description, "description", "", "description (optional)")
	createCmd.Flags().StringVar(&assetOpt.LogoURL, "logo", "", "logo url (optional)")
	createCmd.Flags().StringVar(&assetOpt.Payment, "payment", "0", "payment covering the creation fee")
}

func showAsset(cmd *cobra.Command, id string) error {
	var asset any
	if err := call(cmd, http.MethodGet, "/assets/"+id, nil, &asset); err != nil {
		return err
	}

	return printJson(cmd, asset)
}

func listAssets(cmd *cobra.Command) error {
	var resp struct {
		Assets []any `json:"assets"`
	}

	if err := call(cmd, http.MethodGet, "/assets", nil, &resp); err != nil {
		return err
	}

	return printJson(cmd, resp.Assets)
}
