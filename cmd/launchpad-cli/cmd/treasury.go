/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var withdrawOpt struct {
	To string `json:"to"`
}

// treasuryCmd represents the treasury command
var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "show the accumulated protocol fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp any
		if err := call(cmd, http.MethodGet, "/treasury", nil, &resp); err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "withdraw the accumulated protocol fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp any
		if err := call(cmd, http.MethodPost, "/treasury/withdraw", withdrawOpt, &resp); err != nil {
			return err
		}

		return printJson(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(treasuryCmd)
	treasuryCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().StringVar(&withdrawOpt.To, "to", "", "payout receiver")
	withdrawCmd.Flags().String("key", "", "operator key")
	viper.BindPFlag("operator_key", withdrawCmd.Flags().Lookup("key"))
}
