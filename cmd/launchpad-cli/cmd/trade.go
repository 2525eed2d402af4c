/*
Copyright © 2024 pando
*/
package cmd

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var tradeOpt struct {
	Quantity string `json:"quantity,omitempty"`
	Payment  string `json:"payment,omitempty"`
	exactIn  bool
	sellSide bool
}

// buyCmd represents the buy command
var buyCmd = &cobra.Command{
	Use:   "buy <asset_id>",
	Short: "buy tokens on the curve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/assets/" + args[0] + "/buy"
		if tradeOpt.exactIn {
			path = "/assets/" + args[0] + "/buy-exact-in"
		}

		var result any
		if err := call(cmd, http.MethodPost, path, tradeOpt, &result); err != nil {
			return err
		}

		return printJson(cmd, result)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell <asset_id>",
	Short: "sell tokens back to the curve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result any
		if err := call(cmd, http.MethodPost, "/assets/"+args[0]+"/sell", tradeOpt, &result); err != nil {
			return err
		}

		return printJson(cmd, result)
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <asset_id>",
	Short: "quote a buy, sell or exact-in trade without executing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		switch {
		case tradeOpt.exactIn:
			path = "/assets/" + args[0] + "/quotes/exact-in?payment=" + url.QueryEscape(tradeOpt.Payment)
		case tradeOpt.sellSide:
			path = "/assets/" + args[0] + "/quotes/sell?quantity=" + url.QueryEscape(tradeOpt.Quantity)
		default:
			path = "/assets/" + args[0] + "/quotes/buy?quantity=" + url.QueryEscape(tradeOpt.Quantity)
		}

		var quote any
		if err := call(cmd, http.MethodGet, path, nil, &quote); err != nil {
			return err
		}

		return printJson(cmd, quote)
	},
}

func init() {
	rootCmd.AddCommand(buyCmd, sellCmd, quoteCmd)

	for _, c := range []*cobra.Command{buyCmd, sellCmd, quoteCmd} {
		c.Flags().StringVar(&tradeOpt.Quantity, "quantity", "", "token quantity")
		c.Flags().StringVar(&tradeOpt.Payment, "payment", "", "payment amount")
		c.Flags().BoolVar(&tradeOpt.exactIn, "exact-in", false, "spend the payment for as many tokens as it buys")
	}

	quoteCmd.Flags().BoolVar(&tradeOpt.sellSide, "sell", false, "quote the sell side")
}
