/*
Copyright © 2024 pando
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "launchpad-cli",
	Short: "api cmd for launchpad service",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("endpoint", "l", "http://localhost:8080/api", "api endpoint")
	rootCmd.PersistentFlags().StringP("user", "u", "", "acting user id")
	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
}

func call(cmd *cobra.Command, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, viper.GetString("endpoint")+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if user := viper.GetString("user"); user != "" {
		req.Header.Set("X-User-Id", user)
	}

	if key := viper.GetString("operator_key"); key != "" {
		req.Header.Set("X-Operator-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var terr struct {
			Code string `json:"code"`
			Msg  string `json:"msg"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&terr); err != nil {
			return fmt.Errorf("request failed: %s", resp.Status)
		}

		return fmt.Errorf("%s: %s", terr.Code, terr.Msg)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func printJson(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(b))
	return nil
}
