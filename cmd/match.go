package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	matchDomain      string
	matchDescription string
)

var matchCmd = &cobra.Command{
	Use:   "match <company-name>",
	Short: "Match a company description against the industry taxonomy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if matchDescription == "" {
			return eris.New("--description is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mapping, err := env.Pipeline.ClassifyCompany(ctx, args[0], matchDomain, matchDescription)
		if err != nil {
			return err
		}
		if mapping == nil {
			fmt.Printf("no taxonomy level matched for %s\n", args[0])
			return nil
		}

		out, err := json.MarshalIndent(mapping, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal mapping")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchDomain, "domain", "", "company domain to record on the mapping")
	matchCmd.Flags().StringVar(&matchDescription, "description", "", "company description text to classify (required)")
	rootCmd.AddCommand(matchCmd)
}
