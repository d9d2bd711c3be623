package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fusionlabs/profilegen/internal/pipeline"
)

var generateDomain string

var generateCmd = &cobra.Command{
	Use:   "generate <company-name>",
	Short: "Generate a unified profile for a company from its ingested sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Generate(ctx, pipeline.GenerateRequest{
			CompanyName:   args[0],
			CompanyDomain: generateDomain,
		})
		if err != nil {
			if eris.Is(err, pipeline.ErrNoSourceData) {
				return eris.Errorf("no ingested data for %q; ingest sources first", args[0])
			}
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateDomain, "domain", "", "company domain to record on the profile")
	rootCmd.AddCommand(generateCmd)
}
