package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <company-name>",
	Short: "Print the stored profile and industry mapping for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.GetProfile(ctx, args[0])
		if err != nil {
			return err
		}
		if profile == nil {
			return eris.Errorf("no profile stored for %q", args[0])
		}

		mapping, err := st.GetIndustryMapping(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(map[string]any{
			"profile":          profile,
			"industry_mapping": mapping,
		}, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal profile")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
