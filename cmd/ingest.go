package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fusionlabs/profilegen/internal/ingest"
	"github.com/fusionlabs/profilegen/internal/model"
)

var (
	ingestCompany string
	ingestFile    string
	ingestURL     string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <source>",
	Short: "Ingest text for a company into a source collection (website, product, jobs, news)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source := model.Source(args[0])
		if !source.Valid() {
			return eris.Errorf("unknown source %q (want website, product, jobs or news)", args[0])
		}
		if ingestCompany == "" {
			return eris.New("--company is required")
		}
		if ingestFile == "" && ingestURL == "" {
			return eris.New("one of --file or --url is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := ingest.Request{CompanyName: ingestCompany, URL: ingestURL}
		if ingestFile != "" {
			data, err := os.ReadFile(ingestFile)
			if err != nil {
				return eris.Wrapf(err, "read %s", ingestFile)
			}
			req.Text = string(data)
			req.URL = ""
		}

		result, err := env.Ingest.Ingest(ctx, source, req)
		if err != nil {
			return err
		}

		fmt.Printf("stored %d chunks for %s (%s)\n", result.Chunks, result.CompanyName, result.Source)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCompany, "company", "", "company name (required)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "path to a text file to ingest")
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "URL to fetch and ingest")
	rootCmd.AddCommand(ingestCmd)
}
