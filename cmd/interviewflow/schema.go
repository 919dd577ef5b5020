package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	httpadapter "github.com/embld/interviewflow/pkg/adapters/http"
	"github.com/embld/interviewflow/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the interview state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if openapi, _ := cmd.Flags().GetBool("openapi"); openapi {
			doc, err := httpadapter.GetSwagger()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().Bool("openapi", false, "Print the HTTP API description instead")
}
