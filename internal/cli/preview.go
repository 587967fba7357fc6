package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanwk/historygen/internal/generate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a generated history without producing the artifact",
		Run:   runPreview,
	}

	cmd.Flags().IntP("weeks", "w", 1, "Weeks of history to generate")
	cmd.Flags().Int64P("seed", "s", 0, "Seed (omit to draw one)")
	cmd.Flags().IntP("limit", "l", 0, "Preview entries to show (default from config)")

	RootCmd.AddCommand(cmd)
}

func runPreview(cmd *cobra.Command, args []string) {
	weeks, _ := cmd.Flags().GetInt("weeks")
	limit, _ := cmd.Flags().GetInt("limit")

	svc, _, err := newService(cmd)
	if err != nil {
		exitErr("configure", err)
	}

	pv, err := svc.Preview(cmd.Context(), generate.Request{
		Weeks: weeks,
		Seed:  seedFlag(cmd),
		Limit: limit,
	})
	if err != nil {
		exitErr("preview", err)
	}

	if formatFlag == "text" {
		fmt.Println(renderPreview(pv))
		return
	}
	b, _ := json.MarshalIndent(pv, "", "  ")
	fmt.Println(string(b))
}
