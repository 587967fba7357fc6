package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanwk/historygen/internal/generate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Chrome History database file",
		Run:   runGenerate,
	}

	cmd.Flags().IntP("weeks", "w", 3, "Weeks of history to generate")
	cmd.Flags().Int64P("seed", "s", 0, "Seed (omit to draw one)")
	cmd.Flags().StringP("out", "o", "History", "Output file path")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	weeks, _ := cmd.Flags().GetInt("weeks")
	out, _ := cmd.Flags().GetString("out")

	svc, _, err := newService(cmd)
	if err != nil {
		exitErr("configure", err)
	}

	f, err := os.Create(out)
	if err != nil {
		exitErr("create output", err)
	}

	res, err := svc.Generate(cmd.Context(), generate.Request{
		Weeks: weeks,
		Seed:  seedFlag(cmd),
	}, f)
	if err != nil {
		f.Close()
		os.Remove(out)
		exitErr("generate", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		exitErr("close output", err)
	}

	if formatFlag == "text" {
		fmt.Println(renderResult(res, out))
		return
	}
	b, _ := json.MarshalIndent(map[string]any{
		"seed":         res.Seed,
		"weeks":        res.Weeks,
		"total_visits": res.TotalVisits,
		"output":       out,
	}, "", "  ")
	fmt.Println(string(b))
}
