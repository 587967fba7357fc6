package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanwk/historygen/internal/chromedb"
)

func init() {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode an existing History database",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}

	cmd.Flags().IntP("limit", "l", 20, "Most recent visits to show")

	RootCmd.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	path := args[0]

	stats, err := chromedb.ReadStats(cmd.Context(), path)
	if err != nil {
		exitErr("inspect", err)
	}
	recent, err := chromedb.ReadRecent(cmd.Context(), path, limit)
	if err != nil {
		exitErr("read visits", err)
	}

	if formatFlag == "text" {
		fmt.Println(renderInspect(stats, recent))
		return
	}
	b, _ := json.MarshalIndent(map[string]any{
		"stats":  stats,
		"recent": recent,
	}, "", "  ")
	fmt.Println(string(b))
}
