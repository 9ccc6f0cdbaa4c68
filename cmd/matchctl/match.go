package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"persona-match/internal/app"
	"persona-match/internal/domain/matching"
	"persona-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the active job pool for a persona",
	Long:  "Loads the persona's preferences, scores every active job and prints the ranked result as a table or as JSON.",
	RunE:  runMatch,
}

var (
	matchUser     string
	matchPersona  string
	matchMinScore int
	matchLimit    int
	matchOffset   int
	matchOutput   string
)

func init() {
	matchCmd.Flags().StringVarP(&matchUser, "user", "u", "", "Owner user id (required)")
	matchCmd.Flags().StringVarP(&matchPersona, "persona", "p", "", "Persona id (required)")
	matchCmd.Flags().IntVar(&matchMinScore, "min-score", 0, "Drop matches scoring below this value (0-100)")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 20, "Maximum number of matches to print, 0 for all")
	matchCmd.Flags().IntVar(&matchOffset, "offset", 0, "Number of ranked matches to skip")
	matchCmd.Flags().StringVarP(&matchOutput, "output", "o", "table", "Output format: table or json")

	if err := matchCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("persona"); err != nil {
		panic(fmt.Sprintf("failed to mark persona flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(strings.TrimSpace(matchUser))
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	personaID, err := uuid.Parse(strings.TrimSpace(matchPersona))
	if err != nil {
		return fmt.Errorf("invalid --persona: %w", err)
	}
	if matchOutput != "table" && matchOutput != "json" {
		return fmt.Errorf("invalid --output %q: want table or json", matchOutput)
	}

	cfg := cliConfig()
	log, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := app.NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	items, err := c.PersonaMatch.MatchJobsForPersona(contextOf(cmd), userID, personaID, usecase.MatchOptions{
		MinScore: matchMinScore,
		Limit:    matchLimit,
		Offset:   matchOffset,
	})
	if err != nil {
		return err
	}

	if matchOutput == "json" {
		return writeMatchesJSON(cmd.OutOrStdout(), items)
	}
	return writeMatchesTable(cmd.OutOrStdout(), items)
}

func writeMatchesJSON(w io.Writer, items []matching.MatchedJob) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeMatchesTable(w io.Writer, items []matching.MatchedJob) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no matching jobs")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tTITLE\tCOMPANY\tLOCATION\tWHY")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			matchOffset+i+1, it.Score, it.Job.Title, it.Job.Company, it.Job.Location, it.Explanation)
	}
	return tw.Flush()
}
