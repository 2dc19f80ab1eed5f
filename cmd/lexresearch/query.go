package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"lexresearch-backend/app"
	"lexresearch-backend/service"

	"github.com/spf13/cobra"
)

var (
	topK       int
	maxResults int
	jsonOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank authorities for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Write a research report for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResearch,
}

func init() {
	searchCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of results (default: interactive top_k)")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	researchCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of authorities to retrieve (default: batch top_k)")
	researchCmd.Flags().IntVar(&maxResults, "max-results", service.DefaultMaxResults, "Documents listed in JSON output")
	researchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of the report text")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	query := strings.Join(args, " ")
	result, err := application.Service.Search(ctx, query, topK)
	if err != nil {
		return err
	}

	docs := service.SerializeDocuments(result, len(result.Items))
	if jsonOutput {
		return printJSON(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No authorities matched.")
		return nil
	}
	fmt.Printf("%d result(s) for %q (%s)\n\n", len(docs), query, result.Method)
	for i, d := range docs {
		fmt.Printf("%2d. %s (%s)\n", i+1, d.Title, d.Citation)
		fmt.Printf("    score %.4f  lexical %.4f  dense %.4f  %s\n", d.Score, d.LexicalScore, d.DenseScore, d.PrecedentDirection)
		if len(d.MatchedTerms) > 0 {
			fmt.Printf("    matched: %s\n", strings.Join(d.MatchedTerms, ", "))
		}
	}
	return nil
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.Service.Research(ctx, service.ResearchRequest{
		Query:      strings.Join(args, " "),
		TopK:       topK,
		MaxResults: maxResults,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}
	fmt.Println(result.Report)
	fmt.Fprintf(os.Stderr, "\nsource=%s confidence=%.2f\n", result.Source, result.Confidence)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
