package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis: seasonality, recurring patterns, anomalies",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	svc, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.RunAnalysis(cmd.Context(), flagUser, today())
	if err != nil {
		return err
	}

	fmt.Printf("Analysis for user %s\n", flagUser)
	fmt.Println("--------------------------------------------------")

	fmt.Println("\n1. Seasonality:")
	switch {
	case report.Seasonality.InsufficientData:
		fmt.Printf("   Not enough data yet (%d daily points, need 14)\n", report.Seasonality.DataPoints)
	default:
		fmt.Printf("   Mean daily spending: $%.2f\n", report.Seasonality.Mean)
		fmt.Printf("   Std deviation:       $%.2f\n", report.Seasonality.Std)
		if report.Seasonality.DecompositionErr != "" {
			fmt.Printf("   Decomposition unavailable: %s\n", report.Seasonality.DecompositionErr)
		} else if report.Seasonality.HasStrongSeasonality {
			fmt.Printf("   Strong weekly seasonality (strength %.1f%%)\n", report.Seasonality.SeasonalityStrength*100)
		}
	}

	fmt.Println("\n2. Recurring patterns:")
	if len(report.Patterns) == 0 {
		fmt.Println("   No recurring patterns detected")
	}
	for _, p := range report.Patterns {
		fmt.Printf("   - %s: $%.2f (%s) - %.1f%% confidence, %d occurrences\n",
			p.Description, p.Amount, p.Frequency, p.Confidence*100, p.Occurrences)
	}

	fmt.Println("\n3. Anomalies:")
	if len(report.Anomalies) == 0 {
		fmt.Println("   No unusual spending days")
	}
	for _, a := range report.Anomalies {
		fmt.Printf("   - %s: $%.2f (avg $%.2f, z-score %.1f)\n",
			a.Date.Format("2006-01-02"), a.Amount, a.Mean, a.ZScore)
	}

	fmt.Println("\n4. Discretionary baseline:")
	fmt.Printf("   Average daily: $%.2f   Unusual above: $%.2f\n",
		report.Threshold.AvgDailySpending, report.Threshold.Threshold)

	if report.PendingUpserted > 0 {
		fmt.Printf("\n%d pattern(s) queued for confirmation (finsight pending list)\n", report.PendingUpserted)
	}
	return nil
}
