package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finsight/backend/internal/service"
)

var flagForecastJSON bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "30-day spending forecast",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagForecastJSON, "json", false, "Emit the forecast as JSON")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	svc, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	forecast, err := svc.Forecast(cmd.Context(), flagUser, today())
	if err != nil {
		return err
	}
	view := service.NewForecastView(forecast)

	if flagForecastJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Printf("Forecast %s to %s\n", view.ForecastPeriod.Start, view.ForecastPeriod.End)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Recurring obligations:    $%.2f\n", view.DeterministicSpend)
	fmt.Printf("Projected discretionary:  $%.2f ($%.2f/day)\n", view.ProjectedDiscretionary, view.AvgDailyDiscretionary)
	fmt.Printf("Total forecast:           $%.2f\n", view.TotalForecast)

	if len(view.PaymentSchedule) > 0 {
		fmt.Println("\nScheduled payments:")
		for _, sp := range view.PaymentSchedule {
			fmt.Printf("   %s  %-30s $%.2f\n", sp.Date, sp.Name, sp.Amount)
		}
	}
	return nil
}
