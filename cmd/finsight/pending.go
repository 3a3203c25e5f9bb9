package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagDueDay int

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Review auto-detected recurring payment candidates",
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending confirmations",
	RunE:  runPendingList,
}

var pendingConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Promote a pending confirmation to a recurring payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingConfirm,
}

var pendingRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Discard a pending confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingReject,
}

func init() {
	pendingConfirmCmd.Flags().IntVar(&flagDueDay, "due-day", 0, "Due day override (derived from the matched transactions when unset)")
	pendingCmd.AddCommand(pendingListCmd, pendingConfirmCmd, pendingRejectCmd)
	rootCmd.AddCommand(pendingCmd)
}

func runPendingList(cmd *cobra.Command, _ []string) error {
	_, st, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	pending, err := st.ListPendingConfirmations(cmd.Context(), flagUser)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending confirmations.")
		return nil
	}
	for _, pc := range pending {
		fmt.Printf("%s  %-30s $%.2f  %-10s %.1f%% confidence\n",
			pc.ID, pc.Description, pc.Amount, pc.Frequency, pc.Confidence*100)
	}
	return nil
}

func runPendingConfirm(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	rp, err := svc.ConfirmPending(cmd.Context(), args[0], flagDueDay, today())
	if err != nil {
		return err
	}
	fmt.Printf("Confirmed %s: $%.2f %s, due day %d\n", rp.Name, rp.Amount, rp.Frequency, rp.DueDay)
	return nil
}

func runPendingReject(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.RejectPending(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Rejected.")
	return nil
}
