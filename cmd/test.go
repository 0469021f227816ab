package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listnode/result"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the configured credentials",
	Long:  `Log in to the API with the configured credentials, log out again and show the reference data counts.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing login to %s as %s...\n", cfg.API.URL, cfg.API.Login)

	if res := api.Check(ctx); !res.IsOk() {
		return fmt.Errorf("login failed: %w", res.Failure())
	}
	fmt.Println("✓ Login and logout successful!")

	tags := api.Tags(ctx)
	fields := api.Fields(ctx)
	lists := api.Lists(ctx)

	fmt.Printf("\nAccount reference data:\n")
	printCount("Tags", len(tags.Value()), tags.Failure())
	printCount("Custom fields", len(fields.Value()), fields.Failure())
	printCount("Lists", len(lists.Value()), lists.Failure())

	if lists.IsOk() && len(lists.Value()) > 0 {
		fmt.Printf("\nLists:\n")
		for _, l := range lists.Value() {
			fmt.Printf("  • %s (ID: %s, %d subscribers)\n", l.Name, l.ID, l.Subscribers)
		}
	}

	return nil
}

func printCount(label string, n int, f *result.Failure) {
	if f != nil {
		fmt.Printf("- %s: unavailable (%s)\n", label, f.Message)
		return
	}
	fmt.Printf("- %s: %d\n", label, n)
}
