package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/pool"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Validate pool structure and accounting",
		Long: `The verify command checks a pool file for structural integrity: header
sanity, node chain ordering and links, and accounting consistency between
the header counters and the live nodes.

The file is read directly, so corrupted pools that cannot be opened can
still be diagnosed.

Example:
  poolctl verify scratch.pool
  poolctl verify scratch.pool --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

func runVerify(args []string) error {
	path := args[0]

	printVerbose("Reading pool: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pool file: %w", err)
	}

	verr := pool.Validate(data)

	// Prepare result
	result := map[string]interface{}{
		"file":  path,
		"valid": verr == nil,
	}

	var ve *pool.ValidationError
	if errors.As(verr, &ve) {
		result["error"] = ve.Message
		result["check"] = ve.Type
		if ve.Offset >= 0 {
			result["offset"] = ve.Offset
		}
	} else if verr != nil {
		result["error"] = verr.Error()
	}

	// Output as JSON if requested
	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
		return verr
	}

	// Text output
	printInfo("\nValidating %s...\n\n", path)

	if verr != nil {
		if ve != nil && ve.Offset >= 0 {
			printInfo("  ✗ %s check failed at offset 0x%x: %s\n", ve.Type, ve.Offset, ve.Message)
		} else if ve != nil {
			printInfo("  ✗ %s check failed: %s\n", ve.Type, ve.Message)
		} else {
			printInfo("  ✗ Validation failed: %v\n", verr)
		}
		printInfo("\nResult: ✗ INVALID\n")
		return verr
	}

	printInfo("  ✓ Header valid\n")
	printInfo("  ✓ Node chain ordered and linked\n")
	printInfo("  ✓ Accounting consistent\n")
	printInfo("\nResult: ✓ VALID\n")

	return nil
}
