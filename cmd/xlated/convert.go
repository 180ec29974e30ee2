package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xlate/xlate"
)

func newConvertCommand(app *application) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert code from a file or stdin and print the JSON result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.initialize(); err != nil {
				return err
			}
			defer app.detach()

			code, err := readCode(cmd, args)
			if err != nil {
				return err
			}

			conversion, err := app.buildConversion(cmd.Context())
			if err != nil {
				return err
			}

			result, pair, err := conversion.FireWithPair(cmd.Context(), xlate.ConversionInput{
				Code:        string(code),
				Instruction: prompt,
			})
			if err != nil {
				return err
			}

			app.logger.WithFields(logrus.Fields{
				"source": pair.Source,
				"target": pair.Target,
			}).Debug("conversion finished")

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "",
		fmt.Sprintf("conversion instruction (default %q)", xlate.DefaultInstruction))

	return cmd
}

// readCode reads the source from the file argument, or stdin when no
// argument (or "-") is given.
func readCode(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
		return code, nil
	}

	code, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return code, nil
}
