// Package main is the entry point for the vigenere binary.
// It provides encode/decode commands and an HTTP server mode.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duustin25/vigenere-cipher-system/pkg/cipher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for vigenere
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vigenere",
		Short: "Vigenère cipher calculator",
		Long: `A polyalphabetic substitution cipher calculator over fixed alphabets.

Supported alphabets by modulus:
  26  A-Z
  27  A-Z plus space
  37  A-Z, 0-9, plus space

Text and key are uppercased before computation.

Example:
  vigenere encode --key KEY --mod 26 HELLO
  vigenere decode --key KEY --mod 26 RIJVS`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd(), newServeCmd())
	return rootCmd
}

func newEncodeCmd() *cobra.Command {
	return newComputeCmd(
		"encode [text...]",
		"Encode plaintext with a repeating key",
		cipher.ModeEncode,
	)
}

func newDecodeCmd() *cobra.Command {
	return newComputeCmd(
		"decode [text...]",
		"Decode ciphertext with a repeating key",
		cipher.ModeDecode,
	)
}

func newComputeCmd(use, short string, mode cipher.Mode) *cobra.Command {
	var (
		key       string
		mod       int
		showTrace bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, args, mode, key, mod, showTrace)
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Cipher key (required)")
	cmd.Flags().IntVarP(&mod, "mod", "m", 26, "Alphabet modulus (26, 27 or 37)")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Print the per-character arithmetic")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func runCompute(cmd *cobra.Command, args []string, mode cipher.Mode, key string, mod int, showTrace bool) error {
	// Multiple args are joined with spaces so shell-split phrases work
	// with the space-bearing alphabets.
	text := strings.ToUpper(strings.Join(args, " "))

	result, err := cipher.Compute(cipher.Request{
		Text:    text,
		Key:     strings.ToUpper(key),
		Mode:    mode,
		Modulus: mod,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Output)

	if showTrace {
		fmt.Fprint(cmd.OutOrStdout(), formatTrace(result.Trace))
	}

	return nil
}

// formatTrace renders the trace as an aligned table, one row per
// transformed character.
func formatTrace(steps []cipher.TraceStep) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "POS\tIN\tKEY\tFORMULA\tOUT")
	for _, step := range steps {
		fmt.Fprintf(w, "%d\t%c (%d)\t%c (%d)\t%s\t%c\n",
			step.Index,
			step.TextChar, step.TextValue,
			step.KeyChar, step.KeyValue,
			step.Formula,
			step.OutChar,
		)
	}

	_ = w.Flush()
	return sb.String()
}
