// Command ask answers wildfire forecast questions from the terminal, against
// the same snapshot chatd serves. With a question argument it prints one
// reply and exits; without one it runs an interactive loop.
//
// Usage:
//
//	ask --snapshot data/predictions_snapshot.csv "Top 5 estados para 2025-06"
//	ask --snapshot data/predictions_snapshot.csv
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cerradowatch/fire-risk-chat/internal/adapter/snapshot"
	"github.com/cerradowatch/fire-risk-chat/internal/domain"
	"github.com/cerradowatch/fire-risk-chat/internal/interpreter"
	"github.com/cerradowatch/fire-risk-chat/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer wildfire forecast questions from a prediction snapshot",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interp, err := buildInterpreter(snapshotPath)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				question := strings.Join(args, " ")
				fmt.Fprintln(cmd.OutOrStdout(), interp.Answer(cmd.Context(), question))
				return nil
			}
			return runREPL(cmd, interp)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "data/predictions_snapshot.csv", "path to the prediction snapshot CSV")
	return cmd
}

func buildInterpreter(snapshotPath string) (*interpreter.Interpreter, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	table, err := snapshot.NewLoader(domain.NewRegionDirectory(), logger).LoadFile(snapshotPath)
	if err != nil {
		return nil, err
	}
	return interpreter.New(table, nil, nil, logger, observability.NewMetrics()), nil
}

func runREPL(cmd *cobra.Command, interp *interpreter.Interpreter) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Digite sua pergunta (ou 'sair' para encerrar).")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "sair") {
			break
		}
		fmt.Fprintln(out, interp.Answer(cmd.Context(), question))
	}
	return scanner.Err()
}
