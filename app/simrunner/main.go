package main

import (
	"banditLab/business/agents"
	"banditLab/business/env"
	"banditLab/business/eval"
	"banditLab/pkg/loggers"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagActions  int
	flagContexts int
	flagDim      int
	flagSeed     uint64
	flagSigmaP   float64
	flagSteps    int
	flagAgents   []string
	flagOutDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simrunner",
		Short: "Run bandit agents against a contextual logistic environment and compare their regret.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured agents and write step logs and a regret chart",
		RunE:  runAgents,
	}

	runCmd.Flags().IntVar(&flagActions, "actions", 5, "number of actions")
	runCmd.Flags().IntVar(&flagContexts, "contexts", 10, "number of contexts")
	runCmd.Flags().IntVar(&flagDim, "dim", 8, "feature dimension")
	runCmd.Flags().Uint64Var(&flagSeed, "seed", 1, "environment seed")
	runCmd.Flags().Float64Var(&flagSigmaP, "sigma-p", 1.0, "prior scale for the hidden parameter")
	runCmd.Flags().IntVar(&flagSteps, "steps", 2000, "steps per agent")
	runCmd.Flags().StringSliceVar(&flagAgents, "agents", agents.Names, "agents to run")
	runCmd.Flags().StringVar(&flagOutDir, "out", "out", "output directory for CSV logs and the chart")

	listCmd := &cobra.Command{
		Use:   "agents",
		Short: "List the available agents",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(agents.Names, "\n"))
		},
	}

	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAgents(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}

	cfg := env.Config{
		NumActions:  flagActions,
		NumContexts: flagContexts,
		Dim:         flagDim,
		Seed:        flagSeed,
		SigmaP:      flagSigmaP,
	}

	results := make([]eval.Result, 0, len(flagAgents))
	for _, name := range flagAgents {
		result, err := runOne(ctx, cfg, name)
		if err != nil {
			return err
		}

		fmt.Printf("%-16s steps=%d reward=%.0f regret=%.3f\n",
			result.Agent, result.Steps, result.TotalReward, result.CumulativeRegret)
		results = append(results, result)
	}

	chartPath := filepath.Join(flagOutDir, "regret.html")
	if err := eval.WriteRegretChart(chartPath, results); err != nil {
		return fmt.Errorf("failed to write regret chart: %v", err)
	}

	fmt.Printf("regret chart written to %s\n", chartPath)
	return nil
}

// runOne runs a single agent on a fresh environment with the shared config,
// so every agent sees the same reward surface.
func runOne(ctx context.Context, cfg env.Config, name string) (eval.Result, error) {
	environment, err := env.New(cfg)
	if err != nil {
		return eval.Result{}, fmt.Errorf("failed to create environment: %v", err)
	}
	defer environment.Close()

	agent, err := agents.New(name, cfg, cfg.Seed+1)
	if err != nil {
		return eval.Result{}, err
	}

	logPath := filepath.Join(flagOutDir, fmt.Sprintf("steps_%s.csv", name))
	logFile, err := os.Create(logPath)
	if err != nil {
		return eval.Result{}, fmt.Errorf("failed to create step log: %v", err)
	}

	stepLog := loggers.NewCSV(logFile)
	runner := eval.NewRunner(environment, agent, stepLog)

	result, _, err := runner.Run(ctx, flagSteps)
	if cerr := stepLog.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close step log: %v", cerr)
	}
	if err != nil {
		return eval.Result{}, fmt.Errorf("agent %s failed: %v", name, err)
	}

	return result, nil
}
