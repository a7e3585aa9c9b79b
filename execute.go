/*
 *  execute.go
 *  micropan
 *
 *  Created by Haibao Tang on 10/16/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package micropan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Noticef(strings.Repeat("*", len(message)))
	log.Noticef(message)
	log.Noticef(strings.Repeat("*", len(message)))
}

// Execute builds the command tree and runs it, called from cmd/main.go
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand assembles all the sub-commands
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "micropan",
		Short:   "Pan-genome size estimation from pan-matrices",
		Version: Version,
		Long: `micropan: pan-genome analysis of gene cluster presence/absence

A pan-matrix is a table of copy numbers with one row per genome and one
column per gene cluster. The sub-commands reduce it to the histogram of
cluster occurrences and estimate the core and pan-genome sizes.`,
		SilenceUsage: true,
	}
	root.AddCommand(histogramCommand(), binomixCommand(), chaoCommand(), heapsCommand())
	return root
}

func histogramCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "histogram panmatrix.tsv",
		Short: "Count gene clusters by the number of genomes they occur in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := ReadPanMatrix(args[0])
			if err != nil {
				return err
			}
			PrintHistogram(cmd.OutOrStdout(), NewPresenceHistogram(pm))
			return nil
		},
	}
}

func binomixCommand() *cobra.Command {
	var (
		configFile string
		outPrefix  string
		writeNpy   bool
		quiet      bool
	)
	opts := DefaultBinomixOptions()
	cmd := &cobra.Command{
		Use:   "binomix panmatrix.tsv [options]",
		Short: "Estimate core and pan-genome size with binomial mixture models",
		Long: `Binomix function:
Fit zero-truncated binomial mixture models with K components for every K in
the range and compare them by BIC. The component with detection probability
equal to core-detect-prob is the core genome. If the smallest BIC is found
at the largest K, the range should be extended and the fit repeated.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := LoadBinomixOptions(configFile)
				if err != nil {
					return err
				}
				// Flags given on the command line win over the file
				flags := cmd.Flags()
				for name, apply := range map[string]func(){
					"krange":           func() { loaded.KRange = opts.KRange },
					"core-detect-prob": func() { loaded.CoreDetectProb = opts.CoreDetectProb },
					"parallel":         func() { loaded.Parallel = opts.Parallel },
					"optimizer":        func() { loaded.Optimizer = opts.Optimizer },
					"maxit":            func() { loaded.MaxIter = opts.MaxIter },
					"reltol":           func() { loaded.RelTol = opts.RelTol },
					"seed":             func() { loaded.Seed = opts.Seed },
				} {
					if flags.Changed(name) {
						apply()
					}
				}
				opts = loaded
			}
			if quiet {
				opts.Verbose = false
			}
			SetVerbosity(opts.Verbose)

			estimator, err := opts.Estimator()
			if err != nil {
				return err
			}
			pm, err := ReadPanMatrix(args[0])
			if err != nil {
				return err
			}
			banner(fmt.Sprintf("Binomix estimate (K = %s)", arrayToString(opts.KRange, ",")))
			res, err := estimator.Estimate(pm)
			if err != nil {
				return err
			}
			res.PrintComparison(cmd.OutOrStdout())

			if outPrefix == "" {
				outPrefix = RemoveExt(strings.TrimSuffix(args[0], ".gz"))
			}
			if err := res.WriteTables(outPrefix); err != nil {
				return err
			}
			if writeNpy {
				if err := res.WriteDetailNpy(outPrefix + ".detail.npy"); err != nil {
					return err
				}
			}
			best := res.Best()
			log.Noticef("Best model K = %d: core size %d, pan size %d", best.K, best.CoreSize, best.PanSize)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML file with binomix options")
	flags.IntSliceVar(&opts.KRange, "krange", opts.KRange, "Numbers of mixture components to try")
	flags.Float64Var(&opts.CoreDetectProb, "core-detect-prob", opts.CoreDetectProb, "Detection probability of the core genes")
	flags.BoolVar(&opts.Parallel, "parallel", false, "Fit the K values in parallel")
	flags.StringVar(&opts.Optimizer, "optimizer", opts.Optimizer, "Optimizer, neldermead or ga")
	flags.IntVar(&opts.MaxIter, "maxit", opts.MaxIter, "Maximum simplex iterations")
	flags.Float64Var(&opts.RelTol, "reltol", opts.RelTol, "Relative convergence tolerance")
	flags.Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed for the GA optimizer")
	flags.StringVarP(&outPrefix, "out", "o", "", "Prefix of the output tables")
	flags.BoolVar(&writeNpy, "npy", false, "Also write the component table as .npy")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}

func chaoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chao panmatrix.tsv",
		Short: "Chao lower bound of the pan-genome size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := ReadPanMatrix(args[0])
			if err != nil {
				return err
			}
			panSize, err := Chao(NewPresenceHistogram(pm))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), panSize)
			return nil
		},
	}
}

func heapsCommand() *cobra.Command {
	h := NewHeapsEstimator(42)
	cmd := &cobra.Command{
		Use:   "heaps panmatrix.tsv [options]",
		Short: "Fit Heaps' law to decide if the pan-genome is open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pm, err := ReadPanMatrix(args[0])
			if err != nil {
				return err
			}
			fit, err := h.Estimate(pm)
			if err != nil {
				return err
			}
			state := "closed"
			if fit.Open() {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Intercept\t%.4f\nalpha\t%.4f\n", fit.Intercept, fit.Alpha)
			log.Noticef("alpha = %.4f, the pan-genome looks %s", fit.Alpha, state)
			return nil
		},
	}
	cmd.Flags().IntVar(&h.NPerm, "nperm", h.NPerm, "Number of random genome orderings")
	cmd.Flags().Int64Var(&h.Seed, "seed", h.Seed, "Random seed")
	return cmd
}
