// Command shaderkit transpiles, checks and hot-reloads SSL shader programs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/shaderkit"
	_ "github.com/gogpu/shaderkit/backend/native"
	"github.com/gogpu/shaderkit/internal/config"
)

func main() {
	var (
		configPath  string
		assetsRoot  string
		backendName string
		cfg         *config.Config
	)

	rootCmd := &cobra.Command{
		Use:           "shaderkit",
		Short:         "SSL shader transpiler and program checker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if assetsRoot != "" {
				cfg.Assets.Root = assetsRoot
			}
			if backendName != "" {
				cfg.Backend.Name = backendName
			}
			logger, err := cfg.Log.NewLogger(os.Stderr)
			if err != nil {
				return err
			}
			shaderkit.SetLogger(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&assetsRoot, "assets", "", "Asset root folder (overrides assets.root)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Backend name (overrides backend.name)")

	var (
		includes []string
		strict   bool
		outPath  string
	)
	transpileCmd := &cobra.Command{
		Use:   "transpile <unit>",
		Short: "Transpile an SSL unit with its includes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranspile(args[0], includes, strict, outPath)
		},
	}
	transpileCmd.Flags().StringArrayVar(&includes, "include", nil, "Include file (repeatable)")
	transpileCmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed directives and unresolved imports")
	transpileCmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")

	checkCmd := &cobra.Command{
		Use:   "check <descriptor>",
		Short: "Load, compile and link a program descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), cfg, args[0])
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch <descriptor>...",
		Short: "Recompile program descriptors whenever their files change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	var (
		stageName string
		entry     string
	)
	translateCmd := &cobra.Command{
		Use:   "translate <wgsl>",
		Short: "Translate a WGSL shader to GLSL 4.50",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.OutOrStdout(), args[0], stageName, entry)
		},
	}
	translateCmd.Flags().StringVar(&stageName, "stage", "fragment", "Shader stage")
	translateCmd.Flags().StringVar(&entry, "entry", "", "Entry point (default: first of the stage)")

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Run: func(cmd *cobra.Command, args []string) {
			runBackends(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(transpileCmd, checkCmd, watchCmd, translateCmd, backendsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
