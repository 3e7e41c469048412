// gltfbake converts a glTF 2.0 document into the kai engine's binary mesh asset.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kai-engine/assetbake/internal/bake"
	"github.com/kai-engine/assetbake/internal/config"
	"github.com/kai-engine/assetbake/internal/logger"
)

var errArgCount = errors.New("wrong number of arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	logger.Sync()

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errArgCount):
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		_ = cmd.Usage()
		return 1
	default:
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gltfbake <path to gltf file>",
		Short: "Convert a glTF 2.0 document into a kai mesh asset",
		Long: `gltfbake reads a glTF 2.0 document (.gltf or .glb) with a single mesh and
primitive, interleaves its POSITION and TEXCOORD_n attributes, and writes
<name>.bin to the output directory together with converted textures.`,
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return fmt.Errorf("%w: no arguments supplied", errArgCount)
			case len(args) > 1:
				return fmt.Errorf("%w: too many arguments supplied", errArgCount)
			}
			return nil
		},
		// Every argument is a path, including ones that start with a dash.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}

			report, err := bake.New(cfg).Run(args[0])
			if err != nil {
				logger.Error("bake failed", zap.String("input", args[0]), zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d vertices, %d indices)\n",
				report.MeshPath, report.Header.VertexCount, report.Header.IndexCount)
			for _, p := range report.TexturePaths {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			}
			return nil
		},
	}
}
