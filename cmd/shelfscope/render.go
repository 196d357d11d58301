package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shelfscope/controller"
	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/helpers"
	"github.com/spektr-org/shelfscope/render/svg"
)

var (
	renderOutDir string
	renderCharts []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Export charts as SVG files",
	Long: `Render charts to <out-dir>/<chart>.svg at the configured width and
height (--width, --height, in pixels).

Examples:
  shelfscope render --file books.csv
  shelfscope render --file books.csv --chart heatmap --out-dir site/img --width 1200`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "charts", "Directory for the SVG files")
	renderCmd.Flags().StringSliceVar(&renderCharts, "chart", nil, "Charts to render (default: all)")
}

func runRender(cmd *cobra.Command, _ []string) error {
	if err := requireFile(); err != nil {
		return err
	}
	kinds, err := parseKinds(renderCharts)
	if err != nil {
		return err
	}

	loader := helpers.NewSharedLoader(newLoader())
	backend := svg.NewBackend(svg.DirWriter(renderOutDir))

	for _, kind := range kinds {
		in := controller.New(kind, backend,
			controller.WithLoader(loader),
			controller.WithHeight(settings.Height),
			controller.WithEngineOptions(settings.EngineOptions()...),
			controller.WithLogger(logger),
		)

		// Load before attaching so each chart is drawn exactly once.
		if err := <-in.Load(cmd.Context(), filePath); err != nil {
			in.Close()
			return err
		}
		before := backend.Drawn()
		err := in.Attach(controller.FixedWidth(settings.Width))
		in.Close()
		if err != nil {
			return err
		}
		if backend.Drawn() == before {
			return fmt.Errorf("%s was not drawn at %dx%d", kind, settings.Width, settings.Height)
		}
		logger.Info().Str("path", filepath.Join(renderOutDir, string(kind)+".svg")).Msg("chart written")
	}
	logger.Info().Int("charts", backend.Drawn()).Msg("render complete")
	return nil
}

func parseKinds(names []string) ([]engine.ChartKind, error) {
	if len(names) == 0 {
		return engine.ChartKinds, nil
	}
	kinds := make([]engine.ChartKind, 0, len(names))
	for _, n := range names {
		k, ok := engine.ParseChartKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown chart %q", n)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
