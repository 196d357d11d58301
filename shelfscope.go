// Package shelfscope turns book catalogues into three charts: a ranked
// genre bar chart, a rating × publication-decade heatmap, and a
// parallel-coordinates view over the numeric columns.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/shelfscope/controller"
//	    "github.com/spektr-org/shelfscope/engine"
//	    "github.com/spektr-org/shelfscope/render/svg"
//	)
//
//	in := controller.New(engine.ChartHeatmap, svg.NewBackend(svg.DirWriter("charts")),
//	    controller.WithEngineOptions(engine.WithYearRange(1950, math.Inf(1))),
//	)
//	defer in.Close()
//	<-in.Load(ctx, "books.csv.gz")
//	in.Attach(controller.FixedWidth(960))
//
// The engine is pure: Execute(kind, dataset, opts...) always returns a
// render-ready Result and never an error. Loading, resizing and drawing
// live in helpers, controller and render respectively.
package shelfscope
