package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/framearena"
)

// valuesCommand fills nested frames of a value stack and reports metrics at
// the deepest point.
type valuesCommand struct {
	g        *globals
	depth    *int
	perFrame *int
}

func (cmd *valuesCommand) run(_ *kingpin.ParseContext) error {
	blockSize, opts, err := cmd.g.options(framearena.ValidateStack[int64])
	if err != nil {
		return err
	}
	s := framearena.NewStack[int64](blockSize, opts...)
	defer s.Release()

	var descend func(s *framearena.Stack[int64], level int) error
	descend = func(s *framearena.Stack[int64], level int) error {
		for i := 0; i < *cmd.perFrame; i++ {
			s.Push(int64(level*(*cmd.perFrame) + i))
		}
		if level+1 < *cmd.depth {
			var err error
			s.Run(func(s *framearena.Stack[int64]) { err = descend(s, level+1) })
			return err
		}
		return printMetrics(s)
	}
	return descend(s, 0)
}

func printMetrics(src framearena.MetricsSource) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(framearena.NewCollector("framedump", src, nil)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	m := src.Metrics()
	color.New(color.Bold).Println("Arena:")
	fmt.Printf("\tin use: %v of %v in %d blocks, %d frames, %d entries\n",
		humanize.Bytes(uint64(m.SizeInUse)),
		humanize.Bytes(uint64(m.Capacity)),
		m.NumBlocks,
		m.Depth,
		m.Entries)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Printf("\t%s %g\n", mf.GetName(), metric.GetGauge().GetValue())
		}
	}
	return nil
}

func addValuesCommand(app *kingpin.Application, g *globals) {
	cmd := &valuesCommand{g: g}
	c := app.Command("values", "Push values into nested frames and print metrics.").Action(cmd.run)
	cmd.depth = c.Flag("depth", "Number of nested frames.").Default("8").Int()
	cmd.perFrame = c.Flag("per-frame", "Values pushed into each frame.").Default("32").Int()
}
