package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

func benchCmd() *cobra.Command {
	var (
		widths  []int
		heights []int
		iters   int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure propagation latency across signal/memo graphs",
		Long: `bench builds W independent memo chains of depth H off a single
source signal, attaches an effect to the end of each chain, then times how
long a source write takes to propagate through the whole graph.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(widths, heights, iters)
		},
	}

	cmd.Flags().IntSliceVar(&widths, "width", []int{1, 10, 100, 1000}, "memo chains per graph")
	cmd.Flags().IntSliceVar(&heights, "height", []int{1, 10, 100}, "memos per chain")
	cmd.Flags().IntVar(&iters, "iters", 100, "timed writes per graph shape")

	return cmd
}

func runBench(widths, heights []int, iters int) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Pulse propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	var totalWrites, totalRecomputes, totalEffectRuns uint64

	for _, w := range widths {
		for _, h := range heights {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rt := pulse.NewRuntime()
			src := pulse.NewSignal(rt, 1)
			for i := 0; i < w; i++ {
				last := func() int { return src.Get() }
				for j := 0; j < h; j++ {
					prev := last
					m := pulse.NewMemo(rt, func() int { return prev() + 1 })
					last = func() int { return m.Get() }
				}
				end := last
				pulse.NewEffect(rt, func() pulse.Cleanup {
					end()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Update(func(v int) int { return v + 1 })
				tach.AddTime(time.Since(start))
			}

			stats := rt.Stats()
			totalWrites += stats.SignalNotifies
			totalRecomputes += stats.MemoRecomputes
			totalEffectRuns += stats.EffectRuns

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()

	fmt.Printf("\n%s writes, %s memo recomputes, %s effect runs\n",
		humanize.Comma(int64(totalWrites)),
		humanize.Comma(int64(totalRecomputes)),
		humanize.Comma(int64(totalEffectRuns)),
	)

	return nil
}
