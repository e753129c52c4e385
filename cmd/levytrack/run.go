package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cwbudde/algo-levy/config"
	"github.com/cwbudde/algo-levy/filter"
	"github.com/cwbudde/algo-levy/measure/consistency"
	"github.com/cwbudde/algo-levy/sim"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// filterSeedOffset separates the filter's driver seeds from the truth's.
const filterSeedOffset = 1_000_003

type stepRow struct {
	step  int
	time  float64
	truth []float64
	est   []float64
	ess   float64
	nis   float64
	nees  float64
	degen bool
}

type summary struct {
	particles  int
	steps      int
	filterRMSE float64
	measRMSE   float64
	ess        consistency.Running
	nis        consistency.Running
	nees       consistency.Running
	innov      consistency.Running
	degenerate int
	whiteness  *consistency.Result
	measDim    int
	stateDim   int
	rows       []stepRow
}

func doRun(cmd *cobra.Command, args []string) error {
	logger, closer, err := newLogger(cmd)
	if err != nil {
		return err
	}

	defer closer.Close()

	s := config.Default()
	if len(args) == 1 {
		if s, err = config.Load(args[0]); err != nil {
			return err
		}
	}

	for flag, dst := range map[string]*int{
		"particles": &s.Filter.Particles,
		"workers":   &s.Filter.Workers,
		"steps":     &s.Simulation.Steps,
	} {
		v, err := cmd.Flags().GetInt(flag)
		if err != nil {
			return err
		}

		if v > 0 {
			*dst = v
		}
	}

	every, err := cmd.Flags().GetInt("every")
	if err != nil {
		return err
	}

	style, err := cmd.Flags().GetString("style")
	if err != nil {
		return err
	}

	sum, err := runScenario(s, logger)
	if err != nil {
		return err
	}

	if every > 0 {
		renderSteps(newTable(cmd.OutOrStdout(), style), sum.rows, every)
	}

	renderSummary(newTable(cmd.OutOrStdout(), style), sum)

	return nil
}

func runScenario(s *config.Scenario, logger *slog.Logger) (*summary, error) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	truthModel, err := s.Model(0)
	if err != nil {
		return nil, err
	}

	truthMeas, err := s.MeasurementFor(truthModel)
	if err != nil {
		return nil, err
	}

	tr, err := sim.Simulate(truthModel, truthMeas, mat.NewVecDense(truthModel.Dim(), nil), s.SimConfig(start), s.SimRand())
	if err != nil {
		return nil, err
	}

	logger.Info("simulated truth", slog.Int("steps", tr.Steps()), slog.Int("state_dim", truthModel.Dim()))

	m, err := s.Model(filterSeedOffset)
	if err != nil {
		return nil, err
	}

	meas, err := s.MeasurementFor(m)
	if err != nil {
		return nil, err
	}

	opts, err := s.FilterOptions(logger)
	if err != nil {
		return nil, err
	}

	ens, err := s.InitialEnsemble(start, m.Dim())
	if err != nil {
		return nil, err
	}

	f, err := filter.New(m, meas, ens, opts...)
	if err != nil {
		return nil, err
	}

	sum := &summary{
		particles: s.Filter.Particles,
		steps:     tr.Steps(),
		measDim:   meas.Dim(),
		stateDim:  m.Dim(),
	}

	estimates := make([]*mat.VecDense, 0, tr.Steps())
	measured := make([][]float64, 0, tr.Steps())
	truePos := make([][]float64, 0, tr.Steps())
	normalized := make([]float64, 0, tr.Steps())

	began := time.Now()
	for k, z := range tr.Measurements {
		post, err := f.Step(tr.Times[k+1], z)
		var degenerate *filter.DegenerateError
		switch {
		case errors.As(err, &degenerate) && post != nil:
			sum.degenerate++
		case err != nil:
			return nil, fmt.Errorf("step %d: %w", k+1, err)
		}

		res := f.LastResult()
		truth := tr.States[k+1]
		est := post.Mean()
		estimates = append(estimates, est)
		measured = append(measured, z.RawVector().Data)
		truePos = append(truePos, m.Positions(truth))

		nis, err := consistency.NIS(res.Innovation, res.InnovationCov)
		if err != nil {
			nis = math.NaN()
		}

		nees, err := consistency.NEES(truth, est, post.Covariance())
		if err != nil {
			nees = math.NaN()
		}

		if v := res.InnovationCov.At(0, 0); v > 0 {
			normalized = append(normalized, res.Innovation.AtVec(0)/math.Sqrt(v))
			sum.innov.Add(normalized[len(normalized)-1])
		}

		sum.ess.Add(res.ESS)
		sum.nis.Add(nis)
		sum.nees.Add(nees)
		sum.rows = append(sum.rows, stepRow{
			step:  k + 1,
			time:  tr.Times[k+1].Sub(start).Seconds(),
			truth: m.Positions(truth),
			est:   m.Positions(est),
			ess:   res.ESS,
			nis:   nis,
			nees:  nees,
			degen: degenerate != nil,
		})
	}

	if sum.filterRMSE, err = consistency.PositionRMSE(estimates, tr.States[1:], m.PositionIndices()); err != nil {
		return nil, err
	}

	if sum.measRMSE, err = consistency.RMSE(measured, truePos); err != nil {
		return nil, err
	}

	if w, err := consistency.Whiteness(normalized, consistency.Config{}); err == nil {
		sum.whiteness = &w
	} else {
		logger.Warn("whiteness test skipped", slog.String("reason", err.Error()))
	}

	logger.Info("filter finished",
		slog.Duration("elapsed", time.Since(began)),
		slog.Float64("rmse", sum.filterRMSE),
		slog.Int("degenerate", sum.degenerate))

	return sum, nil
}

func renderSteps(w table.Writer, rows []stepRow, every int) {
	w.AppendHeader(table.Row{"STEP", "TIME", "TRUE POS", "EST POS", "ESS", "NIS", "NEES", "DEGENERATE"})
	for _, r := range rows {
		if r.step%every != 0 {
			continue
		}

		w.AppendRow(table.Row{
			r.step,
			fmt.Sprintf("%.2f", r.time),
			formatVec(r.truth),
			formatVec(r.est),
			fmt.Sprintf("%.1f", r.ess),
			fmt.Sprintf("%.3f", r.nis),
			fmt.Sprintf("%.3f", r.nees),
			r.degen,
		})
	}

	w.Render()
}

func renderSummary(w table.Writer, s *summary) {
	ess, nis, nees, innov := s.ess.Summary(), s.nis.Summary(), s.nees.Summary(), s.innov.Summary()
	w.AppendHeader(table.Row{"METRIC", "VALUE"})
	w.AppendRows([]table.Row{
		{"particles", s.particles},
		{"steps", s.steps},
		{"position RMSE", fmt.Sprintf("%.4f", s.filterRMSE)},
		{"measurement RMSE", fmt.Sprintf("%.4f", s.measRMSE)},
		{"mean ESS", fmt.Sprintf("%.1f (min %.1f)", ess.Mean, ess.Min)},
		{fmt.Sprintf("mean NIS (dof %d)", s.measDim), fmt.Sprintf("%.3f", nis.Mean)},
		{fmt.Sprintf("mean NEES (dof %d)", s.stateDim), fmt.Sprintf("%.3f", nees.Mean)},
		{"innovation excess kurtosis", fmt.Sprintf("%.3f", innov.ExcessKurtosis)},
		{"degenerate updates", s.degenerate},
	})
	if s.whiteness != nil {
		w.AppendRow(table.Row{"Ljung-Box p-value", fmt.Sprintf("%.4f", s.whiteness.PValue)})
		w.AppendRow(table.Row{"innovations white", s.whiteness.White})
	}

	w.Render()
}

func formatVec(v []float64) string {
	out := ""
	for i, x := range v {
		if i > 0 {
			out += " "
		}

		out += fmt.Sprintf("%8.3f", x)
	}

	return out
}
