package main

import (
	"fmt"

	"github.com/cwbudde/algo-levy/config"
	"github.com/cwbudde/algo-levy/levy"
	"github.com/cwbudde/algo-levy/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func doMoments(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	get := func(name string) float64 {
		v, _ := flags.GetFloat64(name)
		return v
	}

	noise, err := flags.GetString("noise-case")
	if err != nil {
		return err
	}

	draws, err := flags.GetInt("draws")
	if err != nil {
		return err
	}

	seed, err := flags.GetUint64("seed")
	if err != nil {
		return err
	}

	style, err := flags.GetString("style")
	if err != nil {
		return err
	}

	dc := config.DriverConfig{
		Alpha:     get("alpha"),
		C:         get("c"),
		MuW:       get("mu-w"),
		SigmaW2:   get("sigma-w2"),
		NoiseCase: noise,
		Seed:      seed,
	}

	p, err := dc.DriverParams(0)
	if err != nil {
		return err
	}

	d, err := levy.NewDriver(p)
	if err != nil {
		return err
	}

	axis, err := model.NewLangevin(get("theta"), d)
	if err != nil {
		return err
	}

	dt := get("dt")

	w := newTable(cmd.OutOrStdout(), style)
	w.AppendHeader(table.Row{"DRAW", "JUMPS", "EPSILON", "MEAN X", "MEAN V", "VAR X", "COV XV", "VAR V"})
	for i := 1; i <= draws; i++ {
		path, err := d.Draw(dt)
		if err != nil {
			return err
		}

		mom, err := axis.MomentsFromPath(path)
		if err != nil {
			return err
		}

		w.AppendRow(table.Row{
			i,
			path.Len(),
			fmt.Sprintf("%.3g", path.Epsilon),
			fmt.Sprintf("%.4g", mom.Mean.AtVec(0)),
			fmt.Sprintf("%.4g", mom.Mean.AtVec(1)),
			fmt.Sprintf("%.4g", mom.Cov.At(0, 0)),
			fmt.Sprintf("%.4g", mom.Cov.At(0, 1)),
			fmt.Sprintf("%.4g", mom.Cov.At(1, 1)),
		})
	}

	w.Render()

	return nil
}

func doConfig(cmd *cobra.Command, _ []string) error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
