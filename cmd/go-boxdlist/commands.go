package main

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
	"github.com/tartampluch/go-boxdlist/internal/export"
	"github.com/tartampluch/go-boxdlist/internal/locale"
	"github.com/tartampluch/go-boxdlist/internal/server"
	"github.com/tartampluch/go-boxdlist/internal/ui"
)

// exportOptions describes one batch run: where the diary is, where the list goes.
type exportOptions struct {
	Input  string
	OutDir string
	Name   string
	List   diary.ListConfig
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{List: diary.DefaultListConfig()}

	cmd := &cobra.Command{
		Use:   config.CmdUseExport,
		Short: config.CmdShortExport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), afero.NewOsFs(), diary.NewGenerator(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Input, config.FlagInput, config.DefaultDiaryPath, config.FlagDescInput)
	f.StringVar(&opts.OutDir, config.FlagOutDir, config.DefaultOutDir, config.FlagDescOutDir)
	f.StringVar(&opts.Name, config.FlagName, "", config.FlagDescName)
	f.StringVar(&opts.List.Kind, config.FlagList, config.DefaultListKind, config.FlagDescList)
	f.IntVar(&opts.List.Year, config.FlagYear, 0, config.FlagDescYear)
	f.IntVar(&opts.List.Month, config.FlagMonth, 0, config.FlagDescMonth)
	f.IntVar(&opts.List.Day, config.FlagDay, 0, config.FlagDescDay)
	f.IntVar(&opts.List.TopN, config.FlagTop, config.DefaultTopN, config.FlagDescTop)
	f.BoolVar(&opts.List.IncludeRewatches, config.FlagIncludeRewatches, false, config.FlagDescIncludeRewatches)
	f.BoolVar(&opts.List.Ascending, config.FlagAscending, false, config.FlagDescAscending)
	f.StringVar(&opts.List.Format, config.FlagFormat, config.DefaultFormat, config.FlagDescFormat)
	return cmd
}

// runExport loads the diary, builds the list and writes it to <OutDir>/<Name><ext>.
func runExport(ctx context.Context, out io.Writer, fsys afero.Fs, gen *diary.Generator, opts exportOptions) error {
	src := diary.NewFileSource(fsys, opts.Input)
	data, entries, err := gen.Run(ctx, src, opts.List)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name = opts.List.DefaultName(gen.Now())
	}

	exp := &export.FileExporter{Fs: fsys, Dir: opts.OutDir}
	path, err := exp.Write(name, opts.List.Extension(), data)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, config.MsgExportOutput, len(entries), path)
	return nil
}

func newServeCmd() *cobra.Command {
	var (
		addr  string
		rps   float64
		burst int
	)

	cmd := &cobra.Command{
		Use:   config.CmdUseServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.NewListServer(addr, diary.NewGenerator(), locale.Load())
			srv.RPS = rps
			srv.Burst = burst
			return srv.Start(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, config.FlagAddr, config.DefaultAddr, config.FlagDescAddr)
	f.Float64Var(&rps, config.FlagRPS, config.DefaultRPS, config.FlagDescRPS)
	f.IntVar(&burst, config.FlagBurst, config.DefaultBurst, config.FlagDescBurst)
	return cmd
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseGUI,
		Short: config.CmdShortGUI,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context())
		},
	}
}

// runGUI starts the Fyne application and blocks until its window closes.
func runGUI(ctx context.Context) error {
	a := app.NewWithID(config.AppID)
	gui := ui.NewDiaryListApp(a, ctx, diary.NewGenerator(), locale.Load())
	gui.Run()
	return nil
}
