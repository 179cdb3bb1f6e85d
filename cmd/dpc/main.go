package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dpc/canvas"
	"dpc/common"
	"dpc/config"
	"dpc/export"
	"dpc/gen"
	"dpc/misc"
	"dpc/page"
	"dpc/state"
	"dpc/store"
	debugutil "dpc/utils/debug"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			// we do not want any of your secrets!
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt.
	// NOTE: normally in cli tool this is not necessary, but generation and
	// export calls may run for a while, let's follow the rules
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "authoring and export engine for product detail pages",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "generate",
				Usage:        "Generates photography scenario blocks for a product",
				OnUsageError: usageErrorHandler,
				Action:       gen.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "project", Aliases: []string{"p"},
						Usage: "target project `NAME`, created when missing (default: product description)"},
					&cli.StringFlag{Name: "category", Usage: "product category `KEY` adding art direction (see catalog)"},
					&cli.StringFlag{Name: "style", Usage: "visual style `KEY` adding art direction (see catalog)"},
					&cli.IntFlag{Name: "scenes", Aliases: []string{"n"}, Usage: "`NUMBER` of scenarios to request"},
					&cli.StringFlag{Name: "images", Usage: "also generate one image per scenario into `DIR`, filling empty primary slots"},
				},
				ArgsUsage: "PRODUCT...",
				CustomHelpTemplate: fmt.Sprintf(`%s
PRODUCT:
    free form product description, all arguments are joined into one phrase

Running against an existing project regenerates scenario text in place.
Manually edited body copy is kept, clear the edit to pick up regenerated
text. Scenarios past the current block count are appended as new blocks.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "export",
				Usage:        "Flattens project blocks into a single image file",
				OnUsageError: usageErrorHandler,
				Action:       export.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Value: common.OutputFmtPng.String(),
						Usage: "export output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
				},
				ArgsUsage: "PROJECT [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
PROJECT:
    project id or display name (case-insensitive)

DESTINATION:
    directory to write the image to, if absent - current working directory,
    file name is controlled by the output_name_template configuration value
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "randomize",
				Usage:        "Assigns layout presets to blocks that have none, or redraws all of them",
				OnUsageError: usageErrorHandler,
				Action:       canvas.RunRandomize,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "redraw presets for every block, not only unassigned ones"},
				},
				ArgsUsage: "PROJECT",
			},
			{
				Name:         "list",
				Usage:        "Lists projects with their block counts",
				OnUsageError: usageErrorHandler,
				Action:       listProjects,
			},
			{
				Name:         "show",
				Usage:        "Prints project structure: blocks, layouts, images and text",
				OnUsageError: usageErrorHandler,
				Action:       showProject,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "deleted", Usage: "include soft-deleted blocks"},
				},
				ArgsUsage: "PROJECT",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func listProjects(ctx context.Context, _ *cli.Command) error {

	env := state.EnvFromContext(ctx)

	st, err := store.Open(env.Cfg.Storage.Path, env.Log)
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBLOCKS\tUPDATED")
	for _, p := range projects {
		blocks, err := st.ListBlocks(p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.DisplayName, len(blocks), p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func showProject(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)

	key := cmd.Args().Get(0)
	if key == "" {
		return fmt.Errorf("project id or name is required")
	}

	st, err := store.Open(env.Cfg.Storage.Path, env.Log)
	if err != nil {
		return err
	}
	defer st.Close()

	project, err := st.FindProject(key)
	if err != nil {
		return err
	}
	var blocks []page.Block
	if cmd.Bool("deleted") {
		blocks, err = st.ListBlocksWithDeleted(project.ID)
	} else {
		blocks, err = st.ListBlocks(project.ID)
	}
	if err != nil {
		return err
	}

	tw := debugutil.NewTreeWriter()
	tw.Line(0, "project %s (%s)", project.DisplayName, project.ID)
	tw.Line(1, "style: width=%d font=%q size=%g align=%s",
		project.Style.BlockWidth, project.Style.FontFamily, project.Style.FontSize, project.Style.TextAlign)
	for _, b := range blocks {
		state := ""
		if b.Deleted {
			state = " (deleted)"
		}
		tw.Line(1, "block %d: %s layout=%s%s", b.ScenarioNo, b.ID, b.LayoutPreset, state)
		tw.TextBlock(2, "title", b.Title)
		tw.TextBlock(2, "subtitle", b.Subtitle)
		tw.TextBlock(2, "body", b.EffectiveBody())
		if b.BodyEdited != nil {
			tw.Line(2, "body is a manual override")
		}
		for i, ref := range b.Images {
			if ref != "" {
				tw.Line(2, "image[%d]: %s", i, ref)
			}
		}
		if b.Style != nil {
			tw.Line(2, "block style overrides present")
		}
	}

	_, err = os.Stdout.WriteString(tw.String())
	return err
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
