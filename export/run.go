package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dpc/common"
	"dpc/fetch"
	"dpc/fonts"
	"dpc/render"
	"dpc/state"
	"dpc/store"
)

// Run implements the export subcommand: PROJECT [DESTINATION].
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	env.Overwrite = cmd.Bool("overwrite")

	key := cmd.Args().Get(0)
	if key == "" {
		return fmt.Errorf("project id or name is required")
	}
	outDir := cmd.Args().Get(1)
	if outDir == "" {
		outDir = "."
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		return err
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
	blocks, err := st.ListBlocks(project.ID)
	if err != nil {
		return err
	}

	client := fetch.New(env.Log, fetch.Options{
		Timeout: time.Duration(env.Cfg.Fonts.FetchTimeout) * time.Second,
	})
	lib, err := fonts.NewLibrary(env.Cfg.Fonts.FallbackPath, env.Log)
	if err != nil {
		return err
	}
	resolver := fonts.NewResolver(env.Cfg.Fonts, client, lib, env.Log)
	renderer := render.New(lib, render.NewHTTPSource(client, env.Log), env.Cfg.Document, env.Log)
	pipeline := New(renderer, resolver, env.Cfg.Document, env.Log)

	if !env.Overwrite {
		name, err := pipeline.OutputName(project, format)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(outDir, name)); err == nil {
			return fmt.Errorf("destination file '%s' already exists, use --overwrite", filepath.Join(outDir, name))
		}
	}

	res, err := pipeline.Export(ctx, project, blocks, format, outDir)
	if err != nil {
		return err
	}
	if env.Rpt != nil && res.FontCSS != "" {
		env.Rpt.StoreData("export/fonts.css", []byte(res.FontCSS))
	}

	env.Log.Info("Export finished",
		zap.String("project", project.DisplayName),
		zap.String("file", res.Path),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("blocks", res.Blocks),
		zap.Int("skipped", res.Skipped))
	return nil
}
