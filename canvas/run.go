package canvas

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dpc/state"
	"dpc/store"
)

// RunRandomize implements the randomize subcommand: PROJECT. By default only
// blocks that never had a preset get one, --all redraws every live block.
func RunRandomize(ctx context.Context, cmd *cli.Command) error {
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
	blocks, err := st.ListBlocks(project.ID)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return fmt.Errorf("project %q has no blocks", project.DisplayName)
	}

	// Opening the composer already assigns presets to blocks missing one.
	comp := New(project, blocks, st, env.Log)
	if cmd.Bool("all") {
		comp.RandomizeAll()
	}
	comp.Close()

	env.Log.Info("Layouts randomized", zap.String("project", project.DisplayName),
		zap.Int("blocks", len(blocks)), zap.Bool("all", cmd.Bool("all")))
	return nil
}
