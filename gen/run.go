package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"dpc/canvas"
	"dpc/page"
	"dpc/state"
	"dpc/store"
)

// Run implements the generate subcommand: PRODUCT...
//
// When the target project already exists its blocks receive regenerated
// text while user body overrides stay untouched. Extra scenarios become new
// blocks at the end of the page.
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	product := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if product == "" {
		return fmt.Errorf("product description is required")
	}

	req := Request{
		Product:  product,
		Category: cmd.String("category"),
		Style:    cmd.String("style"),
		Count:    int(cmd.Int("scenes")),
		Language: env.Cfg.Generation.Language,
	}

	client, err := NewClient(env.Cfg.Generation, env.Log)
	if err != nil {
		return err
	}
	prompt, err := BuildScenarioPrompt(req)
	if err != nil {
		return err
	}

	env.Log.Info("Generating scenarios", zap.String("product", product), zap.Int("count", req.Count))

	text, err := client.GenerateText(ctx, prompt)
	if err != nil {
		return err
	}
	scenarios, err := ParseScenarios(text)
	if err != nil {
		return err
	}

	st, err := store.Open(env.Cfg.Storage.Path, env.Log)
	if err != nil {
		return err
	}
	defer st.Close()

	name := cmd.String("project")
	if name == "" {
		name = product
	}
	project, err := st.FindProject(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		project = page.Project{
			DisplayName: name,
			Style:       page.DefaultStyle(env.Cfg.Document.BlockWidth),
		}
		if err := st.CreateProject(&project); err != nil {
			return err
		}
		env.Log.Info("Created project", zap.String("id", project.ID), zap.String("name", project.DisplayName))
	}

	blocks, err := st.ListBlocks(project.ID)
	if err != nil {
		return err
	}
	// Continue numbering after every block the project has ever had,
	// tombstoned ones included, so an append never reuses an order key that
	// a soft delete left behind.
	all, err := st.ListBlocksWithDeleted(project.ID)
	if err != nil {
		return err
	}
	no := nextScenarioNo(all)
	for i := len(blocks); i < len(scenarios); i++ {
		b := page.Block{ProjectID: project.ID, ScenarioNo: no}
		no++
		if err := st.CreateBlock(&b); err != nil {
			return err
		}
		blocks = append(blocks, b)
	}

	// The composer assigns presets to blocks that never had one and keeps
	// body overrides across regeneration.
	comp := canvas.New(project, blocks, st, env.Log)
	for i, s := range scenarios {
		comp.SetGeneratedText(blocks[i].ID, s.Title, s.Subtitle, s.Body)
	}
	if dir := cmd.String("images"); dir != "" {
		if err := generateImages(ctx, client, req, dir, project, blocks[:len(scenarios)], comp, env.Log); err != nil {
			comp.Close()
			return err
		}
	}
	comp.Close()

	env.Log.Info("Generation finished",
		zap.String("project", project.DisplayName),
		zap.Int("scenarios", len(scenarios)),
		zap.Int("blocks", len(blocks)))
	return nil
}

// nextScenarioNo returns the first free order key after all given blocks.
func nextScenarioNo(blocks []page.Block) int {
	max := 0
	for _, b := range blocks {
		if b.ScenarioNo > max {
			max = b.ScenarioNo
		}
	}
	return max + 1
}

// generateImages requests one image per scenario and drops it into the
// block's primary slot, skipping blocks where the author already placed an
// image. Individual failures degrade to an empty slot.
func generateImages(ctx context.Context, client *Client, req Request, dir string, project page.Project, blocks []page.Block, comp *canvas.Composer, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create image directory '%s': %w", dir, err)
	}

	base := slug.Make(project.DisplayName)
	if base == "" {
		base = project.ID
	}
	frames := pickFrames(len(blocks))
	for i, b := range blocks {
		if b.Slot(0) != "" {
			continue
		}
		data, err := client.GenerateImage(ctx, BuildImagePrompt(req, frames[i]))
		if err != nil {
			log.Warn("Image generation failed, leaving slot empty",
				zap.Int("scenario", b.ScenarioNo), zap.Error(err))
			continue
		}
		ext := ".png"
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			ext = "." + kind.Extension
		}
		fname := filepath.Join(dir, fmt.Sprintf("%s-%02d%s", base, b.ScenarioNo, ext))
		if err := os.WriteFile(fname, data, 0644); err != nil {
			return fmt.Errorf("unable to write generated image '%s': %w", fname, err)
		}
		comp.SetImage(b.ID, 0, fname)
	}
	return nil
}
