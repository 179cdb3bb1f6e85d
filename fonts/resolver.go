package fonts

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dpc/config"
	"dpc/css"
	"dpc/fetch"
)

// fetchConcurrency bounds parallel font binary downloads per export.
const fetchConcurrency = 4

// Resolver builds an embedded @font-face stylesheet from remote font sources.
// It is best effort: a failing source or binary drops that family from the
// output and rasterization falls back to the embedded face.
type Resolver struct {
	client  *fetch.Client
	parser  *css.Parser
	sources []config.FontSourceConfig
	library *Library
	log     *zap.Logger
}

// NewResolver creates a resolver over the configured font sources.
// Library may be nil when parsed faces are not needed.
func NewResolver(cfg config.FontsConfig, client *fetch.Client, library *Library, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		client:  client,
		parser:  css.NewParser(log),
		sources: cfg.Sources,
		library: library,
		log:     log.Named("fonts"),
	}
}

// BuildEmbeddedCSS fetches every configured font source, keeps only the
// @font-face rules for families and weights in usage, inlines the referenced
// font binaries as data URIs and returns the resulting stylesheet text.
// It never fails: the worst outcome is an empty string.
func (r *Resolver) BuildEmbeddedCSS(ctx context.Context, usage Usage) string {
	if len(usage) == 0 {
		return ""
	}

	faces := r.collectFaces(ctx, usage)
	if len(faces) == 0 {
		r.log.Info("No matching @font-face rules found", zap.Strings("families", usage.Families()))
		return ""
	}

	inlined := r.inlineBinaries(ctx, faces)

	var sb strings.Builder
	embedded := 0
	for i := range faces {
		ff := &faces[i]
		urls := css.ExtractURLs(ff.Src)
		keep := false
		for _, u := range urls {
			if _, ok := inlined[u]; ok {
				keep = true
				break
			}
		}
		if !keep {
			r.log.Warn("Dropping @font-face, no binary could be embedded",
				zap.String("family", ff.Family), zap.String("weight", ff.Weight))
			continue
		}

		sheet := &css.Stylesheet{Items: []css.StylesheetItem{{FontFace: ff}}}
		sheet.RewriteURLs(func(u string) string {
			if data, ok := inlined[u]; ok {
				return data
			}
			return u
		})
		sb.WriteString(sheet.String())
		sb.WriteString("\n")
		embedded++
	}

	r.log.Info("Built embedded font stylesheet",
		zap.Int("faces", embedded), zap.Strings("families", usage.Families()))
	return sb.String()
}

// collectFaces fetches and parses every source stylesheet (following one
// level of @import) and returns the @font-face rules matching usage.
func (r *Resolver) collectFaces(ctx context.Context, usage Usage) []css.FontFace {
	var faces []css.FontFace

	for _, src := range r.sources {
		body, _, err := r.client.Get(ctx, src.URL)
		if err != nil {
			r.log.Warn("Font source unavailable", zap.String("source", src.Name), zap.Error(err))
			continue
		}

		sheet := r.parser.Parse(body, src.Name)
		faces = append(faces, r.matchFaces(sheet, usage)...)

		for _, imp := range sheet.Imports() {
			sub, _, err := r.client.Get(ctx, imp)
			if err != nil {
				r.log.Warn("Font source import unavailable",
					zap.String("source", src.Name), zap.String("url", imp), zap.Error(err))
				continue
			}
			faces = append(faces, r.matchFaces(r.parser.Parse(sub, imp), usage)...)
		}
	}
	return faces
}

// matchFaces filters a parsed sheet to the font faces usage references.
func (r *Resolver) matchFaces(sheet *css.Stylesheet, usage Usage) []css.FontFace {
	filtered := sheet.FilterFontFaces(func(ff css.FontFace) bool {
		weights, ok := usage[ff.Family]
		if !ok {
			return false
		}
		for w := range weights {
			if ff.WeightMatches(w) {
				return true
			}
		}
		return false
	})
	return filtered.FontFaces()
}

// inlineBinaries downloads every url referenced by the faces and returns the
// successfully fetched ones as data URIs keyed by original url. Fetches run
// concurrently; individual failures are logged and omitted, never fatal.
func (r *Resolver) inlineBinaries(ctx context.Context, faces []css.FontFace) map[string]string {
	urlSet := make(map[string]bool)
	for _, ff := range faces {
		for _, u := range css.ExtractURLs(ff.Src) {
			if strings.HasPrefix(u, "data:") {
				continue
			}
			urlSet[u] = true
		}
	}

	var mu sync.Mutex
	inlined := make(map[string]string, len(urlSet))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for u := range urlSet {
		g.Go(func() error {
			data, contentType, err := r.client.Get(gctx, u)
			if err != nil {
				r.log.Warn("Font binary fetch failed", zap.String("url", u), zap.Error(err))
				return nil
			}

			mu.Lock()
			inlined[u] = dataURI(data, contentType)
			mu.Unlock()

			if r.library != nil {
				r.registerBinary(u, data, faces)
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return inlined
}

// registerBinary hands a parseable font binary to the library so the
// rasterizer can use the real face. Compressed web formats (woff/woff2) are
// embedding-only, the library cannot parse them.
func (r *Resolver) registerBinary(url string, data []byte, faces []css.FontFace) {
	kind, err := filetype.Match(data)
	if err != nil || (kind != matchers.TypeTtf && kind != matchers.TypeOtf) {
		return
	}

	for _, ff := range faces {
		for _, u := range css.ExtractURLs(ff.Src) {
			if u != url {
				continue
			}
			for _, w := range declaredWeights(ff.Weight) {
				if err := r.library.Register(ff.Family, w, data); err != nil {
					r.log.Warn("Could not register font face",
						zap.String("family", ff.Family), zap.Int("weight", w), zap.Error(err))
				}
			}
			return
		}
	}
}

// declaredWeights maps a font-weight declaration to the numeric weights the
// library should index. Variable ranges register the range endpoints plus
// the regular and bold weights they cover.
func declaredWeights(weight string) []int {
	ff := css.FontFace{Weight: weight}
	var weights []int
	for _, w := range []int{100, 200, 300, 400, 500, 600, 700, 800, 900} {
		if ff.WeightMatches(w) {
			weights = append(weights, w)
		}
	}
	return weights
}

// dataURI encodes binary data as a data URI, sniffing the MIME type from
// content when the transport did not provide a usable one.
func dataURI(data []byte, contentType string) string {
	mime := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if mime == "" || mime == "application/octet-stream" {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			mime = kind.MIME.Value
		}
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
