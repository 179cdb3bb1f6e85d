package fonts

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	family string
	weight int
}

type sizedKey struct {
	faceKey
	size float64
}

// Library holds parsed font faces for rasterization. Lookups never fail:
// a missing family or weight falls back to the closest registered weight,
// then to the embedded Go fonts.
type Library struct {
	mu        sync.RWMutex
	fonts     map[faceKey]*opentype.Font
	faceCache map[sizedKey]font.Face

	fallbackRegular *opentype.Font
	fallbackBold    *opentype.Font

	log *zap.Logger
}

// NewLibrary creates a face library. When fallbackPath names a readable
// TTF/OTF file it becomes the regular fallback, otherwise the embedded Go
// fonts serve that role.
func NewLibrary(fallbackPath string, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("fonts")

	regular := goregular.TTF
	if fallbackPath != "" {
		data, err := os.ReadFile(fallbackPath)
		if err != nil {
			log.Warn("Could not read fallback font, using embedded face",
				zap.String("path", fallbackPath), zap.Error(err))
		} else {
			regular = data
		}
	}

	fr, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parsing fallback font: %w", err)
	}
	fb, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded bold font: %w", err)
	}

	return &Library{
		fonts:           make(map[faceKey]*opentype.Font),
		faceCache:       make(map[sizedKey]font.Face),
		fallbackRegular: fr,
		fallbackBold:    fb,
		log:             log,
	}, nil
}

// Register parses a font binary and indexes it under family/weight.
func (l *Library) Register(family string, weight int, data []byte) error {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing font %q weight %d: %w", family, weight, err)
	}

	l.mu.Lock()
	l.fonts[faceKey{family: family, weight: weight}] = parsed
	l.mu.Unlock()

	l.log.Debug("Registered font face", zap.String("family", family), zap.Int("weight", weight))
	return nil
}

// Has reports whether an exact family/weight face is registered.
func (l *Library) Has(family string, weight int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.fonts[faceKey{family: family, weight: weight}]
	return ok
}

// Face returns a sized face for family/weight. Resolution order: exact
// match, closest registered weight of the family, embedded fallback (bold
// variant for weights of 600 and up). Faces are cached per size.
func (l *Library) Face(family string, weight int, size float64) font.Face {
	if size <= 0 {
		size = 16
	}

	key := sizedKey{faceKey: faceKey{family: family, weight: weight}, size: size}

	l.mu.RLock()
	if face, ok := l.faceCache[key]; ok {
		l.mu.RUnlock()
		return face
	}
	parsed := l.lookupLocked(family, weight)
	l.mu.RUnlock()

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		l.log.Warn("Could not create font face",
			zap.String("family", family), zap.Int("weight", weight), zap.Error(err))
		return l.fallbackFace(weight, size)
	}

	l.mu.Lock()
	l.faceCache[key] = face
	l.mu.Unlock()
	return face
}

// lookupLocked finds the best parsed font for family/weight.
// Caller holds at least a read lock.
func (l *Library) lookupLocked(family string, weight int) *opentype.Font {
	if f, ok := l.fonts[faceKey{family: family, weight: weight}]; ok {
		return f
	}

	// Closest registered weight of the same family.
	bestDist := -1
	var best *opentype.Font
	for k, f := range l.fonts {
		if k.family != family {
			continue
		}
		dist := k.weight - weight
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist, best = dist, f
		}
	}
	if best != nil {
		return best
	}

	if weight >= 600 {
		return l.fallbackBold
	}
	return l.fallbackRegular
}

// fallbackFace builds an uncached face from the embedded fonts. Used only
// when face creation for a registered font fails.
func (l *Library) fallbackFace(weight int, size float64) font.Face {
	parsed := l.fallbackRegular
	if weight >= 600 {
		parsed = l.fallbackBold
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Embedded fonts always parse, a face at a sane size cannot fail.
		panic(fmt.Sprintf("embedded font face: %v", err))
	}
	return face
}
