// Package media holds the spawnable assets and the controller that decides
// what to spawn.
package media

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/spawn"
)

// Asset is one manifest entry.
type Asset struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
	Time    string `json:"time,omitempty"`
	Place   string `json:"place,omitempty"`
	Kind    string `json:"kind,omitempty"` // MIME type, filled in by the server
}

// TickerText is the caption, then "time | place" on a second line when
// either is set.
func (a Asset) TickerText() string {
	text := a.Caption
	if a.Time == "" && a.Place == "" {
		return text
	}
	text += "\n" + a.Time
	if a.Time != "" && a.Place != "" {
		text += " | "
	}
	return text + a.Place
}

// Manifest is a parsed asset set as served by the dev server.
type Manifest struct {
	Set    string  `json:"set"`
	Assets []Asset `json:"assets"`
}

// SplitByKind sorts assets into images and videos by their sniffed MIME type.
// Assets without a recognized type go to fallback.
func SplitByKind(assets []Asset, fallback spawn.Kind) (images, videos []Asset) {
	for _, a := range assets {
		kind := fallback
		switch {
		case strings.HasPrefix(a.Kind, "image/"):
			kind = spawn.KindImage
		case strings.HasPrefix(a.Kind, "video/"):
			kind = spawn.KindVideo
		}
		if kind == spawn.KindVideo {
			videos = append(videos, a)
		} else {
			images = append(images, a)
		}
	}
	return images, videos
}

// Item converts the asset for the spawn driver.
func (a Asset) Item() spawn.Item {
	return spawn.Item{Path: a.Path, Caption: a.TickerText()}
}

// GenerateCaption title-cases the underscore-separated words of a file name
// without its directory and extension.
func GenerateCaption(filename string) string {
	name := path.Base(filename)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	words := strings.Split(name, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

const fieldSep = " | "

// ParseManifest reads one asset per line. Lines of the form
// "file | caption | time | place" carry their own caption; bare file names
// get one from GenerateCaption. Paths are prefixed with base.
func ParseManifest(r io.Reader, base string, skipComments bool) ([]Asset, error) {
	var assets []Asset
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || (skipComments && strings.HasPrefix(line, "#")) {
			continue
		}
		if !strings.Contains(line, fieldSep) {
			assets = append(assets, Asset{Path: base + line, Caption: GenerateCaption(line)})
			continue
		}
		parts := strings.Split(line, fieldSep)
		a := Asset{
			Path:    base + strings.TrimSpace(parts[0]),
			Caption: strings.TrimSpace(parts[1]),
		}
		if len(parts) > 2 {
			a.Time = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			a.Place = strings.TrimSpace(parts[3])
		}
		assets = append(assets, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("media: read manifest: %w", err)
	}
	return assets, nil
}

// Library cycles through its assets in a shuffled order.
type Library struct {
	assets []Asset
	order  []int
	next   int
}

// NewLibrary shuffles the play order of assets with rng.
func NewLibrary(assets []Asset, rng *common.SeededRNG) *Library {
	l := &Library{
		assets: assets,
		order:  make([]int, len(assets)),
	}
	for i := range l.order {
		l.order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	return l
}

// Next returns the next asset in play order, wrapping at the end.
func (l *Library) Next() (Asset, bool) {
	if l == nil || len(l.order) == 0 {
		return Asset{}, false
	}
	a := l.assets[l.order[l.next]]
	l.next = (l.next + 1) % len(l.order)
	return a, true
}

// Len returns the number of assets.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.assets)
}

// Loaded reports whether the library has anything to spawn.
func (l *Library) Loaded() bool {
	return l.Len() > 0
}

// Assets returns the assets in manifest order.
func (l *Library) Assets() []Asset {
	if l == nil {
		return nil
	}
	return l.assets
}

// Items converts every asset for the spawn driver, in manifest order.
func Items(assets []Asset) []spawn.Item {
	items := make([]spawn.Item, len(assets))
	for i, a := range assets {
		items[i] = a.Item()
	}
	return items
}
