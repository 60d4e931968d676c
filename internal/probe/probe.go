package probe

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/vansante/go-ffprobe.v2"
)

// Dimensions holds the probed frame size of a video file.
type Dimensions struct {
	Width  int
	Height int
}

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Prober extracts video dimensions via ffprobe. Results are cached per path
// so repeated scans over an unchanged library stay cheap.
type Prober struct {
	probe probeFunc
	cache *gocache.Cache
}

// New creates a Prober with default configuration.
func New() *Prober {
	return &Prober{
		probe: ffprobe.ProbeURL,
		cache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// Dimensions probes path for the first video stream's frame size.
func (p *Prober) Dimensions(ctx context.Context, path string) (Dimensions, error) {
	if cached, found := p.cache.Get(path); found {
		if d, ok := cached.(Dimensions); ok {
			return d, nil
		}
	}

	data, err := p.probe(ctx, path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var d Dimensions
	if stream := data.FirstVideoStream(); stream != nil {
		d = Dimensions{Width: stream.Width, Height: stream.Height}
	}
	p.cache.Set(path, d, gocache.DefaultExpiration)
	return d, nil
}
