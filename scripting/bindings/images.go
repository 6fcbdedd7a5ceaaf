package bindings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/engine/assets"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/draw"
)

var ErrUnknownImage = errors.New("bindings: unknown image handle")

// Image is one cached, uploaded image.
type Image struct {
	Handle  int
	Source  string
	W, H    int
	Texture core.Texture
}

// TextureID is the draw-list id of the image. Handles start at 1, so the
// id never collides with the white texture.
func (im *Image) TextureID() draw.TextureID { return draw.TextureID(im.Handle) }

type ImageCacheOptions struct {
	Uploader core.TextureUploader
	Fetcher  *Fetcher
	// MaxCached evicts the oldest image beyond this many; 0 keeps everything.
	MaxCached int
	Logger    zerolog.Logger
}

// ImageCache maps load_image handles to textures. Loading uploads a texture,
// so Load belongs to the goroutine owning the graphics context; lookups are
// safe from anywhere.
type ImageCache struct {
	mu      sync.Mutex
	next    int
	entries map[int]*Image
	order   []int
	o       ImageCacheOptions
	log     zerolog.Logger
}

func NewImageCache(o ImageCacheOptions) *ImageCache {
	return &ImageCache{
		next:    1,
		entries: map[int]*Image{},
		o:       o,
		log:     o.Logger.With().Str("component", "images").Logger(),
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load decodes a file path or http(s) URL and returns a new handle. Nothing
// is registered when any step fails.
func (c *ImageCache) Load(ctx context.Context, src string) (int, error) {
	url := isURL(src)
	c.log.Debug().Str("src", src).Bool("url", url).Msg("loading image")

	var img *assets.Image
	var err error
	if url {
		if c.o.Fetcher == nil {
			return 0, errors.New("no fetcher configured")
		}
		var body []byte
		if body, err = c.o.Fetcher.Get(ctx, src); err == nil {
			img, err = assets.DecodeImageBytes(body)
		}
	} else {
		img, err = assets.LoadImageFile(src)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("src", src).Msg("image load failed")
		return 0, err
	}

	var tex core.Texture
	if c.o.Uploader != nil {
		tex, err = c.o.Uploader.CreateTexture(core.TextureDesc{
			Width: img.W, Height: img.H,
			Format:    core.TextureRGBA8,
			Pixels:    img.Pixels,
			MinFilter: "linear", MagFilter: "linear",
			WrapU: "clamp", WrapV: "clamp",
		})
		if err != nil {
			return 0, fmt.Errorf("upload: %w", err)
		}
	}

	c.mu.Lock()
	h := c.next
	c.next++
	c.entries[h] = &Image{Handle: h, Source: src, W: img.W, H: img.H, Texture: tex}
	c.order = append(c.order, h)
	evicted := c.evictLocked()
	c.mu.Unlock()

	for _, e := range evicted {
		c.release(e)
	}
	c.log.Info().Int("handle", h).Str("src", src).Int("w", img.W).Int("h", img.H).Msg("image loaded")
	return h, nil
}

func (c *ImageCache) evictLocked() []*Image {
	if c.o.MaxCached <= 0 {
		return nil
	}
	var out []*Image
	for len(c.order) > c.o.MaxCached {
		h := c.order[0]
		c.order = c.order[1:]
		out = append(out, c.entries[h])
		delete(c.entries, h)
	}
	return out
}

type textureDeleter interface{ DeleteTexture(core.Texture) }

func (c *ImageCache) release(im *Image) {
	if d, ok := c.o.Uploader.(textureDeleter); ok && im.Texture != nil {
		d.DeleteTexture(im.Texture)
	}
	c.log.Debug().Int("handle", im.Handle).Msg("image evicted")
}

func (c *ImageCache) Lookup(h int) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	im, ok := c.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownImage, h)
	}
	return im, nil
}

func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Resolve maps a draw-list texture id to its texture; it is the renderer's
// texture resolver for script images.
func (c *ImageCache) Resolve(id draw.TextureID) core.Texture {
	if id == 0 || id > draw.TextureID(int(^uint(0)>>1)) {
		return nil
	}
	im, err := c.Lookup(int(id))
	if err != nil {
		return nil
	}
	return im.Texture
}

// Close releases every texture.
func (c *ImageCache) Close() {
	c.mu.Lock()
	all := make([]*Image, 0, len(c.entries))
	for _, h := range c.order {
		all = append(all, c.entries[h])
	}
	c.entries = map[int]*Image{}
	c.order = nil
	c.mu.Unlock()
	for _, im := range all {
		c.release(im)
	}
}
