package elevation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

const (
	defaultMinZoom        = 10
	defaultMaxZoom        = 15
	terrariumURL          = "https://s3.amazonaws.com/elevation-tiles-prod/terrarium/%d/%d/%d.png"
	terrariumOff          = 32768.0
	earthRadiusM          = 6371000.0
	tilePixelSpan         = 256.0
	defaultDecodeRetryMax = 1
)

// Fetcher retrieves the raw bytes of a tile URL. HTTPFetcher is the
// production implementation; tests supply a fake.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches tiles over HTTP. The caller supplies the *http.Client
// (and therefore any timeout) per spec §5's "no internal timeout" policy.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch performs a GET against url and returns the response body. A non-2xx
// status is reported as a NetworkFailure (spec §7).
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// Pipeline fetches, caches, decodes, and reprojects Terrarium tiles into a
// Grid (spec §4.B). MinZoom/MaxZoom/DecodeRetryMax are tunables normally
// sourced from internal/config's YAML file; the zero value of each falls
// back to the upstream defaults.
type Pipeline struct {
	CacheDir       string
	Fetcher        Fetcher
	Log            *logrus.Entry
	MinZoom        int
	MaxZoom        int
	DecodeRetryMax int
}

// NewPipeline constructs a Pipeline with the given cache directory and
// fetcher, defaulting to a discard-free logrus entry if log is nil and to
// the package's built-in zoom/retry tunables if unset.
func NewPipeline(cacheDir string, fetcher Fetcher, log *logrus.Entry) *Pipeline {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pipeline{
		CacheDir:       cacheDir,
		Fetcher:        fetcher,
		Log:            log,
		MinZoom:        defaultMinZoom,
		MaxZoom:        defaultMaxZoom,
		DecodeRetryMax: defaultDecodeRetryMax,
	}
}

func (p *Pipeline) minZoom() int {
	if p.MinZoom != 0 {
		return p.MinZoom
	}
	return defaultMinZoom
}

func (p *Pipeline) maxZoom() int {
	if p.MaxZoom != 0 {
		return p.MaxZoom
	}
	return defaultMaxZoom
}

func (p *Pipeline) decodeRetryMax() int {
	if p.DecodeRetryMax != 0 {
		return p.DecodeRetryMax
	}
	return defaultDecodeRetryMax
}

// Build fetches every tile covering bbox at the computed zoom level,
// decodes and reprojects them into a Grid sized to match the world
// rectangle, and finalizes its scaling.
func (p *Pipeline) Build(ctx context.Context, bbox BBox, scale float64, groundLevel int) (*Grid, error) {
	gridWidth, gridHeight := WorldSize(bbox, scale)
	if gridWidth <= 0 || gridHeight <= 0 {
		return nil, fmt.Errorf("elevation: degenerate world size %dx%d for bbox %+v", gridWidth, gridHeight, bbox)
	}

	zoom := p.zoomLevel(bbox)
	tiles := tileCoordinates(bbox, zoom)
	grid := NewGrid(gridWidth, gridHeight, groundLevel)

	if err := os.MkdirAll(p.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("elevation: create cache dir %s: %w", p.CacheDir, err)
	}

	for _, t := range tiles {
		img, err := p.loadTile(ctx, zoom, t.x, t.y)
		if err != nil {
			return nil, fmt.Errorf("elevation: tile z=%d x=%d y=%d: %w", zoom, t.x, t.y, err)
		}
		depositTile(grid, img, bbox, zoom, t.x, t.y)
	}

	grid.Finalize(scale)
	return grid, nil
}

type tileCoord struct{ x, y uint32 }

func (p *Pipeline) zoomLevel(bbox BBox) int {
	latDiff := math.Abs(bbox.MaxLat - bbox.MinLat)
	lngDiff := math.Abs(bbox.MaxLng - bbox.MinLng)
	maxDiff := math.Max(latDiff, lngDiff)
	zoom := int(math.Round(20 - math.Log2(maxDiff)))
	return clampInt(zoom, p.minZoom(), p.maxZoom())
}

func latLngToTile(lat, lng float64, zoom int) (uint32, uint32) {
	latRad := lat * math.Pi / 180
	n := math.Pow(2, float64(zoom))
	x := uint32(math.Floor((lng + 180.0) / 360.0 * n))
	y := uint32(math.Floor((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n))
	return x, y
}

func tileCoordinates(bbox BBox, zoom int) []tileCoord {
	x1, y1 := latLngToTile(bbox.MinLat, bbox.MinLng, zoom)
	x2, y2 := latLngToTile(bbox.MaxLat, bbox.MaxLng, zoom)
	minX, maxX := minU32(x1, x2), maxU32(x1, x2)
	minY, maxY := minU32(y1, y2), maxU32(y1, y2)

	var tiles []tileCoord
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			tiles = append(tiles, tileCoord{x: x, y: y})
		}
	}
	return tiles
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func (p *Pipeline) cachePath(zoom int, x, y uint32) string {
	return filepath.Join(p.CacheDir, fmt.Sprintf("z%d_x%d_y%d.png", zoom, x, y))
}

// loadTile loads a tile from the on-disk cache, falling back to a fetch on
// a cache miss. A cached file that fails to decode is treated as poisoned:
// it triggers a refetch that overwrites it. A fetched tile that fails to
// decode is fetched again up to DecodeRetryMax more times (once by default)
// before the error is propagated (spec §4.B / §7 DecodeFailure), matching elevation_data.rs's
// match image::open(&tile_path) { Err(_) => download_tile(...) }.
func (p *Pipeline) loadTile(ctx context.Context, zoom int, x, y uint32) (image.Image, error) {
	path := p.cachePath(zoom, x, y)

	if data, err := os.ReadFile(path); err == nil {
		img, decodeErr := png.Decode(bytes.NewReader(data))
		if decodeErr == nil {
			return img, nil
		}
		p.Log.WithFields(logrus.Fields{"path": path, "error": decodeErr}).
			Warn("cached elevation tile failed to decode, refetching")
	}

	return p.fetchAndCache(ctx, zoom, x, y, path)
}

func (p *Pipeline) fetchAndCache(ctx context.Context, zoom int, x, y uint32, path string) (image.Image, error) {
	url := fmt.Sprintf(terrariumURL, zoom, x, y)

	var lastErr error
	for attempt := 0; attempt <= p.decodeRetryMax(); attempt++ {
		data, err := p.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		img, decodeErr := png.Decode(bytes.NewReader(data))
		if decodeErr == nil {
			if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
				p.Log.WithFields(logrus.Fields{"path": path, "error": writeErr}).
					Warn("failed to persist elevation tile cache entry")
			}
			return img, nil
		}
		lastErr = decodeErr
		p.Log.WithFields(logrus.Fields{"url": url, "attempt": attempt, "error": decodeErr}).
			Warn("malformed elevation tile, retrying fetch")
	}
	return nil, fmt.Errorf("decode %s after retry: %w", url, lastErr)
}

// depositTile reprojects every pixel of img that falls within bbox into
// grid, decoding the Terrarium RGB encoding per spec §4.B step 3.
func depositTile(grid *Grid, img image.Image, bbox BBox, zoom int, tileX, tileY uint32) {
	bounds := img.Bounds()
	n := math.Pow(2, float64(zoom))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixelLng := ((float64(tileX)+float64(x)/tilePixelSpan)/n)*360.0 - 180.0
			pixelLatRad := math.Pi * (1.0 - 2.0*(float64(tileY)+float64(y)/tilePixelSpan)/n)
			pixelLat := math.Atan(math.Sinh(pixelLatRad)) * 180 / math.Pi

			if pixelLat < bbox.MinLat || pixelLat > bbox.MaxLat ||
				pixelLng < bbox.MinLng || pixelLng > bbox.MaxLng {
				continue
			}

			relX := (pixelLng - bbox.MinLng) / (bbox.MaxLng - bbox.MinLng)
			relZ := 1.0 - (pixelLat-bbox.MinLat)/(bbox.MaxLat-bbox.MinLat)

			scaledX := int(math.Round(relX * float64(grid.Width)))
			scaledZ := int(math.Round(relZ * float64(grid.Height)))
			if scaledX < 0 || scaledX >= grid.Width || scaledZ < 0 || scaledZ >= grid.Height {
				continue
			}

			r, g, b, _ := img.At(x, y).RGBA()
			// image.Image.RGBA returns 16-bit-scaled channels; Terrarium
			// tiles are 8-bit, so shift back down before decoding.
			meters := (float64(r>>8)*256.0 + float64(g>>8) + float64(b>>8)/256.0) - terrariumOff
			grid.Deposit(scaledX, scaledZ, int16(math.Round(meters)))
		}
	}
}

// WorldSize converts a geographic bounding box into the voxel world's
// (width, height) on the X/Z plane at the given horizontal scale, using the
// same haversine projection the Elevation Pipeline uses to size its Grid —
// so a flat-ground run and a terrain run produce identically sized worlds
// for the same bbox and scale.
func WorldSize(bbox BBox, scale float64) (width, height int) {
	distZ, distX := geoDistanceAxes(bbox)
	return int(math.Floor(distX) * scale), int(math.Floor(distZ) * scale)
}

// geoDistanceAxes returns the (north-south, east-west) haversine distance of
// bbox in meters/blocks, matching original_source's geo_distance helper
// (CoordTransformer.llbbox_to_xzbbox uses this to size the world rectangle).
func geoDistanceAxes(bbox BBox) (distZ, distX float64) {
	distZ = haversine(bbox.MinLat, bbox.MinLng, bbox.MaxLat, bbox.MinLng)
	distX = haversine(bbox.MinLat, bbox.MinLng, bbox.MinLat, bbox.MaxLng)
	return distZ, distX
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := math.Pi / 180
	phi1, phi2 := lat1*toRad, lat2*toRad
	dPhi := (lat2 - lat1) * toRad
	dLambda := (lng2 - lng1) * toRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}
