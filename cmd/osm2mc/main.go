// Command osm2mc is the driver: it reads a geographic bounding box and a
// pre-processed set of OSM elements, builds the Ground and Voxel Editor,
// runs the feature generators and the Water-Area Filler over the elements,
// and serializes the result to region files (spec §2's control flow).
//
// OSM XML/PBF parsing and full CLI argument parsing are external
// collaborators per spec §1's exclusion list; this binary accepts the
// equivalent structured input directly (a JSON sidecar of already-processed
// ways/relations) rather than embedding a parser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jcobol-labs/osm2mc/internal/config"
	"github.com/jcobol-labs/osm2mc/internal/editor"
	"github.com/jcobol-labs/osm2mc/internal/elevation"
	"github.com/jcobol-labs/osm2mc/internal/features/railway"
	"github.com/jcobol-labs/osm2mc/internal/features/waterway"
	"github.com/jcobol-labs/osm2mc/internal/geom"
	"github.com/jcobol-labs/osm2mc/internal/ground"
	"github.com/jcobol-labs/osm2mc/internal/osm"
	"github.com/jcobol-labs/osm2mc/internal/water"
)

// elementsFile is the structured-input sidecar this driver accepts in lieu
// of an embedded OSM parser.
type elementsFile struct {
	Ways      []osm.ProcessedWay      `json:"ways"`
	Relations []osm.ProcessedRelation `json:"relations"`
}

func main() {
	minLat := flag.Float64("min-lat", 0, "Bounding box minimum latitude")
	minLng := flag.Float64("min-lng", 0, "Bounding box minimum longitude")
	maxLat := flag.Float64("max-lat", 0, "Bounding box maximum latitude")
	maxLng := flag.Float64("max-lng", 0, "Bounding box maximum longitude")
	scale := flag.Float64("scale", 1.0, "Horizontal detail scale multiplier")
	groundLevel := flag.Int("ground-level", 0, "Flat ground Y level (0 = use config default)")
	terrain := flag.Bool("terrain", false, "Enable the elevation pipeline instead of a flat ground")
	elementsPath := flag.String("elements", "", "Path to a JSON file of pre-processed ways/relations")
	configPath := flag.String("config", "", "Path to an optional YAML tuning file")
	cacheDir := flag.String("cache-dir", "elevation-cache", "Elevation tile cache directory")
	output := flag.String("output", "world", "Output directory for region files")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall deadline for tile fetch and save")
	debug := flag.Bool("debug", false, "Enable debug-level logging")
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := logrus.NewEntry(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		entry.WithError(err).Fatal("failed to load config")
	}
	if *groundLevel != 0 {
		cfg.GroundLevel = *groundLevel
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	elems, err := loadElements(*elementsPath)
	if err != nil {
		entry.WithError(err).Fatal("failed to load input elements")
	}

	rect, err := worldRect(*minLat, *minLng, *maxLat, *maxLng, *scale)
	if err != nil {
		entry.WithError(err).Fatal("failed to size the world rectangle")
	}

	g, err := buildGround(ctx, *terrain, *minLat, *minLng, *maxLat, *maxLng, *scale, cfg, *cacheDir, entry)
	if err != nil {
		entry.WithError(err).Fatal("failed to build ground model")
	}

	ed := editor.New(rect, *output)
	ed.SetGround(g)

	runFeatureGenerators(ed, elems, cfg)
	runWaterFiller(ed, g, rect, elems, cfg)

	if err := ed.Save(ctx); err != nil {
		entry.WithError(err).Fatal("failed to save region files")
	}

	entry.WithFields(logrus.Fields{
		"chunks": ed.ChunkCount(),
		"output": *output,
	}).Info("conversion complete")
}

func loadElements(path string) (elementsFile, error) {
	if path == "" {
		return elementsFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return elementsFile{}, err
	}
	var ef elementsFile
	if err := json.Unmarshal(data, &ef); err != nil {
		return elementsFile{}, err
	}
	return ef, nil
}

// worldRect derives the voxel world's bounding rectangle from the
// geographic box at the same scale the elevation pipeline would use, so
// terrain and flat-ground runs produce consistently sized worlds.
func worldRect(minLat, minLng, maxLat, maxLng, scale float64) (editor.Rect, error) {
	bbox := elevation.BBox{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}
	width, height := elevation.WorldSize(bbox, scale)
	return editor.Rect{MinX: 0, MinZ: 0, MaxX: width, MaxZ: height}, nil
}

func buildGround(ctx context.Context, terrain bool, minLat, minLng, maxLat, maxLng, scale float64, cfg config.Config, cacheDir string, log *logrus.Entry) (*ground.Ground, error) {
	if !terrain {
		return ground.NewFlat(cfg.GroundLevel), nil
	}

	pipeline := elevation.NewPipeline(cacheDir, &elevation.HTTPFetcher{}, log)
	pipeline.MinZoom = cfg.Elevation.MinZoom
	pipeline.MaxZoom = cfg.Elevation.MaxZoom
	pipeline.DecodeRetryMax = cfg.Elevation.DecodeRetryMax

	bbox := elevation.BBox{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}
	grid, err := pipeline.Build(ctx, bbox, scale, cfg.GroundLevel)
	if err != nil {
		return nil, err
	}
	return ground.NewFromGrid(cfg.GroundLevel, grid), nil
}

func runFeatureGenerators(ed *editor.Editor, elems elementsFile, cfg config.Config) {
	orientation := cfg.Railway.RailOrientation()
	for _, w := range elems.Ways {
		if _, ok := w.Tags["railway"]; ok {
			railway.Generate(ed, w, orientation)
		}
		if _, ok := w.Tags["waterway"]; ok && w.Tags["area"] != "yes" {
			waterway.Generate(ed, w)
		}
	}
}

func runWaterFiller(ed *editor.Editor, g *ground.Ground, rect editor.Rect, elems elementsFile, cfg config.Config) {
	filler := water.New(ed, g, geom.Rect{MinX: rect.MinX, MinZ: rect.MinZ, MaxX: rect.MaxX, MaxZ: rect.MaxZ})
	filler.QuadrantCellThreshold = cfg.Water.QuadrantCellThreshold
	filler.RecursionBudget = time.Duration(cfg.Water.RecursionBudgetSec) * time.Second

	for _, w := range elems.Ways {
		if !w.Closed() {
			continue
		}
		filler.Fill(water.FromWay(w), false)
	}
	for _, r := range elems.Relations {
		filler.Fill(water.FromRelation(r), false)
	}
}
