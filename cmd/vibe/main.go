package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gocv.io/x/gocv"

	"github.com/swdee/go-vibe"
	"github.com/swdee/go-vibe/evaluate"
	"github.com/swdee/go-vibe/frameio"
	"github.com/swdee/go-vibe/regions"
	"github.com/swdee/go-vibe/render"
	"github.com/swdee/go-vibe/segment"
	"github.com/swdee/go-vibe/store"
)

// config holds the driver settings.  Environment variables provide the
// defaults and command line flags override them
type config struct {
	Path        string `env:"VIBE_PATH" envDefault:"Data/Sequence1"`
	Glob        string `env:"VIBE_GLOB" envDefault:"*.jpeg"`
	OutputPath  string `env:"VIBE_OUT" envDefault:"output"`
	GroundTruth string `env:"VIBE_GT" envDefault:"Data/Sequence1/groundtruth.bmp"`
	Database    string `env:"VIBE_DB"`
}

// parameter bounds accepted by the driver, out of range values revert to
// the defaults with a console warning
const (
	maxMinMatches  = 5000
	maxRadius      = 442
	maxSubsampling = 5000
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	cfg := config{}

	if err := env.Parse(&cfg); err != nil {
		log.Fatal("Error parsing environment: ", err)
	}

	inPath := flag.String("path", cfg.Path, "Input data path, i.e. /somefiles/")
	inGlob := flag.String("glob", cfg.Glob, "Input glob, i.e. *.png, this will get all png's")
	outPath := flag.String("out", cfg.OutputPath, "Path to output background segmented images")
	gtFile := flag.String("gt", cfg.GroundTruth, "File path to ground truth image")
	dbFile := flag.String("db", cfg.Database, "Optional SQLite database file to record the run to")

	minMatches := flag.Int("min", 2, "Minimum number of similar samples required to declare a pixel is background")
	radius := flag.Int("r", 20, "Radius of sphere for acceptably similar nearby pixels in the rgb colour space")
	subSampling := flag.Int("sub", 16, "Stochastic rate at which background pixels are updated")
	trainingFrames := flag.Int("train", 20, "Number of images used to train the initial background model")
	accuracy := flag.Bool("acc", true, "Run comparison to ground truth on the final frame")

	seed := flag.Int64("seed", 0, "Random seed, 0 uses a time based seed")
	workers := flag.Int("workers", 1, "Number of goroutines used to classify each frame")
	overlay := flag.Bool("overlay", false, "Also write frames with the foreground blended over the source image")
	minArea := flag.Int("minarea", 25, "Minimum pixel area for a foreground region")

	flag.Parse()

	// validate user input, warn and revert to defaults for out of range
	// values as the original tool did
	if *minMatches < 1 || *minMatches > maxMinMatches {
		log.Println("-min is out of range, changing to default")
		*minMatches = 2
	}

	if *radius < 1 || *radius > maxRadius {
		log.Println("-r is out of range, changing to default")
		*radius = 20
	}

	if *subSampling < 1 || *subSampling > maxSubsampling {
		log.Println("-sub is out of range, changing to default")
		*subSampling = 16
	}

	if *trainingFrames < 1 {
		log.Println("-train is out of range, changing to default")
		*trainingFrames = 20
	}

	if info, err := os.Stat(*outPath); err != nil || !info.IsDir() {
		log.Fatal("Invalid output directory, exiting.")
	}

	// check the ground truth image exists before segmenting the sequence
	if *accuracy {
		if err := validateGroundTruth(*gtFile); err != nil {
			log.Fatal("Invalid ground truth image, exiting.")
		}
	}

	params := vibe.Params{
		SampleCount:     20,
		Radius:          *radius,
		MinMatches:      *minMatches,
		SubsampleFactor: *subSampling,
		TrainingFrames:  *trainingFrames,
		Seed:            *seed,
		Workers:         *workers,
	}

	// print inputs to console for the user
	log.Printf("-min = %d", *minMatches)
	log.Printf("-r = %d", *radius)
	log.Printf("-sub = %d", *subSampling)
	log.Printf("-train = %d", *trainingFrames)
	log.Printf("-acc = %v", *accuracy)
	log.Printf("Segmenting images in: %s", *inPath)
	log.Printf("With glob: %s", *inGlob)
	log.Printf("Output dir: %s", *outPath)
	log.Printf("Ground Truth image: %s", *gtFile)

	if err := run(params, *inPath, *inGlob, *outPath, *gtFile, *dbFile,
		*accuracy, *overlay, *minArea); err != nil {
		log.Fatal("Error: ", err)
	}
}

func run(params vibe.Params, inPath, inGlob, outPath, gtFile, dbFile string,
	accuracy, overlay bool, minArea int) error {

	seq, err := frameio.NewSequence(inPath, inGlob, false)

	if err != nil {
		return fmt.Errorf("enumerating input files: %w", err)
	}

	engine, err := segment.NewEngine(params)

	if err != nil {
		return err
	}

	report, err := engine.Train(seq)

	if err != nil {
		return fmt.Errorf("training background model: %w", err)
	}

	if report.Clamped {
		log.Printf("Warning: only %d of %d requested training frames available",
			report.FramesRead, report.Requested)
	}

	// segment the full sequence from the start, as the original did the
	// training frames are segmented too
	seq.Reset()

	var runStore *store.Store
	var runID string

	if dbFile != "" {

		runStore, err = store.New(dbFile)

		if err != nil {
			return fmt.Errorf("opening run database: %w", err)
		}

		defer runStore.Close()

		runID, err = runStore.CreateRun(params, inPath)

		if err != nil {
			return err
		}
	}

	var lastMask *vibe.Mask
	lastIndex := -1

	sink := func(index int, frame *vibe.Frame, mask *vibe.Mask) error {

		outFile := filepath.Join(outPath,
			fmt.Sprintf("BackgroundSegmentation_%d.png", index))

		if err := writeMask(outFile, mask); err != nil {
			return err
		}

		regs := regions.Merge(regions.Extract(mask, minArea))

		if overlay {

			overlayFile := filepath.Join(outPath,
				fmt.Sprintf("Overlay_%d.png", index))

			if err := writeOverlay(overlayFile, frame, mask, regs); err != nil {
				return err
			}
		}

		if runStore != nil {

			fg := mask.ForegroundCount()
			ratio := float64(fg) / float64(len(mask.Pix))

			if err := runStore.RecordFrame(runID, index, fg, len(regs), ratio); err != nil {
				return err
			}
		}

		lastMask = mask
		lastIndex = index

		return nil
	}

	stats, err := engine.Run(seq, sink)

	if err != nil {
		return err
	}

	mean, stddev := stats.Summary()
	log.Printf("Processed %d frames, foreground ratio mean %.4f stddev %.4f",
		len(stats.Frames), mean, stddev)

	if accuracy && lastMask != nil {
		if err := compareGroundTruth(gtFile, lastMask, lastIndex, runStore, runID); err != nil {
			return err
		}
	}

	if runStore != nil {
		if err := runStore.FinishRun(runID); err != nil {
			return err
		}
	}

	return nil
}

// validateGroundTruth checks the ground truth image file exists
func validateGroundTruth(path string) error {

	info, err := os.Stat(path)

	if err != nil || info.IsDir() {
		return fmt.Errorf("invalid ground truth image: %s", path)
	}

	return nil
}

// writeMask saves a segmentation mask as a grayscale png
func writeMask(path string, mask *vibe.Mask) error {

	img, err := render.MaskToMat(mask)

	if err != nil {
		return fmt.Errorf("converting mask: %w", err)
	}

	defer img.Close()

	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("error writing image to: %s", path)
	}

	return nil
}

// writeOverlay saves the source frame with the foreground blended over it
// and region boxes drawn
func writeOverlay(path string, frame *vibe.Frame, mask *vibe.Mask,
	regs []regions.Region) error {

	img, err := gocv.NewMatFromBytes(frame.Height, frame.Width,
		gocv.MatTypeCV8UC3, frame.Pix)

	if err != nil {
		return fmt.Errorf("converting frame: %w", err)
	}

	defer img.Close()

	if err := render.MaskOverlay(&img, mask, render.Red, 0.5); err != nil {
		return err
	}

	render.RegionBoxes(&img, regs, render.Yellow, render.DefaultFont(), 2)

	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("error writing image to: %s", path)
	}

	return nil
}

// compareGroundTruth evaluates the final mask against the ground truth
// image and reports the accuracy metrics
func compareGroundTruth(gtFile string, mask *vibe.Mask, frameIndex int,
	runStore *store.Store, runID string) error {

	gt, err := frameio.LoadMask(gtFile)

	if err != nil {
		return fmt.Errorf("loading ground truth: %w", err)
	}

	report, err := evaluate.CompareGroundTruth(gt, mask)

	if errors.Is(err, evaluate.ErrDimensionMismatch) {
		return fmt.Errorf("ground truth does not match frame %d: %w",
			frameIndex, err)
	}

	if err != nil {
		return err
	}

	c := report.Counts
	log.Printf("TP = %d, FP = %d, TN = %d, FN = %d",
		c.TruePositive, c.FalsePositive, c.TrueNegative, c.FalseNegative)
	log.Printf("Precision = %.4f", report.Precision)
	log.Printf("Recall = %.4f", report.Recall)
	log.Printf("Specificity = %.4f", report.Specificity)
	log.Printf("F-measure = %.4f", report.FMeasure)
	log.Printf("Accuracy = %.4f", report.Accuracy)

	if runStore != nil {
		return runStore.RecordEvaluation(runID, frameIndex, report)
	}

	return nil
}
