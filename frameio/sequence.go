// Package frameio decodes image sequences and ground truth masks into the
// frame and mask types consumed by the model
package frameio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gocv.io/x/gocv"

	"github.com/swdee/go-vibe"
)

// Sequence is an ordered series of image files matched from a directory
// glob.  It implements the segment.Source contract, frames are decoded one
// at a time in lexicographic filename order
type Sequence struct {
	files []string
	idx   int
	gray  bool
}

// NewSequence enumerates the files in dir matching the glob pattern, for
// example "*.jpeg".  With gray set frames decode as single channel,
// otherwise as 3 channel BGR
func NewSequence(dir, glob string, gray bool) (*Sequence, error) {

	matches, err := filepath.Glob(filepath.Join(dir, glob))

	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", glob, err)
	}

	var files []string

	for _, match := range matches {

		info, err := os.Stat(match)

		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}

		if info.IsDir() {
			continue
		}

		files = append(files, match)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matching %s in %s", glob, dir)
	}

	sort.Strings(files)

	return &Sequence{
		files: files,
		gray:  gray,
	}, nil
}

// Len returns the number of files in the sequence
func (s *Sequence) Len() int {
	return len(s.files)
}

// Files returns the matched file paths in sequence order
func (s *Sequence) Files() []string {
	return s.files
}

// Reset rewinds the sequence to the first frame, used to segment the full
// sequence after training consumed a prefix of it
func (s *Sequence) Reset() {
	s.idx = 0
}

// Next decodes and returns the next frame, or io.EOF once the sequence is
// exhausted
func (s *Sequence) Next() (*vibe.Frame, error) {

	if s.idx >= len(s.files) {
		return nil, io.EOF
	}

	file := s.files[s.idx]
	s.idx++

	flag := gocv.IMReadColor

	if s.gray {
		flag = gocv.IMReadGrayScale
	}

	img := gocv.IMRead(file, flag)

	if img.Empty() {
		return nil, fmt.Errorf("error reading image from: %s", file)
	}

	defer img.Close()

	return FrameFromMat(img)
}

// FrameFromMat copies a Mat of 8 bit pixel data into a frame
func FrameFromMat(img gocv.Mat) (*vibe.Frame, error) {
	return vibe.NewFrame(img.Cols(), img.Rows(), img.Channels(), img.ToBytes())
}
