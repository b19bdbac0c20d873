// Package segcache reads per-row segment caches stored as Parquet files.
//
// Each raster row has its own file named segments_r{row}.parquet holding one
// record per classified segment. Records of the same pixel are grouped and
// ordered by start day when read.
package segcache

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/schema"
	"github.com/parquet-go/parquet-go"
)

// Record is one classified segment as stored in a cache file.
type Record struct {
	Row   int32 `parquet:"row"`
	Col   int32 `parquet:"col"`
	Start int32 `parquet:"start"` // ordinal day
	End   int32 `parquet:"end"`   // ordinal day
	Class int32 `parquet:"class"`
}

var fileNameRe = regexp.MustCompile(`^segments_r(\d+)\.parquet$`)

// FileName returns the cache file name for row.
func FileName(row int) string {
	return fmt.Sprintf("segments_r%d.parquet", row)
}

// Source serves segment caches from a directory.
type Source struct {
	dir       string
	recursive bool

	indexOnce sync.Once
	index     map[int]string
	indexErr  error
}

var _ contract.SegmentSource = &Source{} // Compile-time check

// NewSource returns a Source reading caches from dir. With recursive set,
// caches are also looked up in sub-directories; the first file found in
// lexical walk order wins.
func NewSource(dir string, recursive bool) *Source {
	return &Source{dir: dir, recursive: recursive}
}

// Row implements contract.SegmentSource.
func (s *Source) Row(ctx context.Context, row int) ([][]schema.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.locate(row)
	if err != nil {
		return nil, err
	}
	records, err := parquet.ReadFile[Record](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment cache %s: %w", path, err)
	}
	return groupPixels(records)
}

// locate returns the cache path for row or ErrNoSegmentCache.
func (s *Source) locate(row int) (string, error) {
	if !s.recursive {
		path := filepath.Join(s.dir, FileName(row))
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", contract.ErrNoSegmentCache, path)
			}
			return "", err
		}
		return path, nil
	}

	s.indexOnce.Do(func() {
		s.index, s.indexErr = buildIndex(s.dir)
	})
	if s.indexErr != nil {
		return "", s.indexErr
	}
	path, ok := s.index[row]
	if !ok {
		return "", fmt.Errorf("%w: row %d under %s", contract.ErrNoSegmentCache, row, s.dir)
	}
	return path, nil
}

// buildIndex maps row numbers to cache files found anywhere under dir.
func buildIndex(dir string) (map[int]string, error) {
	index := make(map[int]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		m := fileNameRe.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		row, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		if prev, dup := index[row]; dup {
			log.Debugw("Ignoring duplicate segment cache", "row", row, "kept", prev, "ignored", path)
			return nil
		}
		index[row] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index segment caches under %s: %w", dir, err)
	}
	log.Debugw("Indexed segment caches", "dir", dir, "files", len(index))
	return index, nil
}

// groupPixels splits records into per-pixel segment lists ordered by column,
// each sorted by start day.
func groupPixels(records []Record) ([][]schema.Segment, error) {
	byCol := make(map[int][]schema.Segment)
	for i, r := range records {
		if r.Class < 0 || r.Class > 255 {
			return nil, fmt.Errorf("record %d has class %d outside 0-255", i, r.Class)
		}
		col := int(r.Col)
		byCol[col] = append(byCol[col], schema.Segment{
			Start: int(r.Start),
			End:   int(r.End),
			Class: uint8(r.Class),
			Pixel: schema.Pixel{Row: int(r.Row), Col: col},
		})
	}

	cols := make([]int, 0, len(byCol))
	for col := range byCol {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	out := make([][]schema.Segment, 0, len(cols))
	for _, col := range cols {
		segs := byCol[col]
		slices.SortStableFunc(segs, func(a, b schema.Segment) int { return cmp.Compare(a.Start, b.Start) })
		out = append(out, segs)
	}
	return out, nil
}

// WriteRow stores the segments of one row as a cache file in dir.
func WriteRow(dir string, row int, pixels [][]schema.Segment) error {
	var records []Record
	for _, segs := range pixels {
		for _, s := range segs {
			records = append(records, Record{
				Row:   int32(s.Pixel.Row),
				Col:   int32(s.Pixel.Col),
				Start: int32(s.Start),
				End:   int32(s.End),
				Class: int32(s.Class),
			})
		}
	}
	path := filepath.Join(dir, FileName(row))
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("failed to write segment cache %s: %w", path, err)
	}
	return nil
}
