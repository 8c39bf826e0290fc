// Package savefile reads and writes the plain-text .gol format.
//
// The first line holds the generation counter. Every following non-empty
// line is one row, top to bottom, with each cell written as '0' or '1'
// followed by a single space. Width is not stored: on read it is the
// longest row's token count, shorter rows are padded with Dead cells and
// any character other than '0' or '1' is ignored.
package savefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cellgrid/internal/core"
)

// Ext is the required file extension.
const Ext = ".gol"

var (
	// ErrExtension is returned for file names that do not end in Ext.
	ErrExtension = errors.New("save file name must end in " + Ext)
	// ErrEmpty is returned when a file holds no cells.
	ErrEmpty = errors.New("save file holds no cells")
)

// Snapshot is a decoded save file.
type Snapshot struct {
	Generation uint64
	Grid       *core.Grid
}

// CellReader is the read side of an engine as seen by the encoder.
type CellReader interface {
	Size() core.Size
	Get(x, y int) (core.CellState, error)
}

// Encode writes gen and every cell of src in .gol form.
func Encode(w io.Writer, gen uint64, src CellReader) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.FormatUint(gen, 10))
	bw.WriteByte('\n')

	size := src.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			s, err := src.Get(x, y)
			if err != nil {
				return err
			}
			if s == core.Alive {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Decode parses a .gol stream. Rows are buffered so the width can be known
// before the grid is allocated.
func Decode(r io.Reader) (*Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read generation: %w", err)
		}
		return nil, ErrEmpty
	}
	var gen uint64
	if fields := strings.Fields(sc.Text()); len(fields) > 0 {
		parsed, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse generation: %w", err)
		}
		gen = parsed
	}

	// Size pass.
	var rows []string
	width := 0
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rows = append(rows, line)
		width = max(width, countTokens(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if width == 0 || len(rows) == 0 {
		return nil, ErrEmpty
	}

	// Fill pass.
	g, err := core.NewGrid(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, line := range rows {
		row := g.Row(y)
		x := 0
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '1':
				row[x] = core.Alive
				x++
			case '0':
				x++
			}
		}
	}
	return &Snapshot{Generation: gen, Grid: g}, nil
}

func countTokens(line string) int {
	return strings.Count(line, "0") + strings.Count(line, "1")
}

// CheckName rejects names without the .gol extension.
func CheckName(path string) error {
	if !strings.HasSuffix(path, Ext) {
		return fmt.Errorf("%q: %w", path, ErrExtension)
	}
	return nil
}

// Read loads a save file. The extension is checked before the file is opened.
func Read(path string) (*Snapshot, error) {
	if err := CheckName(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save %s: %w", path, err)
	}
	defer f.Close()
	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode save %s: %w", path, err)
	}
	return snap, nil
}

// Write stores gen and src at path. The data goes to a temporary file in
// the same directory which is renamed over path only once fully written,
// so a failed write leaves any previous file untouched. New files get mode
// 0644; an existing file keeps its permissions.
func Write(path string, gen uint64, src CellReader) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".save-*"+Ext)
	if err != nil {
		return fmt.Errorf("create save in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("write save %s: %w", path, err)
	}
	if err := Encode(tmp, gen, src); err != nil {
		tmp.Close()
		return fmt.Errorf("write save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write save %s: %w", path, err)
	}
	return nil
}

// AutoName picks an unused file name in dir stamped with now, e.g.
// "2024-05-01_13-07.gol", then "2024-05-01_13-07_1.gol" and so on.
func AutoName(dir string, now time.Time) (string, error) {
	stamp := now.Format("2006-01-02_15-04")
	for n := 0; ; n++ {
		name := stamp + Ext
		if n > 0 {
			name = stamp + "_" + strconv.Itoa(n) + Ext
		}
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
}

// WriteAuto creates dir if needed and saves under an AutoName file name.
// It returns the path written.
func WriteAuto(dir string, gen uint64, src CellReader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir %s: %w", dir, err)
	}
	path, err := AutoName(dir, time.Now())
	if err != nil {
		return "", err
	}
	if err := Write(path, gen, src); err != nil {
		return "", err
	}
	return path, nil
}
