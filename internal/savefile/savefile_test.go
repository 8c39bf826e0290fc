package savefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"cellgrid/internal/core"
)

func gridFromRows(t *testing.T, rows ...string) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(len(rows[0]), len(rows))
	if err != nil {
		t.Fatal(err)
	}
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				g.Set(x, y, core.Alive)
			}
		}
	}
	return g
}

func TestEncodeLayout(t *testing.T) {
	g := gridFromRows(t, "#.#", ".#.")
	var buf bytes.Buffer
	if err := Encode(&buf, 42, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "42\n1 0 1 \n0 1 0 \n"
	if buf.String() != want {
		t.Fatalf("Encode wrote %q, want %q", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	g := gridFromRows(t,
		"#...#",
		".##..",
		"....#",
		"#....",
	)
	var buf bytes.Buffer
	if err := Encode(&buf, 1234, g); err != nil {
		t.Fatal(err)
	}
	snap, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Generation != 1234 {
		t.Fatalf("generation %d, want 1234", snap.Generation)
	}
	if !snap.Grid.Equal(g) {
		t.Fatal("decoded grid differs from encoded grid")
	}
}

func TestRoundTripKeepsWrittenDeadColumns(t *testing.T) {
	// Width is inferred from token count, not from live cells, so a dead
	// trailing column survives the trip as long as it was written.
	g := gridFromRows(t, "#..", ".#.")
	var buf bytes.Buffer
	Encode(&buf, 0, g)
	snap, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Grid.W != 3 {
		t.Fatalf("width %d, want 3", snap.Grid.W)
	}
}

func TestDecodeTolerant(t *testing.T) {
	in := "7\n1 1 x 1\n\n0 1\n   \n1,0,0,0,1\n"
	snap, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Generation != 7 {
		t.Fatalf("generation %d", snap.Generation)
	}
	// The whitespace-only line is non-empty and counts as an all-dead row.
	if snap.Grid.W != 5 || snap.Grid.H != 4 {
		t.Fatalf("size %dx%d, want 5x4", snap.Grid.W, snap.Grid.H)
	}
	want := gridFromRows(t,
		"###..",
		".#...",
		".....",
		"#...#",
	)
	if !snap.Grid.Equal(want) {
		t.Fatal("tolerant parse produced the wrong cells")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader("")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty input err=%v", err)
	}
	if _, err := Decode(strings.NewReader("3\n\n\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("no rows err=%v", err)
	}
	if _, err := Decode(strings.NewReader("abc\n1 0\n")); err == nil {
		t.Fatal("bad generation accepted")
	}
}

func TestReadRejectsExtensionWithoutOpening(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrExtension) {
		t.Fatalf("err=%v, want ErrExtension", err)
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing.gol")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err=%v", err)
	}
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.gol")
	g := gridFromRows(t, ".#.", "###")
	if err := Write(path, 9, g); err != nil {
		t.Fatalf("Write: %v", err)
	}
	snap, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.Generation != 9 || !snap.Grid.Equal(g) {
		t.Fatal("file round trip failed")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestWriteFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	g := gridFromRows(t, "101", "010")
	path := filepath.Join(t.TempDir(), "board.gol")
	if err := Write(path, 1, g); err != nil {
		t.Fatalf("Write: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Fatalf("new save mode %v, want 0644", fi.Mode().Perm())
	}

	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, 2, g); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if fi, _ = os.Stat(path); fi.Mode().Perm() != 0o640 {
		t.Fatalf("overwritten save mode %v, want 0640", fi.Mode().Perm())
	}
}

func TestWriteIntoMissingDirFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodir", "board.gol")
	if err := Write(path, 1, gridFromRows(t, "#")); err == nil {
		t.Fatal("write into a missing directory succeeded")
	}
}

func TestAutoName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 5, 1, 13, 7, 0, 0, time.Local)

	first, err := AutoName(dir, now)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first) != "2024-05-01_13-07.gol" {
		t.Fatalf("first name %q", first)
	}
	os.WriteFile(first, nil, 0o644)

	second, _ := AutoName(dir, now)
	if filepath.Base(second) != "2024-05-01_13-07_1.gol" {
		t.Fatalf("second name %q", second)
	}
	os.WriteFile(second, nil, 0o644)

	third, _ := AutoName(dir, now)
	if filepath.Base(third) != "2024-05-01_13-07_2.gol" {
		t.Fatalf("third name %q", third)
	}
}

func TestWriteAutoCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves", "nested")
	path, err := WriteAuto(dir, 3, gridFromRows(t, "#."))
	if err != nil {
		t.Fatalf("WriteAuto: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, Ext) {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := Read(path); err != nil {
		t.Fatalf("Read back: %v", err)
	}
}
