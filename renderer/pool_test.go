package renderer

import (
	"image"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	if want := runtime.GOMAXPROCS(0); pool.Workers() != want {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), want)
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	if !pool.ExecuteAll(work) {
		t.Fatal("ExecuteAll on a running pool returned false")
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	ran := false
	if pool.ExecuteAll([]func(){func() { ran = true }}) {
		t.Error("ExecuteAll on a closed pool returned true")
	}
	if ran {
		t.Error("work ran on a closed pool")
	}
	if pool.IsRunning() {
		t.Error("closed pool reports running")
	}
}

func TestTilesCoverFrame(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantTiles     int
	}{
		{"exact", 128, 64, 2},
		{"ragged", 100, 70, 4},
		{"single pixel", 1, 1, 1},
		{"wide", 1920, 1080, 30 * 17},
		{"empty", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := Tiles(tt.width, tt.height)
			if len(tiles) != tt.wantTiles {
				t.Fatalf("len(Tiles) = %d, want %d", len(tiles), tt.wantTiles)
			}
			frame := image.Rect(0, 0, tt.width, tt.height)
			hits := make([]int, tt.width*tt.height)
			for _, r := range tiles {
				if !r.In(frame) {
					t.Fatalf("tile %v outside frame %v", r, frame)
				}
				if r.Dx() > TileSize || r.Dy() > TileSize {
					t.Fatalf("tile %v larger than %d", r, TileSize)
				}
				for y := r.Min.Y; y < r.Max.Y; y++ {
					for x := r.Min.X; x < r.Max.X; x++ {
						hits[y*tt.width+x]++
					}
				}
			}
			for i, n := range hits {
				if n != 1 {
					t.Fatalf("pixel (%d,%d) covered %d times", i%tt.width, i/tt.width, n)
				}
			}
		})
	}
}
