package render

import (
	"errors"
	"sync"
	"testing"

	ffmpegbin "github.com/Rionsanfas/lunaburn/internal/ffmpeg"
)

func stubEngine(paths ffmpegbin.BinaryPaths, err error) (*Engine, *int) {
	calls := 0
	e := &Engine{ensure: func() (ffmpegbin.BinaryPaths, error) {
		calls++
		return paths, err
	}}
	return e, &calls
}

func TestEngineLazyInit(t *testing.T) {
	want := ffmpegbin.BinaryPaths{FFmpeg: "/bin/ffmpeg", FFprobe: "/bin/ffprobe"}
	e, calls := stubEngine(want, nil)

	if *calls != 0 {
		t.Fatal("ensure ran before first Acquire")
	}

	paths, err := e.Acquire()
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if paths != want {
		t.Errorf("paths = %+v", paths)
	}
	if *calls != 1 {
		t.Errorf("ensure calls = %d, want 1", *calls)
	}

	// second Acquire reuses the loaded runtime
	if _, err := e.Acquire(); err != nil {
		t.Fatal(err)
	}
	if *calls != 1 {
		t.Errorf("ensure calls after reuse = %d, want 1", *calls)
	}
}

func TestEngineRefCounting(t *testing.T) {
	e, _ := stubEngine(ffmpegbin.BinaryPaths{FFmpeg: "f", FFprobe: "p"}, nil)

	if e.Refs() != 0 {
		t.Fatalf("initial refs = %d", e.Refs())
	}

	_, _ = e.Acquire()
	_, _ = e.Acquire()
	if e.Refs() != 2 {
		t.Errorf("refs = %d, want 2", e.Refs())
	}

	e.Release()
	if e.Refs() != 1 {
		t.Errorf("refs = %d, want 1", e.Refs())
	}

	e.Release()
	e.Release() // extra release must not go negative
	if e.Refs() != 0 {
		t.Errorf("refs = %d, want 0", e.Refs())
	}
}

func TestEngineAcquireFailureTakesNoRef(t *testing.T) {
	e, calls := stubEngine(ffmpegbin.BinaryPaths{}, errors.New("no binaries"))

	if _, err := e.Acquire(); err == nil {
		t.Fatal("expected Acquire to fail")
	}
	if e.Refs() != 0 {
		t.Errorf("refs after failed Acquire = %d", e.Refs())
	}

	// failure is not cached; a later Acquire retries
	if _, err := e.Acquire(); err == nil {
		t.Fatal("expected second Acquire to fail")
	}
	if *calls != 2 {
		t.Errorf("ensure calls = %d, want 2", *calls)
	}
}

func TestEngineConcurrentAcquire(t *testing.T) {
	e, calls := stubEngine(ffmpegbin.BinaryPaths{FFmpeg: "f", FFprobe: "p"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Acquire(); err != nil {
				t.Errorf("Acquire error: %v", err)
			}
		}()
	}
	wg.Wait()

	if *calls != 1 {
		t.Errorf("ensure calls = %d, want 1", *calls)
	}
	if e.Refs() != 8 {
		t.Errorf("refs = %d, want 8", e.Refs())
	}
}
