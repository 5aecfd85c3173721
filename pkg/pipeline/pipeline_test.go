package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/celldraw/pkg/cache"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/errors"
	"github.com/matzehuels/celldraw/pkg/observability"
)

const sample = `{
	"version": 1,
	"nodes": [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}],
	"arrows": [{"name": "f", "from": "A", "to": "B"}, {"name": "g", "from": "B", "to": "A", "curve": 20}]
}`

// memCache is an in-memory Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"deps", false},
		{"png", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %q", errors.GetCode(err))
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() = %v", err)
	}
	if opts.NodeRadius != diagram.DefaultNodeRadius || opts.ViewPadding != diagram.DefaultViewPadding {
		t.Errorf("defaults = %v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Formats = append(opts.Formats, "bogus")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}

	bad := Options{Formats: []string{"pdf"}}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format should fail")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), []byte(sample), Options{Formats: []string{FormatJSON, FormatSVG, FormatDOT}})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Stats.NodeCount != 2 || res.Stats.ArrowCount != 2 || res.Stats.Resolved != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.ResolveHit || res.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"viewBox"`)) {
		t.Errorf("json artifact = %s", res.Artifacts[FormatJSON])
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact = %.80s", res.Artifacts[FormatSVG])
	}
	if !bytes.Contains(res.Artifacts[FormatDOT], []byte(`"A" -> "f";`)) {
		t.Errorf("dot artifact = %s", res.Artifacts[FormatDOT])
	}
	if res.SpecHash != cache.SpecHash([]byte(sample)) {
		t.Error("SpecHash should hash the compacted input")
	}
}

func TestExecuteCaching(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Formats: []string{FormatJSON, FormatSVG}}

	first, err := r.Execute(context.Background(), []byte(sample), opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.sets != 3 {
		t.Errorf("first run stored %d entries, want 3", c.sets)
	}

	second, err := r.Execute(context.Background(), []byte(sample), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ResolveHit || !second.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if len(second.Diagram.Arrows) != 2 {
		t.Errorf("cached diagram has %d arrows", len(second.Diagram.Arrows))
	}

	// A different radius is a different diagram.
	third, err := r.Execute(context.Background(), []byte(sample), Options{NodeRadius: 10, Formats: opts.Formats})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ResolveHit {
		t.Error("radius change should miss")
	}

	refreshed, err := r.Execute(context.Background(), []byte(sample), Options{Refresh: true, Formats: opts.Formats})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.ResolveHit {
		t.Error("Refresh should bypass the diagram cache")
	}
}

func TestExecuteDiagramErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"invalid", `{"nodes": [{"name": "A"}], "arrows": [{"from": "A", "to": "Z"}]}`, errors.ErrCodeInvalidInput},
		{"malformed", `{"nodes": `, errors.ErrCodeInvalidInput},
		{"cycle", `{"nodes": [{"name": "A"}], "arrows": [{"name": "f", "from": "A", "to": "f"}]}`, errors.ErrCodeDependencyCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemCache()
			res, err := NewRunner(c, nil, nil).Execute(context.Background(), []byte(tt.src), Options{})
			if !errors.Is(err, tt.code) {
				t.Fatalf("Execute() error = %v, want %s", err, tt.code)
			}
			if res == nil || res.Diagram == nil || res.Diagram.Error == nil {
				t.Fatalf("result should carry the failed diagram: %+v", res)
			}
			if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"error": "`)) {
				t.Errorf("json artifact = %s", res.Artifacts[FormatJSON])
			}
			if c.sets != 0 {
				t.Error("failed diagrams must not be cached")
			}
		})
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	resolves, renders, hits int
}

func (h *countingHooks) OnResolveComplete(context.Context, int, int, time.Duration, error) {
	h.resolves++
}
func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}
func (h *countingHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestExecuteHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r := NewRunner(newMemCache(), nil, nil)
	for range 2 {
		if _, err := r.Execute(context.Background(), []byte(sample), Options{Formats: []string{FormatSVG}}); err != nil {
			t.Fatal(err)
		}
	}
	if h.resolves != 1 || h.renders != 1 {
		t.Errorf("resolves = %d, renders = %d, want 1 each", h.resolves, h.renders)
	}
	if h.hits != 2 {
		t.Errorf("cache hits = %d, want 2", h.hits)
	}
}

func TestRenderDeps(t *testing.T) {
	spec, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	out, err := Render(context.Background(), spec, diagram.Resolve(spec), Options{Formats: []string{FormatDeps}})
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if !bytes.Contains(out[FormatDeps], []byte("<svg")) {
		t.Errorf("deps artifact = %.100s", out[FormatDeps])
	}
}

func TestReadInput(t *testing.T) {
	data, err := ReadInput("-", strings.NewReader(sample))
	if err != nil || string(data) != sample {
		t.Errorf("ReadInput(-) = %q, %v", data, err)
	}

	_, err = ReadInput(t.TempDir()+"/missing.json", nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	big := strings.NewReader(strings.Repeat(" ", MaxInputSize+1))
	if _, err := ReadInput("-", big); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized input error = %v", err)
	}
}
