package merge

import (
	"testing"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

func TestRegistryRejectsNil(t *testing.T) {
	defer ResetCapabilities()

	if err := SetLocationProvider(nil); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("SetLocationProvider(nil) = %v", err)
	}
	if err := SetReadinessChecker(nil); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("SetReadinessChecker(nil) = %v", err)
	}
	if err := SetEventExtractor(nil); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("SetEventExtractor(nil) = %v", err)
	}

	caps := CurrentCapabilities()
	if caps.Location == nil || caps.Readiness == nil || caps.Events == nil {
		t.Error("rejected nil replaced a registered collaborator")
	}
}

func TestRegistrySnapshotUsedByManager(t *testing.T) {
	defer ResetCapabilities()

	if err := SetLocationProvider(LocationFunc(func(*view.Node, *view.Node) Loc {
		return Loc{Left: 1, Top: 1}
	})); err != nil {
		t.Fatal(err)
	}
	root := laidOut(50, 50, frame("a", 10, 10, 20, 20, leaf("x", 5, 5, 2, 2)))
	m, err := New(root, &Options{Logger: quiet()})
	if err != nil {
		t.Fatal(err)
	}

	// Later registrations do not affect an existing manager.
	ResetCapabilities()

	if _, err := m.MergeChildrenLayers(); err != nil {
		t.Fatal(err)
	}
	if got := root.ChildAt(0).Params.Margin; got != (view.Margin{Left: 1, Top: 1}) {
		t.Errorf("margin = %+v, want the snapshotted provider's location", got)
	}
}

func TestCapabilitiesGeneration(t *testing.T) {
	defer ResetCapabilities()

	start := CapabilitiesGeneration()
	if err := SetReadinessChecker(nil); err == nil {
		t.Fatal("nil checker accepted")
	}
	if got := CapabilitiesGeneration(); got != start {
		t.Errorf("rejected Set moved generation %d -> %d", start, got)
	}

	steps := []struct {
		name string
		set  func() error
	}{
		{"readiness", func() error { return SetReadinessChecker(DefaultReadinessChecker) }},
		{"location", func() error { return SetLocationProvider(DefaultLocationProvider) }},
		{"events", func() error { return SetEventExtractor(DefaultEventExtractor) }},
		{"background", func() error { SetBackgroundExtractor(nil); return nil }},
		{"reset", func() error { ResetCapabilities(); return nil }},
	}
	prev := start
	for _, s := range steps {
		if err := s.set(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		got := CapabilitiesGeneration()
		if got <= prev {
			t.Errorf("%s: generation %d, want > %d", s.name, got, prev)
		}
		prev = got
	}
}

func TestOptionsCapabilitiesFillDefaults(t *testing.T) {
	root, _, _ := nested()
	caps := &Capabilities{Readiness: ReadinessFunc(func(*view.Node) bool { return true })}

	_, ok := mustMerge(t, root, Options{Threshold: 1, Capabilities: caps})
	if !ok {
		t.Fatal("merge reported failure")
	}
	if got := root.ChildAt(0).Params.Margin; got != (view.Margin{Left: 17, Top: 17}) {
		t.Errorf("default location provider not used: margin = %+v", got)
	}
}

func TestDefaultReadiness(t *testing.T) {
	n := view.NewLeaf("x")
	if DefaultReadinessChecker.IsReady(n) {
		t.Error("unmeasured node reported ready")
	}
	n.SetBounds(view.Rect{Width: 0, Height: 0})
	if DefaultReadinessChecker.IsReady(n) {
		t.Error("zero-size node reported ready")
	}
	n.SetBounds(view.Rect{Width: 0, Height: 3})
	if !DefaultReadinessChecker.IsReady(n) {
		t.Error("measured node with height reported unready")
	}
}

func TestExtractionResultValid(t *testing.T) {
	x := view.NewLeaf("x")
	tests := []struct {
		name string
		res  ExtractionResult
		want bool
	}{
		{"empty", ExtractionResult{}, true},
		{"aligned", ExtractionResult{Views: []*view.Node{x}, Locs: []Loc{{}}}, true},
		{"short locs", ExtractionResult{Views: []*view.Node{x}}, false},
		{"nil view", ExtractionResult{Views: []*view.Node{nil}, Locs: []Loc{{}}}, false},
	}
	for _, tt := range tests {
		if got := tt.res.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
