package view

import "testing"

func TestLayoutFrame(t *testing.T) {
	root := NewContainer("root", Frame)
	a := NewLeaf("a").Sized(10, 10).Margined(5, 7, 0, 0)
	b := NewLeaf("b")
	b.Params = MatchParams().WithMargin(2, 2, 2, 2)
	_ = root.AddChild(a)
	_ = root.AddChild(b)

	Layout(root, 100, 50)

	if got, want := a.Bounds(), (Rect{Left: 5, Top: 7, Width: 10, Height: 10}); got != want {
		t.Errorf("a bounds = %+v, want %+v", got, want)
	}
	if got, want := b.Bounds(), (Rect{Left: 2, Top: 2, Width: 96, Height: 46}); got != want {
		t.Errorf("b bounds = %+v, want %+v", got, want)
	}
	if !a.Measured() || !root.Measured() {
		t.Error("layout should mark nodes measured")
	}
}

func TestLayoutStacks(t *testing.T) {
	tests := []struct {
		name        string
		orientation Orientation
		want        []Rect
	}{
		{
			name:        "vertical",
			orientation: Vertical,
			want: []Rect{
				{Left: 0, Top: 1, Width: 20, Height: 10},
				{Left: 0, Top: 12, Width: 30, Height: 5},
			},
		},
		{
			name:        "horizontal",
			orientation: Horizontal,
			want: []Rect{
				{Left: 0, Top: 1, Width: 20, Height: 10},
				{Left: 20, Top: 0, Width: 30, Height: 5},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewContainer("root", tt.orientation)
			a := NewLeaf("a").Sized(20, 10).Margined(0, 1, 0, 1)
			b := NewLeaf("b").Sized(30, 5)
			_ = root.AddChild(a)
			_ = root.AddChild(b)

			Layout(root, 200, 200)

			for i, n := range []*Node{a, b} {
				if got := n.Bounds(); got != tt.want[i] {
					t.Errorf("%s bounds = %+v, want %+v", n.ID, got, tt.want[i])
				}
			}
		})
	}
}

func TestLayoutWrapContent(t *testing.T) {
	root := NewContainer("root", Frame)
	col := NewContainer("col", Vertical)
	title := NewLeaf("title")
	title.Intrinsic = Size{Width: 40, Height: 8}
	body := NewLeaf("body").Sized(60, 20).Margined(0, 2, 0, 0)
	_ = col.AddChild(title)
	_ = col.AddChild(body)
	_ = root.AddChild(col)

	Layout(root, 300, 300)

	if got, want := col.Bounds(), (Rect{Width: 60, Height: 30}); got != want {
		t.Errorf("col bounds = %+v, want %+v", got, want)
	}
	if got, want := title.Bounds(), (Rect{Width: 40, Height: 8}); got != want {
		t.Errorf("title bounds = %+v, want %+v", got, want)
	}
}

func TestAbsoluteOffset(t *testing.T) {
	root := NewContainer("root", Frame)
	a := NewContainer("a", Frame).Sized(100, 100).Margined(10, 10, 0, 0)
	b := NewContainer("b", Frame).Sized(50, 50).Margined(5, 5, 0, 0)
	l := NewLeaf("l").Sized(4, 4).Margined(2, 2, 0, 0)
	_ = root.AddChild(a)
	_ = a.AddChild(b)
	_ = b.AddChild(l)
	Layout(root, 200, 200)

	left, top, ok := AbsoluteOffset(l, root)
	if !ok {
		t.Fatal("root not found on parent chain")
	}
	if left != 17 || top != 17 {
		t.Errorf("offset = (%d,%d), want (17,17)", left, top)
	}

	if _, _, ok := AbsoluteOffset(l, NewContainer("stranger", Frame)); ok {
		t.Error("unrelated ancestor should report ok=false")
	}
	if left, top, ok := AbsoluteOffset(root, root); !ok || left != 0 || top != 0 {
		t.Errorf("self offset = (%d,%d,%v), want (0,0,true)", left, top, ok)
	}
}

func TestWrapInFrame(t *testing.T) {
	parent := NewContainer("parent", Vertical)
	first := NewLeaf("first").Sized(10, 10)
	list := NewContainer("list", Vertical).Sized(80, 40).Margined(1, 2, 3, 4)
	_ = parent.AddChild(first)
	_ = parent.AddChild(list)
	Layout(parent, 100, 100)

	frame := WrapInFrame(list, "list-frame")

	if parent.ChildAt(1) != frame {
		t.Fatal("frame did not take list's slot")
	}
	if frame.Params != (Params{Width: 80, Height: 40, Margin: Margin{1, 2, 3, 4}}) {
		t.Errorf("frame params = %+v", frame.Params)
	}
	if list.Parent() != frame || frame.ChildCount() != 1 {
		t.Error("list not moved under frame")
	}

	Layout(parent, 100, 100)
	if got, want := list.Bounds(), (Rect{Width: 80, Height: 40}); got != want {
		t.Errorf("list bounds = %+v, want %+v", got, want)
	}
}

func TestMeasureAndLeaves(t *testing.T) {
	root := NewContainer("root", Frame)
	a := NewContainer("a", Vertical)
	_ = a.AddChild(NewLeaf("a1"))
	_ = a.AddChild(NewLeaf("a2"))
	_ = root.AddChild(a)
	_ = root.AddChild(NewLeaf("b"))
	_ = root.AddChild(NewPlaceholder("p", 1, 1))

	s := Measure(root)
	if s != (Stats{Containers: 1, Leaves: 4, Placeholders: 1, Depth: 2}) {
		t.Errorf("Measure = %+v", s)
	}

	var ids []string
	for _, n := range Leaves(root) {
		ids = append(ids, n.ID)
	}
	want := []string{"a1", "a2", "b", "p"}
	if len(ids) != len(want) {
		t.Fatalf("Leaves = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Leaves[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
