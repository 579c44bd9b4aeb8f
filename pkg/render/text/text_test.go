package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/layermerge/pkg/view"
)

func sample() *view.Node {
	l := view.NewLeaf("L").Sized(4, 4).Margined(2, 2, 0, 0)
	b := view.NewContainer("B", view.Frame).Sized(50, 50).Margined(5, 5, 0, 0)
	_ = b.AddChild(l)
	a := view.NewContainer("A", view.Frame).Sized(100, 100).Margined(10, 10, 0, 0)
	a.Background = &view.Paint{Color: "#fff"}
	a.OnClick = &view.Handler{Name: "open"}
	_ = a.AddChild(b)
	root := view.NewContainer("root", view.Frame)
	_ = root.AddChild(a)
	_ = root.AddChild(view.NewLeaf("N").Sized(20, 20).Margined(200, 0, 0, 0))
	view.Layout(root, 300, 200)
	return root
}

func TestOutline(t *testing.T) {
	got := Outline(sample(), Options{})
	want := strings.Join([]string{
		"root frame 300x200 @ 0,0",
		"├── A frame 100x100 @ 10,10 bg=#fff click=open",
		"│   └── B frame 50x50 @ 15,15",
		"│       └── L 4x4 @ 17,17",
		"└── N 20x20 @ 200,0",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("Outline =\n%s\nwant\n%s", got, want)
	}
}

func TestOutlineMaxDepth(t *testing.T) {
	lines := Lines(sample(), Options{MaxDepth: 1})
	want := []string{
		"root frame 300x200 @ 0,0",
		"├── A frame 100x100 @ 10,10 bg=#fff click=open",
		"│   └── … 1 more",
		"└── N 20x20 @ 200,0",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("Lines =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestOutlinePlaceholderAndUnmeasured(t *testing.T) {
	root := view.NewContainer("root", view.Frame)
	holder := view.NewPlaceholder("card", 5, 5)
	holder.MarkPlaceholder(view.AttrBackground | view.AttrLongClick)
	_ = root.AddChild(holder)

	lines := Lines(root, Options{})
	if got, want := lines[1], "└── card placeholder[background,longclick] unmeasured"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestOutlineStyledKeepsText(t *testing.T) {
	got := Outline(sample(), Options{Styles: DefaultStyles()})
	for _, want := range []string{"root", "frame", "17,17", "bg=#fff"} {
		if !strings.Contains(got, want) {
			t.Errorf("styled outline missing %q", want)
		}
	}
}
