package template

import (
	"reflect"
	"testing"
)

type ints []int

func (c ints) Len() int      { return len(c) }
func (c ints) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func TestStepMove(t *testing.T) {
	tests := []struct {
		name      string
		in        ints
		i         int
		dir       Direction
		want      ints
		wantMoved bool
	}{
		{name: "up", in: ints{1, 2, 3}, i: 1, dir: Up, want: ints{2, 1, 3}, wantMoved: true},
		{name: "down", in: ints{1, 2, 3}, i: 1, dir: Down, want: ints{1, 3, 2}, wantMoved: true},
		{name: "first up is a no-op", in: ints{1, 2, 3}, i: 0, dir: Up, want: ints{1, 2, 3}},
		{name: "last down is a no-op", in: ints{1, 2, 3}, i: 2, dir: Down, want: ints{1, 2, 3}},
		{name: "negative index", in: ints{1, 2, 3}, i: -1, dir: Up, want: ints{1, 2, 3}},
		{name: "index out of range", in: ints{1, 2, 3}, i: 3, dir: Down, want: ints{1, 2, 3}},
		{name: "unknown direction", in: ints{1, 2, 3}, i: 1, dir: Direction("sideways"), want: ints{1, 2, 3}},
		{name: "single element up", in: ints{1}, i: 0, dir: Up, want: ints{1}},
		{name: "single element down", in: ints{1}, i: 0, dir: Down, want: ints{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if moved := StepMove(tt.in, tt.i, tt.dir); moved != tt.wantMoved {
				t.Errorf("StepMove() = %v, want %v", moved, tt.wantMoved)
			}
			if !reflect.DeepEqual(tt.in, tt.want) {
				t.Errorf("collection = %v, want %v", tt.in, tt.want)
			}
		})
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name      string
		in        ints
		src, tgt  int
		want      ints
		wantMoved bool
	}{
		{name: "forwards", in: ints{1, 2, 3, 4, 5}, src: 1, tgt: 3, want: ints{1, 3, 4, 2, 5}, wantMoved: true},
		{name: "backwards", in: ints{1, 2, 3, 4, 5}, src: 3, tgt: 0, want: ints{4, 1, 2, 3, 5}, wantMoved: true},
		{name: "to last", in: ints{1, 2, 3}, src: 0, tgt: 2, want: ints{2, 3, 1}, wantMoved: true},
		{name: "to first", in: ints{1, 2, 3}, src: 2, tgt: 0, want: ints{3, 1, 2}, wantMoved: true},
		{name: "same position", in: ints{1, 2, 3}, src: 1, tgt: 1, want: ints{1, 2, 3}},
		{name: "src out of range", in: ints{1, 2, 3}, src: 3, tgt: 0, want: ints{1, 2, 3}},
		{name: "tgt out of range", in: ints{1, 2, 3}, src: 0, tgt: 3, want: ints{1, 2, 3}},
		{name: "negative src", in: ints{1, 2, 3}, src: -1, tgt: 1, want: ints{1, 2, 3}},
		{name: "negative tgt", in: ints{1, 2, 3}, src: 1, tgt: -1, want: ints{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if moved := Reorder(tt.in, tt.src, tt.tgt); moved != tt.wantMoved {
				t.Errorf("Reorder() = %v, want %v", moved, tt.wantMoved)
			}
			if !reflect.DeepEqual(tt.in, tt.want) {
				t.Errorf("collection = %v, want %v", tt.in, tt.want)
			}
		})
	}
}

// Moving an element up and then moving it back down must restore the original
// order, for every index. At i=0 both moves are boundary no-ops.
func TestStepMove_upThenDownRestores(t *testing.T) {
	orig := ints{1, 2, 3, 4, 5}
	for i := 0; i < len(orig); i++ {
		in := make(ints, len(orig))
		copy(in, orig)

		movedUp := StepMove(in, i, Up)
		movedDown := StepMove(in, i-1, Down)

		if movedUp != movedDown {
			t.Errorf("i=%d: up moved=%v but down moved=%v", i, movedUp, movedDown)
		}
		if wantMoved := i > 0; movedUp != wantMoved {
			t.Errorf("i=%d: StepMove(Up) = %v, want %v", i, movedUp, wantMoved)
		}
		if !reflect.DeepEqual(in, orig) {
			t.Errorf("i=%d: collection = %v, want %v restored", i, in, orig)
		}
	}
}

// Reorder must behave exactly like removing the element and re-inserting it at
// the target position.
func TestReorder_removeInsertEquivalence(t *testing.T) {
	n := 6
	for src := 0; src < n; src++ {
		for tgt := 0; tgt < n; tgt++ {
			in := make(ints, n)
			for i := range in {
				in[i] = i
			}

			want := make(ints, 0, n)
			want = append(want, in[:src]...)
			want = append(want, in[src+1:]...)
			want = append(want[:tgt:tgt], append(ints{in[src]}, want[tgt:]...)...)

			got := make(ints, n)
			copy(got, in)
			Reorder(got, src, tgt)

			if !reflect.DeepEqual(got, want) {
				t.Errorf("Reorder(%d, %d) = %v, want %v", src, tgt, got, want)
			}
		}
	}
}
