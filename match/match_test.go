package match

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

func finders(t *testing.T, data []byte, window int) map[Algorithm]Finder {
	fs := make(map[Algorithm]Finder)
	for _, a := range []Algorithm{Naive, HashChain} {
		f, err := a.New(data, window)
		if err != nil {
			t.Fatalf("%v", err)
		}
		fs[a] = f
	}
	return fs
}

func TestOverlapping(t *testing.T) {
	data := []byte("abcabcabcx")
	for a, f := range finders(t, data, MaxOffset) {
		t.Run(a.String(), func(t *testing.T) {
			if m := f.Longest(3); m != (Match{Offset: 3, Length: 6}) {
				t.Errorf("%+v", m)
			}
			want := []Match{{3, 3}, {3, 4}, {3, 5}, {3, 6}}
			if got := f.All(3, nil); !slices.Equal(got, want) {
				t.Errorf("%+v", got)
			}
			if m := f.Longest(0); m != (Match{}) {
				t.Errorf("%+v", m)
			}
			// Too close to the end for any match.
			if m := f.Longest(8); m != (Match{}) {
				t.Errorf("%+v", m)
			}
		})
	}
}

func TestMostRecent(t *testing.T) {
	// "abcd" occurs at 0 and 5, "abcde" only at 0.
	data := []byte("abcde" + "abcdX" + "abcde")
	for a, f := range finders(t, data, MaxOffset) {
		t.Run(a.String(), func(t *testing.T) {
			want := []Match{{5, 3}, {5, 4}, {10, 5}}
			if got := f.All(10, nil); !slices.Equal(got, want) {
				t.Errorf("%+v", got)
			}
			if m := f.Longest(10); m != (Match{Offset: 10, Length: 5}) {
				t.Errorf("%+v", m)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	data := []byte("abcde" + "XXXXXX" + "abcde")
	for a, f := range finders(t, data, 10) {
		t.Run(a.String(), func(t *testing.T) {
			if m := f.Longest(11); m != (Match{}) {
				t.Errorf("%+v", m)
			}
		})
	}
	for a, f := range finders(t, data, 11) {
		t.Run(a.String(), func(t *testing.T) {
			if m := f.Longest(11); m != (Match{Offset: 11, Length: 5}) {
				t.Errorf("%+v", m)
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	data := make([]byte, MaxLength+100)
	for a, f := range finders(t, data, MaxOffset) {
		t.Run(a.String(), func(t *testing.T) {
			if m := f.Longest(1); m != (Match{Offset: 1, Length: MaxLength}) {
				t.Errorf("%+v", m)
			}
		})
	}
}

func TestAlgorithmsAgree(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		data := make([]byte, 3000)
		for i := range data {
			// A small alphabet gives plenty of matches.
			data[i] = byte('a' + rnd.Intn(3+trial))
		}
		window := 100 + rnd.Intn(2000)
		fs := finders(t, data, window)
		var got, want []Match
		for i := range data {
			want = fs[Naive].All(i, want)
			got = fs[HashChain].All(i, got)
			if !slices.Equal(got, want) {
				t.Fatalf("trial %d, position %d: %+v != %+v", trial, i, got, want)
			}
			if runs := expand(fs[HashChain].Runs(i, nil)); !slices.Equal(runs, want) {
				t.Fatalf("trial %d, position %d: runs %+v != %+v", trial, i, runs, want)
			}
			if fs[Naive].Longest(i) != fs[HashChain].Longest(i) {
				t.Fatalf("trial %d, position %d: %+v != %+v", trial, i, fs[Naive].Longest(i), fs[HashChain].Longest(i))
			}
		}
	}
}

// expand turns runs into the matches All returns.
func expand(runs []Match) []Match {
	var all []Match
	from := MinLength
	for _, r := range runs {
		for l := from; l <= r.Length; l++ {
			all = append(all, Match{Offset: r.Offset, Length: l})
		}
		from = r.Length + 1
	}
	return all
}

func TestRuns(t *testing.T) {
	data := []byte("abcde" + "abcdX" + "abcde")
	for a, f := range finders(t, data, MaxOffset) {
		t.Run(a.String(), func(t *testing.T) {
			want := []Match{{5, 4}, {10, 5}}
			if got := f.Runs(10, nil); !slices.Equal(got, want) {
				t.Errorf("%+v", got)
			}
		})
	}
}

func TestLength(t *testing.T) {
	data := make([]byte, 64)
	for n := 0; n < 30; n++ {
		for i := range data {
			data[i] = 'a'
		}
		// The copies at 0 and 32 differ first at n.
		data[32+n] = 'b'
		if got := length(data, 0, 32, 30); got != n {
			t.Errorf("%d != %d", got, n)
		}
	}
	data[32+29] = 'a'
	if got := length(data, 0, 32, 30); got != 30 {
		t.Errorf("%d", got)
	}
}

func TestTooLarge(t *testing.T) {
	defer func(n int) { maxChainLen = n }(maxChainLen)
	maxChainLen = 10
	if _, err := HashChain.New(make([]byte, 11), MaxOffset); errors.Cause(err) != ErrTooLarge {
		t.Errorf("%+v", err)
	}
	if _, err := HashChain.New(make([]byte, 10), MaxOffset); err != nil {
		t.Errorf("%+v", err)
	}
	// Naive addresses positions with int.
	if _, err := Naive.New(make([]byte, 11), MaxOffset); err != nil {
		t.Errorf("%+v", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{Naive, HashChain} {
		got, err := ParseAlgorithm(a.String())
		if err != nil || got != a {
			t.Errorf("%v %v", got, err)
		}
	}
	if _, err := ParseAlgorithm("suffixtree"); errors.Cause(err) != ErrUnsupportedAlgorithm {
		t.Errorf("%v", err)
	}
	if err := Algorithm(9).Verify(); errors.Cause(err) != ErrUnsupportedAlgorithm {
		t.Errorf("%v", err)
	}
	if _, err := Algorithm(9).New(nil, 10); errors.Cause(err) != ErrUnsupportedAlgorithm {
		t.Errorf("%v", err)
	}
	for _, w := range []int{0, MaxOffset + 1} {
		if _, err := Naive.New(nil, w); errors.Cause(err) != ErrWindow {
			t.Errorf("window %d: %v", w, err)
		}
	}
}
