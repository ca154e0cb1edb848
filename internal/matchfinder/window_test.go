package matchfinder

import "testing"

func TestSearchFindsExactRepeat(t *testing.T) {
	data := []byte("abcdefgh_abcdefgh_xyz")
	w := New(data, 32, 258)
	for i := 0; i < 9; i++ {
		w.Insert(i)
	}
	m := w.Search(9, 0)
	if m.Length < 8 {
		t.Fatalf("Search found length %d, want >= 8", m.Length)
	}
	if m.Offset != 9 {
		t.Fatalf("Search found offset %d, want 9", m.Offset)
	}
}

func TestSearchNoCandidate(t *testing.T) {
	data := []byte("unique data with no repeats at all")
	w := New(data, 32, 258)
	m := w.Search(0, 0)
	if m.Length != 0 {
		t.Fatalf("Search on empty chain found length %d, want 0", m.Length)
	}
}

func TestSearchRespectsNiceLength(t *testing.T) {
	data := make([]byte, 600)
	for i := range data {
		data[i] = byte(i % 7)
	}
	copy(data[300:], data[:258])
	w := New(data, 64, 32) // small nice length
	for i := 0; i < 300; i++ {
		w.Insert(i)
	}
	m := w.Search(300, 0)
	if m.Length < 32 {
		t.Fatalf("Search found length %d, want >= nice length 32", m.Length)
	}
}
