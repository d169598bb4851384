// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"strings"
	"testing"
)

func TestWriteConcatManifest(t *testing.T) {
	var sb strings.Builder
	err := WriteConcatManifest(&sb, []string{"/tmp/w/0-short_a.mp3", "/tmp/w/1-it's.mp3"})
	if err != nil {
		t.Fatalf("WriteConcatManifest() error = %v", err)
	}

	want := "file '/tmp/w/0-short_a.mp3'\n" +
		"file '/tmp/w/1-it'\\''s.mp3'\n"
	if sb.String() != want {
		t.Errorf("manifest = %q, want %q", sb.String(), want)
	}
}

func TestRingBuffer_KeepsNewestInOrder(t *testing.T) {
	r := NewRingBuffer(3)
	if got := r.GetAll(); len(got) != 0 {
		t.Fatalf("empty ring returned %v", got)
	}

	for _, l := range []string{"a", "b", "c", "d", "e"} {
		r.Add(l)
	}

	got := strings.Join(r.GetAll(), ",")
	if got != "c,d,e" {
		t.Errorf("GetAll() = %q, want %q", got, "c,d,e")
	}
}
