// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"fmt"
	"io"
	"strings"
)

// WriteConcatManifest writes a concat demuxer script listing paths in order.
func WriteConcatManifest(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "file '%s'\n", escapeConcatPath(p)); err != nil {
			return err
		}
	}
	return nil
}

// escapeConcatPath closes the quote, emits an escaped quote and reopens it,
// which is how the concat demuxer reads a literal ' inside a quoted path.
func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
