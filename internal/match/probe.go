package match

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the two-byte header that identifies gzip-compressed content.
var gzipMagic = []byte{0x1f, 0x8b}

// HasMinLines reports whether the file at path contains at least min lines.
// Gzip-compressed files are detected via their magic header and counted after
// decompression. A min of zero or less only requires the file to be non-empty.
// Directories and other non-regular files never qualify.
func HasMinLines(path string, min int) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return false, nil
	}
	if min <= 0 {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br

	head, err := br.Peek(2)
	if err == nil && bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return false, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
		}
		defer gz.Close()
		src = gz
	}

	return countsAtLeast(src, min)
}

// countsAtLeast counts lines in r, stopping as soon as min is reached.
func countsAtLeast(r io.Reader, min int) (bool, error) {
	br := bufio.NewReader(r)
	lines := 0
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			// A partial chunk without a newline still advances the count
			// once the line completes or the file ends.
			if chunk[len(chunk)-1] == '\n' || err == io.EOF {
				lines++
				if lines >= min {
					return true, nil
				}
			}
		}
		switch err {
		case nil, bufio.ErrBufferFull:
			// keep reading
		case io.EOF:
			return false, nil
		default:
			return false, err
		}
	}
}
