package loader

import (
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// magicSniffLimit bounds the optional file-type-inference read to the first
// 256 bytes of the candidate file (spec.md §4.2 step 4).
const magicSniffLimit = 256

// sniffZipMagic is the fallback path when an archive's extension is missing
// or unrecognized: read a short prefix and check whether it looks like a
// zip container.
func sniffZipMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, magicSniffLimit)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}
	return mimetype.Detect(buf[:n]).Is("application/zip")
}
