package assets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// magicBytes maps a file extension to the header its content must start with.
var magicBytes = map[string][]byte{
	".glb": []byte("glTF"),
	".png": []byte("\x89PNG"),
}

// VerifyMagic checks the header of data against the file's extension. Extensions
// without a known signature always pass and report false.
func VerifyMagic(filename string, data []byte) (checked bool, err error) {
	want, ok := magicBytes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return false, nil
	}
	if !bytes.HasPrefix(data, want) {
		header := data
		if len(header) > len(want) {
			header = header[:len(want)]
		}
		return true, fmt.Errorf("%w: %s: got %q, want %q", ErrInvalidMagic, filename, header, want)
	}
	return true, nil
}
