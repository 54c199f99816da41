package porytiles

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
)

// hashInputs computes the cache key for a compile: a SHA-1 over the mode tag
// and the contents of every input file. Optional inputs that do not exist
// still contribute their name, so adding a sidecar later changes the key.
func hashInputs(mode string, files ...string) (string, error) {
	h := sha1.New()
	io.WriteString(h, mode)

	for _, file := range files {
		f, err := os.Open(file)
		if os.IsNotExist(err) {
			io.WriteString(h, file+":absent")
			continue
		}
		if err != nil {
			return "", err
		}

		io.WriteString(h, file)
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
