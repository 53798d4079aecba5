package dictionary

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// PriorityFile is the name of the load-order file inside a resource directory.
const PriorityFile = "_priority"

// LoadPriority reads one resource file name per line. Blank lines and lines
// starting with '#' are skipped.
func LoadPriority(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// LoadPriorityFile reads a priority file from disk.
func LoadPriorityFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPriority(f)
}
