package importer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseBehaviorHeader extracts metatile behavior definitions from a C header
// of "#define MB_NAME value" lines. Values may be decimal or hex. Lines that
// are not defines are ignored.
func ParseBehaviorHeader(r io.Reader) (map[string]uint8, map[uint8]string, error) {
	byName := make(map[string]uint8)
	byValue := make(map[uint8]string)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != "#define" {
			continue
		}

		name := fields[1]
		value, err := strconv.ParseUint(fields[2], 0, 8)
		if err != nil {
			return nil, nil, fmt.Errorf("importer: behavior header line %d: bad value %q for %s", line, fields[2], name)
		}

		byName[name] = uint8(value)
		if _, ok := byValue[uint8(value)]; !ok {
			byValue[uint8(value)] = name
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("importer: reading behavior header: %w", err)
	}
	return byName, byValue, nil
}
