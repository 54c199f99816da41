package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ParseAttributesCSV reads metatile attribute rows. The header must be
// either "id,behavior" or "id,behavior,layer_type". Behaviors are either
// names resolved through the behavior map or literal numbers.
func ParseAttributesCSV(r io.Reader, behaviors map[string]uint8) (map[int]Attributes, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("importer: attributes file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("importer: reading attributes header: %w", err)
	}

	hasLayerType := false
	switch {
	case len(header) == 2 && header[0] == "id" && header[1] == "behavior":
	case len(header) == 3 && header[0] == "id" && header[1] == "behavior" && header[2] == "layer_type":
		hasLayerType = true
	default:
		return nil, fmt.Errorf("importer: unrecognized attributes header %q", header)
	}

	attrs := make(map[int]Attributes)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: attributes line %d: %w", line, err)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("importer: attributes line %d: bad metatile id %q", line, record[0])
		}
		if _, dup := attrs[id]; dup {
			return nil, fmt.Errorf("importer: attributes line %d: duplicate metatile id %d", line, id)
		}

		behavior, err := parseBehavior(record[1], behaviors)
		if err != nil {
			return nil, fmt.Errorf("importer: attributes line %d: %w", line, err)
		}

		attr := Attributes{Behavior: behavior}
		if hasLayerType {
			layerType, err := parseLayerType(record[2])
			if err != nil {
				return nil, fmt.Errorf("importer: attributes line %d: %w", line, err)
			}
			attr.LayerType = layerType
		}
		attrs[id] = attr
	}
	return attrs, nil
}

func parseBehavior(s string, behaviors map[string]uint8) (uint8, error) {
	if v, ok := behaviors[s]; ok {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown behavior %q", s)
	}
	return uint8(v), nil
}

func parseLayerType(s string) (LayerType, error) {
	switch s {
	case "normal":
		return LayerNormal, nil
	case "covered":
		return LayerCovered, nil
	case "split":
		return LayerSplit, nil
	}
	return LayerNormal, fmt.Errorf("unknown layer type %q", s)
}
