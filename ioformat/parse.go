// Package ioformat reads and writes the tool's plain-text formats: a
// whitespace-separated design file in, one placed-filler line per
// record out.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
)

// ParseError reports a malformed input record together with the
// 1-based line number it was read from.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

type lineScanner struct {
	sc   *bufio.Scanner
	line int
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(r)}
}

func (s *lineScanner) next() (string, int, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", s.line, err
		}
		return "", s.line, fmt.Errorf("unexpected end of input")
	}
	s.line++
	return s.sc.Text(), s.line, nil
}

func fields(line string, lineno, want int) ([]string, error) {
	f := strings.Fields(line)
	if len(f) != want {
		return nil, &ParseError{lineno, fmt.Errorf("want %d fields, got %d", want, len(f))}
	}
	return f, nil
}

func parseInt(f string, lineno int) (int64, error) {
	v, err := strconv.ParseInt(f, 10, 64)
	if err != nil {
		return 0, &ParseError{lineno, fmt.Errorf("malformed integer %q: %w", f, err)}
	}
	return v, nil
}

func parseFloat(f string, lineno int) (float64, error) {
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, &ParseError{lineno, fmt.Errorf("malformed float %q: %w", f, err)}
	}
	return v, nil
}

// Parse reads the design file grammar from r: chip boundary and
// window size, the critical net id list, the layer parameter rows,
// then the conductor rows. A conductor whose layerId does not match a
// declared layer is a malformed-input error.
func Parse(r io.Reader) (*process.Database, error) {
	sc := newLineScanner(r)

	line, lineno, err := sc.next()
	if err != nil {
		return nil, err
	}
	f, err := fields(line, lineno, 5)
	if err != nil {
		return nil, err
	}
	x1, err := parseInt(f[0], lineno)
	if err != nil {
		return nil, err
	}
	y1, err := parseInt(f[1], lineno)
	if err != nil {
		return nil, err
	}
	x2, err := parseInt(f[2], lineno)
	if err != nil {
		return nil, err
	}
	y2, err := parseInt(f[3], lineno)
	if err != nil {
		return nil, err
	}
	windowSize, err := parseInt(f[4], lineno)
	if err != nil {
		return nil, err
	}

	line, lineno, err = sc.next()
	if err != nil {
		return nil, err
	}
	f, err = fields(line, lineno, 3)
	if err != nil {
		return nil, err
	}
	numCritical, err := parseInt(f[0], lineno)
	if err != nil {
		return nil, err
	}
	numLayer, err := parseInt(f[1], lineno)
	if err != nil {
		return nil, err
	}
	numConductor, err := parseInt(f[2], lineno)
	if err != nil {
		return nil, err
	}

	critical := make(map[int64]bool, numCritical)
	criticalNets := make([]int64, 0, numCritical)
	for i := int64(0); i < numCritical; i++ {
		line, lineno, err := sc.next()
		if err != nil {
			return nil, err
		}
		f, err := fields(line, lineno, 1)
		if err != nil {
			return nil, err
		}
		netID, err := parseInt(f[0], lineno)
		if err != nil {
			return nil, err
		}
		critical[netID] = true
		criticalNets = append(criticalNets, netID)
	}

	db := &process.Database{
		ChipBoundary: geometry.Rect(x1, y1, x2, y2),
		WindowSize:   windowSize,
		CriticalNets: criticalNets,
	}

	layersByID := make(map[int64]*process.Layer, numLayer)
	for i := int64(0); i < numLayer; i++ {
		line, lineno, err := sc.next()
		if err != nil {
			return nil, err
		}
		f, err := fields(line, lineno, 7)
		if err != nil {
			return nil, err
		}
		id, err := parseInt(f[0], lineno)
		if err != nil {
			return nil, err
		}
		minFillWidth, err := parseInt(f[1], lineno)
		if err != nil {
			return nil, err
		}
		minSpacing, err := parseInt(f[2], lineno)
		if err != nil {
			return nil, err
		}
		maxFillWidth, err := parseInt(f[3], lineno)
		if err != nil {
			return nil, err
		}
		minDensity, err := parseFloat(f[4], lineno)
		if err != nil {
			return nil, err
		}
		maxDensity, err := parseFloat(f[5], lineno)
		if err != nil {
			return nil, err
		}
		weight, err := parseFloat(f[6], lineno)
		if err != nil {
			return nil, err
		}

		layer := &process.Layer{
			ID:           id,
			MinFillWidth: minFillWidth,
			MinSpacing:   minSpacing,
			MaxFillWidth: maxFillWidth,
			MinDensity:   minDensity,
			MaxDensity:   maxDensity,
			Weight:       weight,
		}
		layersByID[id] = layer
		db.Layers = append(db.Layers, layer)
	}

	for i := int64(0); i < numConductor; i++ {
		line, lineno, err := sc.next()
		if err != nil {
			return nil, err
		}
		f, err := fields(line, lineno, 7)
		if err != nil {
			return nil, err
		}
		id, err := parseInt(f[0], lineno)
		if err != nil {
			return nil, err
		}
		cx1, err := parseInt(f[1], lineno)
		if err != nil {
			return nil, err
		}
		cy1, err := parseInt(f[2], lineno)
		if err != nil {
			return nil, err
		}
		cx2, err := parseInt(f[3], lineno)
		if err != nil {
			return nil, err
		}
		cy2, err := parseInt(f[4], lineno)
		if err != nil {
			return nil, err
		}
		netID, err := parseInt(f[5], lineno)
		if err != nil {
			return nil, err
		}
		layerID, err := parseInt(f[6], lineno)
		if err != nil {
			return nil, err
		}

		layer, ok := layersByID[layerID]
		if !ok {
			return nil, &ParseError{lineno, fmt.Errorf("conductor %d references unknown layer %d", id, layerID)}
		}
		layer.Conductors = append(layer.Conductors, &process.Conductor{
			Rectangle:  geometry.Rect(cx1, cy1, cx2, cy2),
			ID:         id,
			NetID:      netID,
			IsCritical: critical[netID],
		})
	}

	for _, layer := range db.Layers {
		layer.DeriveDirection()
	}

	return db, nil
}
