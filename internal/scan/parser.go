// Package scan reads the legacy millimeter-wave scan text format into
// structured spectra.
//
// A file is a sequence of carriage-return separated lines. Each block starts
// with a "Scan <id> ..." header (tagged "[Field ON]" for the Zeeman field-on
// half), followed by a positional parameter line and whitespace separated
// intensities, and ends at a "*****" separator.
package scan

import (
	"math"
	"strconv"
	"strings"
)

const (
	lineSeparator   = "\r"
	recordSeparator = "*****"
	headerKeyword   = "Scan"
	fieldOnTag      = "[Field ON]"
)

type parseState int

const (
	stateIdle parseState = iota
	stateReadingParams
	stateReadingIntensities
	stateDone
)

type parser struct {
	state parseState
	// zeeman routes intensities to the field-on trace.
	zeeman bool
	// finished is set once field-on data has been read; the next separator ends the record.
	finished bool

	sawHeader bool
	sawParams bool
	settings  Settings
	fieldOff  []float64
	fieldOn   []float64
}

// Parse reads one scan record from decoded text.
func Parse(text string) (*Record, error) {
	p := &parser{}
	for i, line := range strings.Split(text, lineSeparator) {
		if err := p.step(i+1, line); err != nil {
			return nil, err
		}
		if p.state == stateDone {
			break
		}
	}
	return p.record()
}

func (p *parser) step(lineNo int, line string) error {
	if strings.Contains(line, recordSeparator) {
		if p.finished {
			p.state = stateDone
			return nil
		}
		if p.state == stateReadingIntensities {
			p.state = stateIdle
		}
	}

	if strings.Contains(line, headerKeyword) {
		return p.readHeader(lineNo, line)
	}

	switch p.state {
	case stateReadingIntensities:
		return p.readIntensities(lineNo, line)
	case stateReadingParams:
		if fields := strings.Fields(line); len(fields) > 1 {
			return p.readParams(lineNo, fields)
		}
	}
	return nil
}

func (p *parser) readHeader(lineNo int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return malformed(lineNo, "scan header has no id")
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return malformed(lineNo, "scan id %q is not an integer", fields[1])
	}

	if strings.Contains(line, fieldOnTag) {
		p.zeeman = true
		p.settings.FieldOn = true
	}
	p.settings.ID = id
	p.sawHeader = true
	p.state = stateReadingParams
	return nil
}

// readParams decodes "<freq> <step> [<multiplier>] <center> <points> ...".
func (p *parser) readParams(lineNo int, fields []string) error {
	if len(fields) < 4 {
		return malformed(lineNo, "parameter line has %d tokens, want at least 4", len(fields))
	}

	freq, err := parseFloat(lineNo, fields[0])
	if err != nil {
		return err
	}
	step, err := parseFloat(lineNo, fields[1])
	if err != nil {
		return err
	}

	// Without a multiplier column everything after the step shifts left by one.
	multiplier, shift := 1.0, 0
	if len(fields) != 4 {
		shift = 1
		if multiplier, err = parseFloat(lineNo, fields[2]); err != nil {
			return err
		}
	}
	center, err := parseFloat(lineNo, fields[2+shift])
	if err != nil {
		return err
	}
	points, err := strconv.Atoi(fields[3+shift])
	if err != nil {
		return malformed(lineNo, "point count %q is not an integer", fields[3+shift])
	}

	p.settings.StartFrequency = freq
	p.settings.FrequencyStepRaw = step
	p.settings.Multiplier = multiplier
	p.settings.Center = center
	p.settings.PointCount = points
	p.sawParams = true
	p.state = stateReadingIntensities
	return nil
}

func (p *parser) readIntensities(lineNo int, line string) error {
	for _, tok := range strings.Fields(line) {
		v, err := parseFloat(lineNo, tok)
		if err != nil {
			return err
		}
		if p.zeeman {
			p.fieldOn = append(p.fieldOn, v)
		} else {
			p.fieldOff = append(p.fieldOff, v)
		}
	}
	if p.zeeman {
		p.finished = true
	}
	return nil
}

func (p *parser) record() (*Record, error) {
	if !p.sawHeader {
		return nil, malformed(0, "no %q header found", headerKeyword)
	}
	if !p.sawParams {
		return nil, malformed(0, "no parameter line after scan header")
	}

	n := p.settings.PointCount
	if n <= 0 {
		return nil, malformed(0, "point count must be positive, got %d", n)
	}
	if len(p.fieldOff) != n {
		return nil, malformed(0, "declared %d points but read %d field-off intensities", n, len(p.fieldOff))
	}
	if len(p.fieldOn) != 0 && len(p.fieldOn) != n {
		return nil, malformed(0, "declared %d points but read %d field-on intensities", n, len(p.fieldOn))
	}

	return newRecord(p.settings, p.fieldOff, p.fieldOn), nil
}

func parseFloat(lineNo int, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, malformed(lineNo, "%q is not a number", tok)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, malformed(lineNo, "%q is not a finite number", tok)
	}
	return v, nil
}
