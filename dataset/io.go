package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a comma-separated numeric matrix, one observation per line.
// Blank lines are skipped; every non-blank line must have the same number of
// fields.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	var (
		data []float64
		dim  int
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read csv: %w", err)
		}
		line++
		if dim == 0 {
			dim = len(rec)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d column %d: %w", line, j, err)
			}
			data = append(data, v)
		}
	}
	return FromFlat(data, dim)
}

// ReadKeys parses one number per line, e.g. release years used as ordering
// keys. Blank lines are skipped.
func ReadKeys(r io.Reader) ([]float64, error) {
	var keys []float64
	err := scanLines(r, func(line string) error {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return err
		}
		keys = append(keys, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: read keys: %w", err)
	}
	return keys, nil
}

// ReadTokenSets parses one observation per line, tokens separated by sep.
// Empty tokens are dropped.
func ReadTokenSets(r io.Reader, sep string) ([][]string, error) {
	var sets [][]string
	err := scanLines(r, func(line string) error {
		var obs []string
		for tok := range strings.SplitSeq(line, sep) {
			if tok = strings.TrimSpace(tok); tok != "" {
				obs = append(obs, tok)
			}
		}
		sets = append(sets, obs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: read token sets: %w", err)
	}
	return sets, nil
}

// Tokens converts arbitrary values into string tokens.
func Tokens[T any](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// WriteAssignment writes one cluster index per line in input order.
func WriteAssignment(w io.Writer, assignment []int) error {
	bw := bufio.NewWriter(w)
	for _, a := range assignment {
		bw.WriteString(strconv.Itoa(a))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadAssignment parses the output of WriteAssignment.
func ReadAssignment(r io.Reader) ([]int, error) {
	var out []int
	err := scanLines(r, func(line string) error {
		v, err := strconv.Atoi(line)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dataset: read assignment: %w", err)
	}
	return out, nil
}

// WriteCenters writes a k×D center matrix as CSV.
func WriteCenters(w io.Writer, centers [][]float64) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0)
	for _, c := range centers {
		rec = rec[:0]
		for _, v := range c {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func scanLines(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}
