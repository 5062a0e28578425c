// eltop: a high-performance tool for selecting the top-scoring
// elements of large score vectors.
// Copyright (c) 2016-2021 the eltop authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/alenzhao/eltop/blob/master/LICENSE.txt>.

// Package scores reads and writes score vectors. The element index of
// a score is its 0-based position in the file.
package scores

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/exascience/pargo/pipeline"
)

// ElscoresHeader is the header line that every .elscores file starts with.
const ElscoresHeader = "# elscores format version 1.0\n"

const writeBufferSize = 0x10000

// ToFile stores a score vector in an .elscores file, one score per
// line after the header.
func ToFile(scores []float64, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := os.Create(pathname)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := output.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	if _, err = output.WriteString(ElscoresHeader); err != nil {
		return err
	}
	var buf []byte
	for _, score := range scores {
		buf = strconv.AppendFloat(buf, score, 'g', -1, 64)
		buf = append(buf, '\n')
		if len(buf) >= writeBufferSize {
			if _, err := output.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	_, err = output.Write(buf)
	return err
}

func parseScore(str string) (float64, error) {
	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score line %v", str)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite score %v", str)
	}
	return value, nil
}

// FromFile loads a score vector from an .elscores file.
func FromFile(filename string) (scores []float64, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				scores = nil
				err = nerr
			}
		}
	}()
	input := bufio.NewReader(in)
	header, err := input.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if header != ElscoresHeader {
		return nil, fmt.Errorf("%v is not an .elscores file - invalid header", filename)
	}
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		strs := data.([]string)
		values := make([]float64, 0, len(strs))
		for _, str := range strs {
			value, err := parseScore(str)
			if err != nil {
				p.SetErr(err)
				return values
			}
			values = append(values, value)
		}
		return values
	})))
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		scores = append(scores, data.([]float64)...)
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	return
}

// FromTSVFile loads a score vector from the given 0-based column of a
// tab-separated file without a header line.
func FromTSVFile(filename string, column int) (scores []float64, err error) {
	if column < 0 {
		return nil, fmt.Errorf("invalid column %v", column)
	}
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				scores = nil
				err = nerr
			}
		}
	}()
	input := bufio.NewReader(in)
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		strs := data.([]string)
		values := make([]float64, 0, len(strs))
		for _, str := range strs {
			field, ok := tsvField(str, column)
			if !ok {
				p.SetErr(fmt.Errorf("missing column %v in line %v", column, str))
				return values
			}
			value, err := parseScore(field)
			if err != nil {
				p.SetErr(err)
				return values
			}
			values = append(values, value)
		}
		return values
	})))
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		scores = append(scores, data.([]float64)...)
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, err
	}
	return
}

// tsvField extracts the given 0-based tab-separated field of a line.
func tsvField(str string, column int) (string, bool) {
	start := 0
	for ; column > 0; column-- {
		i := start
		for ; i < len(str); i++ {
			if str[i] == '\t' {
				break
			}
		}
		if i == len(str) {
			return "", false
		}
		start = i + 1
	}
	end := start
	for ; end < len(str); end++ {
		if str[end] == '\t' {
			break
		}
	}
	if start == end {
		return "", false
	}
	return str[start:end], true
}
