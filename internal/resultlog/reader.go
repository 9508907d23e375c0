package resultlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"network-quality-logger/internal/models"
)

// Decode reads NDJSON records from r. Blank lines are skipped.
func Decode(r io.Reader) ([]models.Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var results []models.Result
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var res models.Result
		if err := json.Unmarshal(b, &res); err != nil {
			return results, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("line %d: %w", line+1, err)
	}
	return results, nil
}

// ReadFile decodes every record in a single log file.
func ReadFile(path string) ([]models.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result log: %w", err)
	}
	defer f.Close()

	results, err := Decode(f)
	if err != nil {
		return results, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// ReadDir decodes every log file in dir, oldest run first.
func ReadDir(dir string) ([]models.Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	// file names are start timestamps, so lexical order is chronological
	sort.Strings(names)

	var all []models.Result
	for _, name := range names {
		results, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}
