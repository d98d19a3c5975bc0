package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	pkgerrors "stealthspanner/pkg/errors"
)

// Target is one host to probe, derived from one configuration file.
// Immutable once extracted.
type Target struct {
	Source      string // originating file name
	Host        string
	Port        int    // 0 when the remote directive carries no port
	CountryCode string // two-letter code from the file name, "" if unknown
}

// Skip reasons for files that yield no Target.
const (
	ReasonMissingDirective = "missing directive"
	ReasonUnreadable       = "unreadable"
	ReasonInvalidHost      = "invalid host"
)

// Skipped records a configuration file that produced no Target.
type Skipped struct {
	Source string
	Reason string
}

// Extract scans dir for .ovpn files and returns one Target per file with a
// well-formed remote directive. Files without one are reported in the skipped
// list, never as errors. A non-existent directory yields zero targets.
// Ordering is lexicographic by file name so output is reproducible.
func Extract(dir string) ([]Target, []Skipped, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &pkgerrors.ExtractError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, &pkgerrors.ExtractError{Dir: dir, Err: pkgerrors.ErrNotADirectory}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, &pkgerrors.ExtractError{Dir: dir, Err: err}
	}

	var targets []Target
	var skipped []Skipped

	// os.ReadDir returns entries sorted by name.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ovpn") {
			continue
		}

		host, port, err := parseRemoteDirective(filepath.Join(dir, entry.Name()))
		if err != nil {
			skipped = append(skipped, Skipped{Source: entry.Name(), Reason: ReasonUnreadable})
			continue
		}
		if host == "" {
			skipped = append(skipped, Skipped{Source: entry.Name(), Reason: ReasonMissingDirective})
			continue
		}
		if !validHost(host) {
			skipped = append(skipped, Skipped{Source: entry.Name(), Reason: ReasonInvalidHost})
			continue
		}

		targets = append(targets, Target{
			Source:      entry.Name(),
			Host:        host,
			Port:        port,
			CountryCode: CountryCode(entry.Name()),
		})
	}

	return targets, skipped, nil
}

// parseRemoteDirective returns the host and optional port from the first
// line whose first token is exactly "remote". Format: remote <host> [port]
func parseRemoteDirective(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "remote" {
			continue
		}
		port := 0
		if len(fields) >= 3 {
			// A malformed port is ignored; the host is still usable.
			if p, err := strconv.Atoi(fields[2]); err == nil && p > 0 && p <= 65535 {
				port = p
			}
		}
		return fields[1], port, nil
	}
	if err := scanner.Err(); err != nil {
		return "", 0, fmt.Errorf("scan %s: %w", path, err)
	}
	return "", 0, nil
}

func validHost(host string) bool {
	if host == "" {
		return false
	}
	for _, r := range host {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
