package download

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	pkgerrors "stealthspanner/pkg/errors"
)

// hrefPattern pulls link targets out of the directory-listing HTML.
var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// versionPattern matches version directory names like v2.6.0-0.
var versionPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)(?:-(\d+))?$`)

// IPVanish downloads OpenVPN configuration bundles from the IPVanish config
// server: it picks the newest version directory from the HTML listing,
// downloads that version's configs.zip, and extracts it.
type IPVanish struct {
	fetcher *Fetcher
}

// NewIPVanish creates the IPVanish provider.
func NewIPVanish(fetcher *Fetcher) *IPVanish {
	return &IPVanish{fetcher: fetcher}
}

func (p *IPVanish) Name() string { return "ipvanish" }

// Download fetches the newest configs.zip and extracts it into dir,
// replacing its previous contents. The zip is downloaded to a temporary
// file first so a failed fetch leaves dir untouched.
func (p *IPVanish) Download(ctx context.Context, dir, baseURL string) (int, error) {
	baseURL = strings.TrimRight(baseURL, "/") + "/"

	version, err := p.latestVersion(ctx, baseURL)
	if err != nil {
		return 0, err
	}
	log.Infof("Latest IPVanish config version: %s", version)

	tmp, err := os.CreateTemp("", "stealthspanner-configs-*.zip")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	zipURL := baseURL + version + "/configs.zip"
	if err := p.fetcher.FetchToFile(ctx, zipURL, tmpPath); err != nil {
		return 0, err
	}

	// Only now that the archive is on disk is it safe to replace dir.
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("failed to purge %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	count, err := extractZip(tmpPath, dir)
	if err != nil {
		return 0, err
	}
	log.Infof("Extracted %d configuration file(s) to %s", count, dir)

	return count, nil
}

// latestVersion fetches the directory listing and returns the newest
// version directory name.
func (p *IPVanish) latestVersion(ctx context.Context, baseURL string) (string, error) {
	listing, err := p.fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return "", err
	}

	versions := parseListing(string(listing))
	if len(versions) == 0 {
		return "", &pkgerrors.ProviderError{Provider: p.Name(), Err: pkgerrors.ErrNoVersionsFound}
	}

	sort.Slice(versions, func(i, j int) bool {
		return compareVersions(versions[i], versions[j]) > 0
	})
	return versions[0], nil
}

// parseListing extracts version directory names from listing HTML.
func parseListing(html string) []string {
	seen := make(map[string]bool)
	var versions []string

	for _, match := range hrefPattern.FindAllStringSubmatch(html, -1) {
		link := strings.TrimRight(match[1], "/")
		link = strings.TrimSuffix(link, "/index.html")
		if idx := strings.LastIndex(link, "/"); idx >= 0 {
			link = link[idx+1:]
		}
		if link == ".." || !versionPattern.MatchString(link) || seen[link] {
			continue
		}
		seen[link] = true
		versions = append(versions, link)
	}
	return versions
}

// compareVersions returns >0 when a is newer than b.
func compareVersions(a, b string) int {
	av, bv := parseVersion(a), parseVersion(b)
	for i := range av {
		if av[i] != bv[i] {
			return av[i] - bv[i]
		}
	}
	return 0
}

// parseVersion parses "v2.6.0-0" into [major, minor, patch, build].
func parseVersion(s string) [4]int {
	var out [4]int
	match := versionPattern.FindStringSubmatch(s)
	if match == nil {
		return out
	}
	for i := 0; i < 4; i++ {
		if match[i+1] != "" {
			out[i], _ = strconv.Atoi(match[i+1])
		}
	}
	return out
}

// extractZip extracts an archive into dir and returns the file count.
func extractZip(zipPath, dir string) (int, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("invalid zip file: %w", err)
	}
	defer reader.Close()

	count := 0
	for _, file := range reader.File {
		name := filepath.Clean(file.Name)
		if name == ".." || strings.HasPrefix(name, ".."+string(os.PathSeparator)) || filepath.IsAbs(name) {
			continue
		}
		dest := filepath.Join(dir, name)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return count, fmt.Errorf("failed to create %s: %w", dest, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return count, fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
		}
		if err := extractFile(file, dest); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func extractFile(file *zip.File, dest string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s in archive: %w", file.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
