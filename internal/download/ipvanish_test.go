package download

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	pkgerrors "stealthspanner/pkg/errors"
)

func TestParseListing(t *testing.T) {
	html := `<html><body>
<a href="../">../</a>
<a href="v2.5.0-9/">v2.5.0-9/</a>
<a href="v2.6.0-0/">v2.6.0-0/</a>
<a href="v2.6.0-0/">v2.6.0-0/</a>
<a href="/openvpn/v2.4.1-1/index.html">v2.4.1-1</a>
<a href="README.txt">README.txt</a>
</body></html>`

	got := parseListing(html)
	sort.Strings(got)
	want := []string{"v2.4.1-1", "v2.5.0-9", "v2.6.0-0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseListing() = %v, want %v", got, want)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want [4]int
	}{
		{"v2.6.0-0", [4]int{2, 6, 0, 0}},
		{"v2.5.11-9", [4]int{2, 5, 11, 9}},
		{"v10.0.3", [4]int{10, 0, 3, 0}},
		{"not-a-version", [4]int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		if got := parseVersion(tt.in); got != tt.want {
			t.Errorf("parseVersion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"v2.6.0-0", "v2.5.9-9", 1},
		{"v2.5.9-9", "v2.6.0-0", -1},
		{"v2.6.0-1", "v2.6.0-0", 1},
		{"v2.6.0-0", "v2.6.0-0", 0},
		{"v2.6.10-0", "v2.6.9-0", 1},
	}

	for _, tt := range tests {
		got := compareVersions(tt.a, tt.b)
		switch {
		case tt.want > 0 && got <= 0,
			tt.want < 0 && got >= 0,
			tt.want == 0 && got != 0:
			t.Errorf("compareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func buildConfigZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestIPVanishDownload(t *testing.T) {
	archive := buildConfigZip(t, map[string]string{
		"ipvanish-NL-Amsterdam-ams-a01.ovpn": "remote nl-ams-a01.ipvanish.com 443\n",
		"ipvanish-CH-Zurich-zrh-c18.ovpn":    "remote ch-zrh-c18.ipvanish.com 443\n",
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/openvpn/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="v2.5.0-0/">v2.5.0-0/</a><a href="v2.6.0-0/">v2.6.0-0/</a>`))
	})
	mux.HandleFunc("/openvpn/v2.6.0-0/configs.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "IPVanish")
	provider := NewIPVanish(testFetcher())

	count, err := provider.Download(context.Background(), dir, server.URL+"/openvpn/")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Download() count = %d, want 2", count)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ipvanish-NL-Amsterdam-ams-a01.ovpn"))
	if err != nil {
		t.Fatalf("failed to read extracted config: %v", err)
	}
	if string(data) != "remote nl-ams-a01.ipvanish.com 443\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestIPVanishDownloadKeepsDirOnFetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/openvpn/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="v2.6.0-0/">v2.6.0-0/</a>`))
	})
	mux.HandleFunc("/openvpn/v2.6.0-0/configs.zip", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "keep-me.ovpn")
	if err := os.WriteFile(existing, []byte("remote old.example.com 443\n"), 0644); err != nil {
		t.Fatalf("failed to seed dir: %v", err)
	}

	provider := NewIPVanish(testFetcher())
	if _, err := provider.Download(context.Background(), dir, server.URL+"/openvpn/"); err == nil {
		t.Fatal("Download() error = nil, want error")
	}

	if _, err := os.Stat(existing); err != nil {
		t.Errorf("pre-existing config was removed: %v", err)
	}
}

func TestIPVanishDownloadNoVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="../">../</a>`))
	}))
	defer server.Close()

	provider := NewIPVanish(testFetcher())
	_, err := provider.Download(context.Background(), t.TempDir(), server.URL)
	if !errors.Is(err, pkgerrors.ErrNoVersionsFound) {
		t.Errorf("Download() error = %v, want %v", err, pkgerrors.ErrNoVersionsFound)
	}
}

func TestExtractZipSkipsTraversal(t *testing.T) {
	archive := buildConfigZip(t, map[string]string{
		"good.ovpn":      "remote good.example.com 443\n",
		"../escape.ovpn": "remote bad.example.com 443\n",
	})

	zipPath := filepath.Join(t.TempDir(), "configs.zip")
	if err := os.WriteFile(zipPath, archive, 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	parent := t.TempDir()
	dir := filepath.Join(parent, "configs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	count, err := extractZip(zipPath, dir)
	if err != nil {
		t.Fatalf("extractZip() error = %v", err)
	}
	if count != 1 {
		t.Errorf("extractZip() count = %d, want 1", count)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.ovpn")); !os.IsNotExist(err) {
		t.Error("traversal entry escaped the target directory")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	provider, err := registry.Get("ipvanish")
	if err != nil {
		t.Fatalf("Get(ipvanish) error = %v", err)
	}
	if provider.Name() != "ipvanish" {
		t.Errorf("Name() = %q, want ipvanish", provider.Name())
	}

	// Lookup is case-insensitive.
	if _, err := registry.Get("IPVanish"); err != nil {
		t.Errorf("Get(IPVanish) error = %v", err)
	}

	_, err = registry.Get("nordvpn")
	if !errors.Is(err, pkgerrors.ErrProviderUnsupported) {
		t.Errorf("Get(nordvpn) error = %v, want %v", err, pkgerrors.ErrProviderUnsupported)
	}
	var providerErr *pkgerrors.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Provider != "nordvpn" {
		t.Errorf("error = %v, want *ProviderError for nordvpn", err)
	}

	if names := registry.Names(); !reflect.DeepEqual(names, []string{"ipvanish"}) {
		t.Errorf("Names() = %v, want [ipvanish]", names)
	}
}
