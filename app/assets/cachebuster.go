package assets

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const hashLength = 8

// CacheBuster versions static asset URLs by content hash. The manifest maps
// asset paths (relative to the public dir) to short MD5 hashes and is
// persisted alongside the assets so deploys reuse it.
type CacheBuster struct {
	publicDir    string
	manifestPath string
	mu           sync.RWMutex
	manifest     map[string]string
}

func NewCacheBuster(publicDir string) *CacheBuster {
	cb := &CacheBuster{
		publicDir:    publicDir,
		manifestPath: filepath.Join(publicDir, "asset-manifest.json"),
		manifest:     make(map[string]string),
	}
	cb.loadManifest()
	return cb
}

func (cb *CacheBuster) loadManifest() {
	data, err := os.ReadFile(cb.manifestPath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &cb.manifest); err != nil {
		slog.Warn("Could not parse asset manifest, starting empty", "path", cb.manifestPath, "error", err)
		cb.manifest = make(map[string]string)
	}
}

func (cb *CacheBuster) saveManifest() error {
	data, err := json.MarshalIndent(cb.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode asset manifest: %w", err)
	}
	if err := os.WriteFile(cb.manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write asset manifest: %w", err)
	}
	return nil
}

// AssetURL returns the asset path with a content-hash version parameter.
// Unknown assets are hashed on the fly and remembered; paths that do not
// exist on disk come back unversioned.
func (cb *CacheBuster) AssetURL(assetPath string) string {
	normalized := strings.TrimPrefix(assetPath, "/")

	cb.mu.RLock()
	hash, ok := cb.manifest[normalized]
	cb.mu.RUnlock()
	if ok {
		return versioned(assetPath, hash)
	}

	hash, err := hashFile(filepath.Join(cb.publicDir, normalized))
	if err != nil {
		return assetPath
	}

	cb.mu.Lock()
	cb.manifest[normalized] = hash
	if err := cb.saveManifest(); err != nil {
		slog.Warn("Could not save asset manifest", "error", err)
	}
	cb.mu.Unlock()

	return versioned(assetPath, hash)
}

// Refresh rehashes every file under the public dir and rewrites the
// manifest. The manifest file itself is excluded.
func (cb *CacheBuster) Refresh() error {
	manifest := make(map[string]string)

	err := filepath.Walk(cb.publicDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || path == cb.manifestPath {
			return err
		}
		rel, err := filepath.Rel(cb.publicDir, path)
		if err != nil {
			return err
		}
		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		manifest[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk public dir: %w", err)
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.manifest = manifest
	return cb.saveManifest()
}

func (cb *CacheBuster) Count() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return len(cb.manifest)
}

func versioned(assetPath, hash string) string {
	separator := "?"
	if strings.Contains(assetPath, "?") {
		separator = "&"
	}
	return assetPath + separator + "v=" + hash
}

func hashFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read asset: %w", err)
	}
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:hashLength], nil
}
