package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSettings_Defaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.json")

	settings, err := NewSettings(file)
	if err != nil {
		t.Fatalf("NewSettings() error: %v", err)
	}

	if addr := settings.ListenAddr(); addr != DefaultListenAddr {
		t.Errorf("ListenAddr() = %q, expected %q", addr, DefaultListenAddr)
	}
	if limit := settings.RateLimit(); limit != DefaultRateLimit {
		t.Errorf("RateLimit() = %v, expected %v", limit, DefaultRateLimit)
	}
	if burst := settings.RateBurst(); burst != DefaultRateBurst {
		t.Errorf("RateBurst() = %d, expected %d", burst, DefaultRateBurst)
	}
}

func TestSetDownloadFolder_Persists(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "settings.json")
	target := filepath.Join(base, "media")

	settings, err := NewSettings(file)
	if err != nil {
		t.Fatalf("NewSettings() error: %v", err)
	}

	if err := settings.SetDownloadFolder(target); err != nil {
		t.Fatalf("SetDownloadFolder() error: %v", err)
	}

	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Fatalf("Expected %s to be created as a directory", target)
	}

	// a fresh Settings instance must see the persisted value
	reloaded, err := NewSettings(file)
	if err != nil {
		t.Fatalf("NewSettings() reload error: %v", err)
	}
	if dir := reloaded.Snapshot().DownloadFolder; dir != target {
		t.Errorf("DownloadFolder after reload = %q, expected %q", dir, target)
	}
}

func TestDownloadFolder_CreatesDirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "settings.json")

	settings, err := NewSettings(file)
	if err != nil {
		t.Fatalf("NewSettings() error: %v", err)
	}
	if err := settings.SetDownloadFolder(filepath.Join(base, "dl")); err != nil {
		t.Fatalf("SetDownloadFolder() error: %v", err)
	}

	dir := settings.DownloadFolder()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected DownloadFolder() to ensure %s exists", dir)
	}
}
