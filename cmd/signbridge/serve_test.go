package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"

	"github.com/ayusman/signbridge/internal/config"
	"github.com/ayusman/signbridge/internal/store"
)

func TestUIURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
	}
	for _, tt := range tests {
		if got := uiURL(tt.addr); got != tt.want {
			t.Errorf("uiURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFindWebDir(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()

	if got := findWebDir(dataDir); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}

	web := filepath.Join(dataDir, "web")
	if err := os.Mkdir(web, 0755); err != nil {
		t.Fatal(err)
	}
	if got := findWebDir(dataDir); got != web {
		t.Errorf("findWebDir() = %q, want %q", got, web)
	}
}

func TestLoadResolver(t *testing.T) {
	dir := t.TempDir()
	mappingFile := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mappingFile, []byte(`{"Good Morning": ["good.mp4", "morning.mp4"]}`), 0644); err != nil {
		t.Fatal(err)
	}

	st, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()
	if err := st.Clips().Upsert(&store.ClipMapping{Phrase: "thanks", Clips: []string{"thanks.mp4"}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	r := loadResolver(&config.Config{MappingFile: mappingFile}, st, zap.NewNop())

	tests := []struct {
		text string
		want []string
	}{
		{"good morning", []string{"good.mp4", "morning.mp4"}},
		{"Thanks!", []string{"thanks.mp4"}},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.text)
		if err != nil || !slices.Equal(got, tt.want) {
			t.Errorf("Resolve(%q) = %v, %v; want %v", tt.text, got, err, tt.want)
		}
	}

	if _, err := r.Resolve("hello"); err == nil {
		t.Error("expected mapping file to replace the defaults")
	}
}

func TestLoadResolver_MissingFile(t *testing.T) {
	cfg := &config.Config{MappingFile: filepath.Join(t.TempDir(), "missing.json")}

	got, err := loadResolver(cfg, nil, zap.NewNop()).Resolve("hello")
	if err != nil || !slices.Equal(got, []string{"hello.mp4"}) {
		t.Errorf("Resolve(hello) = %v, %v; want default mapping", got, err)
	}
}
