package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BerylCAtieno/legalease/internal/models"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/health":
			json.NewEncoder(w).Encode(models.HealthResponse{Status: "OK", Version: "1.0.0", Timestamp: time.Now()})
		case "/api/analyze-document":
			file, header, err := r.FormFile("document")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(models.ErrorResponse{Error: "No file uploaded"})
				return
			}
			defer file.Close()
			if content, _ := io.ReadAll(file); strings.TrimSpace(string(content)) == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(models.ErrorResponse{Error: "No text could be extracted from the file"})
				return
			}
			a := models.DocumentAnalysis{Summary: "Summary of " + header.Filename, DocumentType: "Lease"}
			a.Normalize()
			json.NewEncoder(w).Encode(models.AnalysisResponse{
				DocumentAnalysis: a,
				Metadata:         models.AnalysisMetadata{FileName: header.Filename, FileSize: header.Size},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Endpoint not found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHealthCommand(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := run(t, "--server", srv.URL, "health")
	if err != nil {
		t.Fatalf("health returned error: %v", err)
	}
	if !strings.Contains(out, "status OK, version 1.0.0") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestAnalyzeCommandReportsEachFile(t *testing.T) {
	srv := fakeAPI(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "lease.txt")
	bad := filepath.Join(dir, "photo.png")
	for _, p := range []string{good, bad} {
		if err := os.WriteFile(p, []byte("content"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, errOut, err := run(t, "--server", srv.URL, "analyze", good, bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 documents failed") {
		t.Fatalf("error = %v, want one failure", err)
	}
	if !strings.Contains(out, "Summary of lease.txt") {
		t.Errorf("report missing analysis:\n%s", out)
	}
	if !strings.Contains(errOut, "lease.txt: done") || !strings.Contains(errOut, "photo.png: failed") {
		t.Errorf("status output missing transitions:\n%s", errOut)
	}
}

func TestAnalyzeCommandKeepsSameNamedFilesApart(t *testing.T) {
	srv := fakeAPI(t)
	root := t.TempDir()
	var paths []string
	for dir, content := range map[string]string{"a": "Lease terms", "b": "   "} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o700); err != nil {
			t.Fatal(err)
		}
		p := filepath.Join(root, dir, "lease.txt")
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	_, errOut, err := run(t, append([]string{"--server", srv.URL, "analyze"}, paths...)...)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 documents failed") {
		t.Fatalf("error = %v, want one failure", err)
	}
	if !strings.Contains(errOut, "lease.txt: done") || !strings.Contains(errOut, "lease.txt: failed") {
		t.Errorf("both files should report a terminal status:\n%s", errOut)
	}
}

func TestAnalyzeCommandRequiresFile(t *testing.T) {
	if _, _, err := run(t, "analyze"); err == nil {
		t.Fatal("expected an argument error")
	}
}
