package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/weifxx/timetable/internal/ingest"
)

func TestFindLinkByText(t *testing.T) {
	page := `<html><body>
		<p>Расписание на неделю</p>
		<ul>
			<li><a href="/files/mon.docx">15</a></li>
			<li><a href="/files/tue.docx"> 16 </a></li>
			<li><a href="/files/notes.docx">заметки</a></li>
			<li><a>17</a></li>
		</ul>
	</body></html>`

	tests := []struct {
		text     string
		wantHref string
		wantOK   bool
	}{
		{"15", "/files/mon.docx", true},
		{"16", "/files/tue.docx", true}, // whitespace around link text
		{"заметки", "/files/notes.docx", true},
		{"17", "", false}, // anchor without href
		{"18", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			href, ok := FindLinkByText(strings.NewReader(page), tt.text)
			if ok != tt.wantOK || href != tt.wantHref {
				t.Errorf("FindLinkByText(%q) = (%q, %v), want (%q, %v)",
					tt.text, href, ok, tt.wantHref, tt.wantOK)
			}
		})
	}
}

func TestFindLinkByText_NestedMarkup(t *testing.T) {
	page := `<a href="/d/16.docx"><span><b>16</b></span></a>`
	href, ok := FindLinkByText(strings.NewReader(page), "16")
	if !ok || href != "/d/16.docx" {
		t.Errorf("FindLinkByText = (%q, %v)", href, ok)
	}
}

// captureIngester records the downloaded file instead of parsing it.
type captureIngester struct {
	path string
	name string
	data []byte
}

func (c *captureIngester) IngestFile(_ context.Context, path, originalName string) (*ingest.Report, error) {
	c.path = path
	c.name = originalName
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.data = data
	return &ingest.Report{FileName: originalName, Tables: 1, Committed: 1}, nil
}

func TestFetchDay(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/files/schedule16.docx">16</a></body></html>`))
	})
	mux.HandleFunc("/files/schedule16.docx", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("docx payload"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ingester := &captureIngester{}
	client := NewClient(srv.URL+"/schedule", 5*time.Second, ingester)

	report, err := client.FetchDay(context.Background(), "16")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if report.Committed != 1 {
		t.Errorf("report = %+v", report)
	}
	if ingester.name != "schedule16.docx" {
		t.Errorf("original name = %q", ingester.name)
	}
	if string(ingester.data) != "docx payload" {
		t.Errorf("downloaded content = %q", ingester.data)
	}

	// The temp file must be cleaned up after ingestion.
	if _, err := os.Stat(ingester.path); !os.IsNotExist(err) {
		t.Errorf("temp file %s still exists (stat err = %v)", ingester.path, err)
	}
}

func TestFetchDay_MissingLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/x.docx">15</a></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, &captureIngester{})
	if _, err := client.FetchDay(context.Background(), "16"); err == nil {
		t.Fatal("expected error for missing link")
	}
}

func TestFetchDay_PageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, &captureIngester{})
	if _, err := client.FetchDay(context.Background(), "16"); err == nil {
		t.Fatal("expected error for failing page")
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		page string
		href string
		want string
	}{
		{"https://college.example/schedule/", "/files/a.docx", "https://college.example/files/a.docx"},
		{"https://college.example/schedule/", "a.docx", "https://college.example/schedule/a.docx"},
		{"https://college.example/schedule", "https://cdn.example/a.docx", "https://cdn.example/a.docx"},
	}
	for _, tt := range tests {
		got, err := resolveURL(tt.page, tt.href)
		if err != nil || got != tt.want {
			t.Errorf("resolveURL(%q, %q) = (%q, %v), want %q", tt.page, tt.href, got, err, tt.want)
		}
	}
}
