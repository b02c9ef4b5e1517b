package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"morabot/internal/model"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
}

func (m *mockTransport) Do(_ *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func TestFetchPage(t *testing.T) {
	jsonp := loadFixture(t, "../../testdata/page1.jsonp")

	tests := []struct {
		name       string
		transport  *mockTransport
		wantAlbums int
		wantPages  int
		wantErr    bool
	}{
		{
			name:       "successful fetch",
			transport:  &mockTransport{body: jsonp, statusCode: 200},
			wantAlbums: 4,
			wantPages:  2,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "not found", statusCode: 404},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "missing callback envelope",
			transport: &mockTransport{body: `{"newReleaseList":[]}`, statusCode: 200},
			wantErr:   true,
		},
		{
			name:      "invalid json inside envelope",
			transport: &mockTransport{body: "moraCallback(not json);", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.transport)
			page, err := f.FetchPage(context.Background(), "jpn", 1, 1746198000000)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.wantAlbums, len(page.NewReleaseList)); diff != "" {
				t.Errorf("album count mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPages, page.SplitFileCnt); diff != "" {
				t.Errorf("splitFileCnt mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodePageEnvelopeVariants(t *testing.T) {
	payload := `{"newReleaseList":[],"splitFileCnt":3}`

	tests := []struct {
		name string
		body string
	}{
		{name: "semicolon terminated", body: "moraCallback(" + payload + ");"},
		{name: "no semicolon", body: "moraCallback(" + payload + ")"},
		{name: "surrounding whitespace", body: "\n moraCallback(" + payload + ");\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(3, page.SplitFileCnt); diff != "" {
				t.Errorf("splitFileCnt mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchPageRequestURL(t *testing.T) {
	var gotURL string
	f := New(transportFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(bytes.NewBufferString(`moraCallback({"newReleaseList":[],"splitFileCnt":1});`)),
		}, nil
	}))

	if _, err := f.FetchPage(context.Background(), "jpn", 7, 1746198000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://cf.mora.jp/contents/data/newrelease/web/newrelease/newRelease_jpn_0007.jsonp?_1746198000000"
	if diff := cmp.Diff(want, gotURL); diff != "" {
		t.Errorf("url mismatch (-want +got):\n%s", diff)
	}
}

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func album(artist, title, date string, tracks int) model.Album {
	return model.Album{
		ArtistName:    artist,
		Title:         title,
		TrackCount:    tracks,
		DispStartDate: date,
	}
}

func pageBody(splitFileCnt int, albums ...model.Album) string {
	body := `{"newReleaseList":[`
	for i, a := range albums {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"artistName":%q,"title":%q,"trackCount":%d,"dispStartDate":%q}`,
			a.ArtistName, a.Title, a.TrackCount, a.DispStartDate)
	}
	body += fmt.Sprintf(`],"splitFileCnt":%d}`, splitFileCnt)
	return "moraCallback(" + body + ");"
}
