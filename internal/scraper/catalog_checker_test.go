package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skill-compass/internal/catalog"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/course/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>ثبت نام دوره</title></head><body></body></html>"))
	})
	mux.HandleFunc("/course/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckReportsLinkHealth(t *testing.T) {
	srv := testServer(t)
	courses := catalog.Courses{
		"1000000001": {TitleFa: "دوره سالم", RegisterURL: srv.URL + "/course/ok"},
		"1000000002": {TitleFa: "دوره حذف شده", RegisterURL: srv.URL + "/course/gone"},
		"1000000003": {TitleFa: "بدون لینک"},
	}

	checker := NewCatalogChecker(2, nil)
	results := checker.Check(context.Background(), courses)

	if len(results) != 2 {
		t.Fatalf("courses without a link are skipped, got %d results", len(results))
	}
	if results[0].Code != "1000000001" || results[1].Code != "1000000002" {
		t.Fatalf("results must be sorted by code: %+v", results)
	}

	ok := results[0]
	if !ok.OK || ok.Status != http.StatusOK {
		t.Fatalf("healthy link must pass: %+v", ok)
	}
	if ok.PageTitle != "ثبت نام دوره" {
		t.Fatalf("page title must be captured: %q", ok.PageTitle)
	}

	gone := results[1]
	if gone.OK {
		t.Fatalf("404 link must fail: %+v", gone)
	}
	if gone.Error == "" {
		t.Fatalf("failed checks must carry an error")
	}
}

func TestCheckRejectsInvalidURLs(t *testing.T) {
	checker := NewCatalogChecker(1, nil)
	results := checker.Check(context.Background(), catalog.Courses{
		"1000000009": {TitleFa: "لینک خراب", RegisterURL: "ftp://example.com/x"},
	})
	if len(results) != 1 || results[0].OK {
		t.Fatalf("non-http schemes must be rejected: %+v", results)
	}
	if results[0].Error != "invalid url" {
		t.Fatalf("error mismatch: %q", results[0].Error)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]CheckResult{{OK: true}, {OK: false}, {OK: true}})
	if s.Checked != 3 || s.OK != 2 || s.Broken != 1 {
		t.Fatalf("summary mismatch: %+v", s)
	}
}

func TestWorkerPoolDrainsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4, 8)
	out := pool.Run(context.Background())

	const n = 20
	go func() {
		for i := 0; i < n; i++ {
			code := string(rune('a' + i))
			pool.Submit(func(context.Context) CheckResult {
				return CheckResult{Code: code, OK: true}
			})
		}
		pool.Close()
	}()

	seen := 0
	for range out {
		seen++
	}
	if seen != n {
		t.Fatalf("every task must produce one result, got %d of %d", seen, n)
	}
}
