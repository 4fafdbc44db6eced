package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"skill-compass/internal/catalog"
)

const defaultUserAgent = "skill-compass-catalogsync/1.0"

// CheckResult is the outcome of probing one course's registration page.
type CheckResult struct {
	Code      string `json:"code"`
	TitleFa   string `json:"title_fa"`
	URL       string `json:"url"`
	OK        bool   `json:"ok"`
	Status    int    `json:"status,omitempty"`
	PageTitle string `json:"page_title,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CatalogChecker verifies that the registration links in the course catalog
// still resolve. Broken links surface here before a learner hits them.
type CatalogChecker struct {
	workers int
	logger  *log.Logger
}

func NewCatalogChecker(workers int, logger *log.Logger) *CatalogChecker {
	if workers <= 0 {
		workers = 4
	}
	return &CatalogChecker{workers: workers, logger: logger}
}

// Check probes every course with a register_url and reports per-course
// results sorted by code. Courses without a link are skipped.
func (c *CatalogChecker) Check(ctx context.Context, courses catalog.Courses) []CheckResult {
	pool := NewWorkerPool(c.workers, c.workers*2)
	pool.SetRateLimit(3)
	out := pool.Run(ctx)

	submitted := 0
	for _, code := range courses.SortedCodes() {
		meta := courses[code]
		link := strings.TrimSpace(meta.RegisterURL)
		if link == "" {
			continue
		}
		code, meta, link := code, meta, link
		submitted++
		pool.Submit(func(ctx context.Context) CheckResult {
			return c.checkOne(ctx, code, meta.TitleFa, link)
		})
	}
	pool.Close()

	results := make([]CheckResult, 0, submitted)
	for r := range out {
		results = append(results, r)
		if c.logger != nil && !r.OK {
			c.logger.Printf("[CatalogSync] broken link code=%s url=%s: %s", r.Code, r.URL, r.Error)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })
	return results
}

func (c *CatalogChecker) checkOne(ctx context.Context, code, titleFa, link string) CheckResult {
	result := CheckResult{Code: code, TitleFa: titleFa, URL: link}

	parsed, err := url.Parse(link)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		result.Error = "invalid url"
		return result
	}

	collector := colly.NewCollector(colly.AllowedDomains(parsed.Hostname()))
	collector.UserAgent = defaultUserAgent
	collector.SetRequestTimeout(15 * time.Second)
	_ = collector.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 300 * time.Millisecond})

	collector.OnResponse(func(r *colly.Response) {
		result.Status = r.StatusCode
		result.OK = r.StatusCode >= 200 && r.StatusCode < 400
	})
	collector.OnHTML("title", func(e *colly.HTMLElement) {
		if result.PageTitle == "" {
			result.PageTitle = strings.TrimSpace(e.Text)
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.Status = r.StatusCode
		}
		result.Error = err.Error()
	})

	select {
	case <-ctx.Done():
		result.Error = ctx.Err().Error()
		return result
	default:
	}

	if err := collector.Visit(link); err != nil {
		result.Error = err.Error()
		return result
	}
	collector.Wait()

	if !result.OK && result.Error == "" {
		result.Error = fmt.Sprintf("status %d", result.Status)
	}
	return result
}

// Summary condenses the check results for the command-line report.
type Summary struct {
	Checked int `json:"checked"`
	OK      int `json:"ok"`
	Broken  int `json:"broken"`
}

func Summarize(results []CheckResult) Summary {
	s := Summary{Checked: len(results)}
	for _, r := range results {
		if r.OK {
			s.OK++
		} else {
			s.Broken++
		}
	}
	return s
}
