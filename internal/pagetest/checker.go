package pagetest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/qalab/page-test-gen/internal/model"
)

const (
	defaultProbeTimeout       = 5 * time.Second
	defaultCheckConcurrency   = 10
	maxCheckedLinks           = 1000
	checkerUserAgent          = "PageTestGen/1.0 (+https://github.com/qalab/page-test-gen)"
	probeIdleConnsPerEndpoint = 10
)

// Checker probes link and form endpoints for reachability. Probes never
// return errors; failures are recorded inside the result records.
type Checker struct {
	client      *http.Client
	concurrency int
}

// NewChecker builds a Checker that refuses connections to private address
// space, mirroring the fetcher's dialing policy.
func NewChecker(concurrency int, timeout time.Duration) *Checker {
	if concurrency <= 0 {
		concurrency = defaultCheckConcurrency
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	transport := &http.Transport{
		DialContext:         safeDialer(timeout).DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConnsPerHost: probeIdleConnsPerEndpoint,
	}
	return newChecker(concurrency, &http.Client{Transport: transport, Timeout: timeout})
}

// newChecker exists so tests can inject a client without the dialing policy.
func newChecker(concurrency int, client *http.Client) *Checker {
	return &Checker{client: client, concurrency: concurrency}
}

// CheckLinks probes every link concurrently and returns results aligned
// positionally with the input. At most maxCheckedLinks links are probed;
// the rest of the slice is ignored.
func (c *Checker) CheckLinks(ctx context.Context, links []model.Link) []model.LinkCheck {
	if len(links) > maxCheckedLinks {
		links = links[:maxCheckedLinks]
	}
	checks := make([]model.LinkCheck, len(links))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(c.concurrency, len(links))
	for range workers {
		wg.Go(func() {
			for i := range jobs {
				checks[i] = c.checkLink(ctx, links[i].URL)
			}
		})
	}
	for i := range links {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return checks
}

func (c *Checker) checkLink(ctx context.Context, url string) model.LinkCheck {
	check := model.LinkCheck{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	req.Header.Set("User-Agent", checkerUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	check.StatusCode = &status
	check.IsAccessible = status >= 200 && status < 400
	if final := resp.Request.URL.String(); final != url {
		check.RedirectURL = final
	}
	return check
}

// CheckForms probes each form's action endpoint using the form's declared
// method. Forms with no resolvable action are recorded as unsupported
// rather than probed.
func (c *Checker) CheckForms(ctx context.Context, forms []model.Form) []model.FormCheck {
	checks := make([]model.FormCheck, len(forms))
	for i, form := range forms {
		checks[i] = c.checkForm(ctx, form)
	}
	return checks
}

func (c *Checker) checkForm(ctx context.Context, form model.Form) model.FormCheck {
	check := model.FormCheck{URL: form.Action}
	if form.Action == "" {
		check.Error = "form has no action URL"
		return check
	}

	method := http.MethodPost
	if strings.EqualFold(form.Method, http.MethodGet) {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, form.Action, nil)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	req.Header.Set("User-Agent", checkerUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	check.StatusCode = &status
	check.AcceptsSubmission = status >= 200 && status < 400
	return check
}
