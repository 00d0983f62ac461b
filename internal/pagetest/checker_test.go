package pagetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qalab/page-test-gen/internal/model"
)

// plainChecker bypasses the private-address dial block so probes can reach
// httptest servers.
func plainChecker(concurrency int) *Checker {
	return newChecker(concurrency, &http.Client{Timeout: 5 * time.Second})
}

func TestCheckLinks_ResultsAlignWithInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	links := []model.Link{
		{URL: server.URL + "/ok"},
		{URL: server.URL + "/missing"},
		{URL: server.URL + "/broken"},
	}

	checks := plainChecker(2).CheckLinks(t.Context(), links)
	if len(checks) != len(links) {
		t.Fatalf("len(checks) = %d, want %d", len(checks), len(links))
	}
	for i, check := range checks {
		if check.URL != links[i].URL {
			t.Errorf("checks[%d].URL = %q, want %q", i, check.URL, links[i].URL)
		}
	}

	if !checks[0].IsAccessible || *checks[0].StatusCode != http.StatusOK {
		t.Errorf("checks[0] = %+v, want accessible 200", checks[0])
	}
	if checks[1].IsAccessible || *checks[1].StatusCode != http.StatusNotFound {
		t.Errorf("checks[1] = %+v, want inaccessible 404", checks[1])
	}
	if checks[2].IsAccessible {
		t.Errorf("checks[2] = %+v, want inaccessible", checks[2])
	}
}

func TestCheckLinks_RecordsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	checks := plainChecker(1).CheckLinks(t.Context(), []model.Link{{URL: server.URL + "/old"}})
	if len(checks) != 1 {
		t.Fatalf("len(checks) = %d, want 1", len(checks))
	}
	check := checks[0]
	if !check.IsAccessible {
		t.Errorf("IsAccessible = false, want true after following redirect")
	}
	if check.RedirectURL != server.URL+"/new" {
		t.Errorf("RedirectURL = %q, want %q", check.RedirectURL, server.URL+"/new")
	}
}

func TestCheckLinks_UnreachableHostRecordsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	checks := plainChecker(1).CheckLinks(t.Context(), []model.Link{{URL: url}})
	check := checks[0]
	if check.StatusCode != nil {
		t.Errorf("StatusCode = %d, want nil", *check.StatusCode)
	}
	if check.IsAccessible {
		t.Error("IsAccessible = true, want false")
	}
	if check.Error == "" {
		t.Error("Error = empty, want failure description")
	}
}

func TestCheckLinks_CapsProbeCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	links := make([]model.Link, maxCheckedLinks+50)
	for i := range links {
		links[i] = model.Link{URL: fmt.Sprintf("%s/%d", server.URL, i)}
	}

	checks := plainChecker(20).CheckLinks(t.Context(), links)
	if len(checks) != maxCheckedLinks {
		t.Errorf("len(checks) = %d, want cap of %d", len(checks), maxCheckedLinks)
	}
}

func TestCheckForms_UsesDeclaredMethod(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forms := []model.Form{
		{Action: server.URL + "/search", Method: "GET"},
		{Action: server.URL + "/login", Method: "POST"},
		{Action: server.URL + "/legacy", Method: ""},
	}

	checks := plainChecker(1).CheckForms(t.Context(), forms)
	if len(checks) != 3 {
		t.Fatalf("len(checks) = %d, want 3", len(checks))
	}
	for i, check := range checks {
		if !check.AcceptsSubmission {
			t.Errorf("checks[%d].AcceptsSubmission = false, want true", i)
		}
	}

	want := []string{"GET", "POST", "POST"}
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Errorf("methods = %v, want %v", methods, want)
	}
}

func TestCheckForms_RejectedSubmission(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checks := plainChecker(1).CheckForms(t.Context(), []model.Form{{Action: server.URL, Method: "POST"}})
	if checks[0].AcceptsSubmission {
		t.Error("AcceptsSubmission = true, want false on 500")
	}
	if *checks[0].StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", *checks[0].StatusCode)
	}
}

func TestCheckForms_MissingAction(t *testing.T) {
	checks := plainChecker(1).CheckForms(t.Context(), []model.Form{{Action: "", Method: "POST"}})
	check := checks[0]
	if check.AcceptsSubmission {
		t.Error("AcceptsSubmission = true, want false without an action")
	}
	if check.Error == "" {
		t.Error("Error = empty, want missing-action message")
	}
}
