package demo_test

import (
	stdhtml "html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/internal/demo"
	"github.com/goliatone/go-formbind/pkg/security"
)

var hiddenInput = regexp.MustCompile(`<input type="hidden" name="([^"]+)" value="([^"]*)">`)

func newServer(t *testing.T) (*demo.App, *httptest.Server) {
	t.Helper()
	app, err := demo.New(demo.Options{Hasher: security.MustHashService("demo-secret")})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(app.Routes())
	t.Cleanup(srv.Close)
	return app, srv
}

func client() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client().Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func post(t *testing.T, url string, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client().PostForm(url, values)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

// hiddenValues extracts the hidden inputs of a rendered page.
func hiddenValues(t *testing.T, page string) url.Values {
	t.Helper()
	values := url.Values{}
	for _, match := range hiddenInput.FindAllStringSubmatch(page, -1) {
		values.Set(stdhtml.UnescapeString(match[1]), stdhtml.UnescapeString(match[2]))
	}
	if len(values) != 6 {
		t.Fatalf("expected 6 hidden inputs, got %d\n%s", len(values), page)
	}
	return values
}

func TestApp_NewForm(t *testing.T) {
	_, srv := newServer(t)

	resp, page := get(t, srv.URL+"/posts/new")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	for _, want := range []string{
		`<form action="/posts" method="post" id="post-form">`,
		`name="tx_blog_posts[post][title]"`,
		`<textarea id="field-body" name="tx_blog_posts[post][body]">`,
		`<p class="field__help">Plain text, <em>no</em> markup.</p>`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q\n%s", want, page)
		}
	}
	hiddenValues(t, page)

	resp, _ = get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/posts/new" {
		t.Fatalf("expected redirect to the form, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestApp_CreatePost(t *testing.T) {
	app, srv := newServer(t)

	_, page := get(t, srv.URL+"/posts/new")
	values := hiddenValues(t, page)
	values.Set("tx_blog_posts[post][title]", "Hello world")
	values.Set("tx_blog_posts[post][body]", "First post")
	values.Set("tx_blog_posts[post][author]", "mallory")

	resp, _ := post(t, srv.URL+"/posts", values)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "/posts/") {
		t.Fatalf("unexpected location %q", location)
	}

	resp, body := get(t, srv.URL+location)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var created demo.Post
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if created.Title != "Hello world" || created.Body != "First post" {
		t.Fatalf("unexpected post %+v", created)
	}
	if got := len(app.Store().List()); got != 1 {
		t.Fatalf("expected one stored post, got %d", got)
	}

	_, list := get(t, srv.URL+"/posts")
	if !strings.Contains(list, `"title":"Hello world"`) {
		t.Fatalf("expected post in list, got %s", list)
	}
}

func TestApp_InvalidPostIsRedisplayed(t *testing.T) {
	app, srv := newServer(t)

	_, page := get(t, srv.URL+"/posts/new")
	values := hiddenValues(t, page)
	values.Set("tx_blog_posts[post][title]", "ab")

	resp, page := post(t, srv.URL+"/posts", values)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	for _, want := range []string{
		`value="ab"`,
		`<p class="field__error">Title must be at least 3 characters</p>`,
		`<p class="field__error">Body is required</p>`,
		`<p class="flash">`,
		`name="tx_blog_posts[__referrer][@action]" value="new"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q\n%s", want, page)
		}
	}
	if got := len(app.Store().List()); got != 0 {
		t.Fatalf("invalid posts must not be stored, got %d", got)
	}

	// The re-displayed form is itself submittable.
	again := hiddenValues(t, page)
	again.Set("tx_blog_posts[post][title]", "abc")
	again.Set("tx_blog_posts[post][body]", "now valid")
	resp, _ = post(t, srv.URL+"/posts", again)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 for corrected post, got %d", resp.StatusCode)
	}
}

func TestApp_RejectsTamperedSubmission(t *testing.T) {
	_, srv := newServer(t)

	_, page := get(t, srv.URL+"/posts/new")
	values := hiddenValues(t, page)
	values.Set("tx_blog_posts[__referrer][@controller]", "Admin")
	values.Set("tx_blog_posts[post][title]", "Hello")

	resp, _ := post(t, srv.URL+"/posts", values)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, _ = post(t, srv.URL+"/posts", url.Values{"tx_blog_posts[post][title]": {"Hello"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without hidden fields, got %d", resp.StatusCode)
	}
}

func TestApp_ShowPostErrors(t *testing.T) {
	_, srv := newServer(t)

	if resp, _ := get(t, srv.URL+"/posts/not-a-uuid"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp, _ := get(t, srv.URL+"/posts/"+uuid.NewString()); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestNew_RequiresHasher(t *testing.T) {
	if _, err := demo.New(demo.Options{}); err == nil {
		t.Fatalf("expected error without hasher")
	}
}
