package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/webclient"
)

func fastRetries(t *testing.T) func() {
	t.Helper()
	orig := webclient.SleepFunc
	webclient.SleepFunc = func(ctx context.Context, d time.Duration) error { return nil }
	return func() { webclient.SleepFunc = orig }
}

func TestUserByUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/by/username/jack" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"data":{"id":"12","username":"jack","name":"jack"}}`))
	}))
	defer server.Close()

	c := NewClient("tok").WithBaseURL(server.URL)
	u, err := c.UserByUsername(context.Background(), "@jack")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "12" {
		t.Errorf("id = %q", u.ID)
	}
}

func TestUserByUsername_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient("tok").WithBaseURL(server.URL)
	_, err := c.UserByUsername(context.Background(), "ghost")
	if !errors.Is(err, logging.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentPosts_SanitizesText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("max_results") != "20" {
			t.Errorf("max_results = %q", r.URL.Query().Get("max_results"))
		}
		w.Write([]byte(`{"data":[
			{"id":"1","text":"hello <script>alert(1)</script> world","created_at":"2026-01-02T03:04:05Z","author_id":"12","conversation_id":"9"},
			{"id":"2","text":"plain &amp; simple","created_at":"2026-01-01T00:00:00Z","author_id":"12","conversation_id":"9"}
		]}`))
	}))
	defer server.Close()

	c := NewClient("tok").WithBaseURL(server.URL)
	posts, err := c.RecentPosts(context.Background(), "12", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts", len(posts))
	}
	if posts[0].Text != "hello  world" {
		t.Errorf("text = %q, want markup stripped", posts[0].Text)
	}
	if posts[1].Text != "plain & simple" {
		t.Errorf("text = %q, want entities unescaped", posts[1].Text)
	}
	if posts[0].AuthorID != "12" || posts[0].ConversationID != "9" {
		t.Errorf("post = %+v", posts[0])
	}
}

func TestRecentPosts_RetriesOn429(t *testing.T) {
	restore := fastRetries(t)
	defer restore()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":[{"id":"1","text":"ok","created_at":"2026-01-01T00:00:00Z","author_id":"12","conversation_id":"9"}]}`))
	}))
	defer server.Close()

	c := NewClient("tok").WithBaseURL(server.URL)
	posts, err := c.RecentPosts(context.Background(), "12", 5)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want retry after 429", calls)
	}
	if len(posts) != 1 {
		t.Errorf("posts = %+v", posts)
	}
}
