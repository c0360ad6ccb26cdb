package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/webclient"
)

const apiBase = "https://api.twitter.com/2"

// Post is a single fetched tweet. Immutable, never persisted.
type Post struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
	AuthorID       string    `json:"authorId"`
	ConversationID string    `json:"conversationId"`
}

// User is the subset of the X user object this service reads.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Client is a minimal X API v2 reader authenticated by a bearer token
// (either the app token or a user's OAuth2 access token).
type Client struct {
	bearer     string
	baseURL    string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

func NewClient(bearer string) *Client {
	return &Client{
		bearer:     bearer,
		baseURL:    apiBase,
		httpClient: webclient.NewDefault(30 * time.Second),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// WithBaseURL points the client at a different API host; used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// UserByUsername resolves a handle to a user record.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	var resp struct {
		Data   User `json:"data"`
		Errors []struct {
			Title string `json:"title"`
		} `json:"errors"`
	}
	path := "/users/by/username/" + url.PathEscape(strings.TrimPrefix(username, "@"))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" {
		return nil, fmt.Errorf("%w: user %q", logging.ErrNotFound, username)
	}
	return &resp.Data, nil
}

// Me returns the authenticated user; requires a user access token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		Data User `json:"data"`
	}
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" {
		return nil, fmt.Errorf("%w: authenticated user", logging.ErrNotFound)
	}
	return &resp.Data, nil
}

// RecentPosts fetches up to limit of the user's most recent posts,
// retweets and replies excluded. Text is HTML-unescaped and stripped of
// any markup before it reaches a prompt.
func (c *Client) RecentPosts(ctx context.Context, userID string, limit int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := url.Values{
		"max_results":  {fmt.Sprint(limit)},
		"tweet.fields": {"created_at,author_id,conversation_id"},
		"exclude":      {"retweets,replies"},
	}

	var resp struct {
		Data []struct {
			ID             string    `json:"id"`
			Text           string    `json:"text"`
			CreatedAt      time.Time `json:"created_at"`
			AuthorID       string    `json:"author_id"`
			ConversationID string    `json:"conversation_id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/tweets", q, &resp); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(resp.Data))
	for _, t := range resp.Data {
		posts = append(posts, Post{
			ID:             t.ID,
			Text:           html.UnescapeString(c.sanitizer.Sanitize(t.Text)),
			CreatedAt:      t.CreatedAt,
			AuthorID:       t.AuthorID,
			ConversationID: t.ConversationID,
		})
	}
	return posts, nil
}

// Texts projects posts onto their text bodies, preserving order.
func Texts(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Text
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	status, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.bearer)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return resp.StatusCode, b, fmt.Errorf("twitter: rate limited (429)")
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return logging.Transport("twitter: %s: %v", path, err)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: twitter: %s", logging.ErrNotFound, path)
	}
	if status != http.StatusOK {
		return logging.Transport("twitter: %s: status %d", path, status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return logging.Malformed("twitter: %s: decode: %v", path, err)
	}
	return nil
}
