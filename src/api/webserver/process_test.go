package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/api/config"
	"github.com/stake-plus/ideograph/src/twitter"
)

type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) Complete(ctx context.Context, prompt string, opts core.Options) (*core.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &core.Completion{Text: s.reply}, nil
}

func fakeTwitter(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/users/by/username/"):
			if strings.HasSuffix(r.URL.Path, "/ghost") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"data":{"id":"12","username":"jack","name":"jack"}}`))
		case strings.HasSuffix(r.URL.Path, "/tweets"):
			w.Write([]byte(`{"data":[{"id":"1","text":"end the fed","created_at":"2026-01-01T00:00:00Z","author_id":"12","conversation_id":"9"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newProcessFixture(t *testing.T, ai core.Client) *gin.Engine {
	t.Helper()
	upstream := fakeTwitter(t)

	p := NewProcess(Deps{
		Cfg: config.Config{TwitterBearer: "app-bearer"},
		AI:  ai,
	})
	p.newTwitter = func(bearer string) *twitter.Client {
		return twitter.NewClient(bearer).WithBaseURL(upstream.URL)
	}

	r := gin.New()
	r.POST("/v1/process", p.Handle)
	return r
}

func postProcess(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestProcess_MissingInput(t *testing.T) {
	r := newProcessFixture(t, &stubAI{reply: "{}"})
	if w := postProcess(r, `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProcess_UnknownUser(t *testing.T) {
	r := newProcessFixture(t, &stubAI{reply: "{}"})
	if w := postProcess(r, `{"username":"ghost"}`); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProcess_ClassifiesByUsername(t *testing.T) {
	reply := "```json\n" + `{"category":"libertarian","confidence":1.4,"conviction":0.8,"key_indicators":["end the fed"]}` + "\n```"
	r := newProcessFixture(t, &stubAI{reply: reply})

	w := postProcess(r, `{"username":"jack"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		UserID         string `json:"userId"`
		PostCount      int    `json:"postCount"`
		Classification struct {
			Category   string  `json:"category"`
			Confidence float64 `json:"confidence"`
			BasedScore float64 `json:"based_score"`
		} `json:"classification"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.UserID != "12" || resp.PostCount != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Classification.Category != "libertarian" {
		t.Errorf("category = %q", resp.Classification.Category)
	}
	if resp.Classification.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", resp.Classification.Confidence)
	}
	if resp.Classification.BasedScore != 80 {
		t.Errorf("based_score = %v, want derived from conviction", resp.Classification.BasedScore)
	}
}

func TestProcess_LLMFailureIs500(t *testing.T) {
	r := newProcessFixture(t, &stubAI{err: context.DeadlineExceeded})
	w := postProcess(r, `{"userId":"12"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] == nil || resp["details"] == nil {
		t.Errorf("error body = %v", resp)
	}
}

func TestProcess_UnparseableReplyIs500(t *testing.T) {
	r := newProcessFixture(t, &stubAI{reply: "I would rather not say."})
	if w := postProcess(r, `{"userId":"12"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
