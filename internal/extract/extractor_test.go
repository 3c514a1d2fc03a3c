package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stocksentiment/internal/datasource"
)

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) Warn(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msg)
}

type outcomes struct {
	mu   sync.Mutex
	seen []string
}

func (o *outcomes) ObserveExtraction(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, outcome)
}

const articlePage = `<!DOCTYPE html>
<html>
<head><title>t</title><style>p { color: red; }</style></head>
<body>
  <header><p>Site header paragraph</p></header>
  <nav><p>Home | Markets</p></nav>
  <article>
    <p>Apple reported   strong
       earnings.</p>
    <script>var p = "<p>not text</p>";</script>
    <p>Revenue grew in every region.</p>
  </article>
  <footer><p>Copyright notice</p></footer>
</body>
</html>`

func TestTextFromHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "strips non-content elements",
			html: articlePage,
			want: "Apple reported strong earnings. Revenue grew in every region.",
		},
		{
			name: "no paragraphs",
			html: "<html><body><div>Only a div</div></body></html>",
			want: "",
		},
		{
			name: "boilerplate removed",
			html: "<p>Oops, something went wrong</p><p>Real   content here.</p>",
			want: "Real content here.",
		},
		{
			name: "boilerplate inside paragraph",
			html: "<p>Before Oops, something went wrong after.</p>",
			want: "Before after.",
		},
		{
			name: "other error strings kept",
			html: "<p>Something else went wrong.</p>",
			want: "Something else went wrong.",
		},
		{
			name: "nested paragraph text",
			html: "<p>Shares <b>rose</b> <a href='#'>sharply</a>.</p>",
			want: "Shares rose sharply.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextFromHTML(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	rec := &outcomes{}
	warn := &warnings{}
	e := New(WithRecorder(rec))

	got := e.Extract(context.Background(), srv.URL, warn)
	assert.Equal(t, "Apple reported strong earnings. Revenue grew in every region.", got)
	assert.Equal(t, datasource.DefaultUserAgent, gotUA)
	assert.Empty(t, warn.msgs)
	assert.Equal(t, []string{OutcomeOK}, rec.seen)
}

func TestExtractNon200(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte("<p>should be ignored</p>"))
		}))

		warn := &warnings{}
		got := New().Extract(context.Background(), srv.URL, warn)
		srv.Close()

		assert.Equal(t, "", got, "status %d", code)
		require.Len(t, warn.msgs, 1)
		assert.True(t, strings.HasPrefix(warn.msgs[0], "Could not extract text from "+srv.URL))
	}
}

func TestTextStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New().Text(context.Background(), srv.URL)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	rec := &outcomes{}
	warn := &warnings{}
	e := New(WithTimeout(50*time.Millisecond), WithRecorder(rec))

	assert.Equal(t, "", e.Extract(context.Background(), srv.URL, warn))
	assert.Len(t, warn.msgs, 1)
	assert.Equal(t, []string{OutcomeError}, rec.seen)
}

func TestExtractCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "", New().Extract(ctx, srv.URL, nil))
}

func TestExtractUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	warn := &warnings{}
	assert.Equal(t, "", New().Extract(context.Background(), url, warn))
	assert.Len(t, warn.msgs, 1)
}

func TestExtractEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><nav><p>menu</p></nav></body></html>"))
	}))
	defer srv.Close()

	rec := &outcomes{}
	warn := &warnings{}
	got := New(WithRecorder(rec)).Extract(context.Background(), srv.URL, warn)
	assert.Equal(t, "", got)
	assert.Empty(t, warn.msgs)
	assert.Equal(t, []string{OutcomeEmpty}, rec.seen)
}

func TestTextEmptyURL(t *testing.T) {
	_, err := New().Text(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestMaxBodyBytes(t *testing.T) {
	page := "<p>first paragraph</p>" + strings.Repeat(" ", 64) + "<p>second paragraph</p>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := New(WithMaxBodyBytes(24)).Text(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "first paragraph", got)
}
