package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

const (
	PortalLandingPath = "/index.php/receita/index"
	PortalConsultPath = "/index.php/receita/consultar"
	PortalCookie      = "PHPSESSID"
)

type PortalOptions struct {
	// defaults to 200
	ConsultStatus int
	// how long the search takes to answer, aborted when the client goes away
	ConsultDelay time.Duration
	// body of the search response
	Page string
}

// ConsultRequest is what the fake portal saw of a search request.
type ConsultRequest struct {
	Cookie  string
	Referer string
	Query   url.Values
	Form    url.Values
}

// FakePortal imitates the landing page (which hands out a fresh session
// cookie on every visit) and the search endpoint of the portal.
type FakePortal struct {
	Server *httptest.Server

	opts     PortalOptions
	requests atomic.Int32

	mutex    sync.Mutex
	issued   []string
	consults []ConsultRequest
}

func NewFakePortal(t testing.TB, opts PortalOptions) *FakePortal {
	if opts.ConsultStatus == 0 {
		opts.ConsultStatus = http.StatusOK
	}
	p := &FakePortal{opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PortalLandingPath, p.landing)
	mux.HandleFunc("POST "+PortalConsultPath, p.consult)

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)
	return p
}

func (p *FakePortal) URL() string {
	return p.Server.URL
}

// Requests counts every request that reached the portal.
func (p *FakePortal) Requests() int32 {
	return p.requests.Load()
}

// Issued lists the session cookies handed out, in order.
func (p *FakePortal) Issued() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]string(nil), p.issued...)
}

func (p *FakePortal) Consults() []ConsultRequest {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]ConsultRequest(nil), p.consults...)
}

func (p *FakePortal) landing(w http.ResponseWriter, r *http.Request) {
	p.requests.Add(1)

	id := uuid.NewString()
	p.mutex.Lock()
	p.issued = append(p.issued, id)
	p.mutex.Unlock()

	http.SetCookie(w, &http.Cookie{Name: PortalCookie, Value: id, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<html><body>receita</body></html>"))
}

func (p *FakePortal) consult(w http.ResponseWriter, r *http.Request) {
	p.requests.Add(1)

	err := r.ParseForm()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	req := ConsultRequest{
		Referer: r.Referer(),
		Query:   r.URL.Query(),
		Form:    r.PostForm,
	}
	cookie, err := r.Cookie(PortalCookie)
	if err == nil {
		req.Cookie = cookie.Value
	}
	p.mutex.Lock()
	p.consults = append(p.consults, req)
	p.mutex.Unlock()

	if p.opts.ConsultDelay > 0 {
		select {
		case <-time.After(p.opts.ConsultDelay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.opts.ConsultStatus)
	w.Write([]byte(p.opts.Page))
}
