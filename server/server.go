// Package server exposes trackview charts over HTTP with gin.
//
// Routes:
//
//	POST   /charts?mode=heatmap      create a chart, returns its id
//	POST   /charts/:id/load          load TSV or JSON records from the body, or ?url=
//	                                 (http, https or gs on an allowed host only)
//	PATCH  /charts/:id/settings      merge JSON or YAML settings
//	POST   /charts/:id/refresh       re-render against current data
//	POST   /charts/:id/click         {"x": .., "y": ..} click at a surface point
//	GET    /charts/:id/svg           the settled scene as SVG
//	DELETE /charts/:id               drop the chart
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/phanxgames/trackview"
)

// entry guards one chart; a chart runs at most one render pass at a time.
type entry struct {
	mu    sync.Mutex
	chart *trackview.Chart
}

// Server holds the charts created through the API.
type Server struct {
	mu      sync.Mutex
	charts  map[string]*entry
	allowed map[string]bool // hosts and buckets ?url= may name
	router  *gin.Engine
}

// New creates a server with its routes registered.
func New() *Server {
	s := &Server{charts: make(map[string]*entry), allowed: make(map[string]bool)}
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/charts", s.create)
	r.POST("/charts/:id/load", s.withChart(s.load))
	r.PATCH("/charts/:id/settings", s.withChart(s.settings))
	r.POST("/charts/:id/refresh", s.withChart(s.refresh))
	r.POST("/charts/:id/click", s.withChart(s.click))
	r.GET("/charts/:id/svg", s.withChart(s.svg))
	r.DELETE("/charts/:id", s.remove)
	s.router = r
	return s
}

// Router returns the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AllowHosts permits ?url= loads from the named hosts (or gs:// buckets).
// With none allowed, records can only be posted in the request body.
func (s *Server) AllowHosts(hosts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range hosts {
		s.allowed[strings.ToLower(h)] = true
	}
}

// remoteSource vets a client supplied URL. Local paths are never served.
func (s *Server) remoteSource(raw string) (trackview.Source, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trackview.ErrUnsupportedSource, err)
	}
	switch u.Scheme {
	case "http", "https", "gs":
	default:
		return nil, fmt.Errorf("%w: scheme %q is not served", trackview.ErrUnsupportedSource, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	s.mu.Lock()
	ok := s.allowed[host]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: host %q is not allowed", trackview.ErrUnsupportedSource, host)
	}
	return trackview.RemoteURL(raw), nil
}

func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.charts[id]
	return e, ok
}

// withChart resolves :id and runs h with the chart locked.
func (s *Server) withChart(h func(*gin.Context, *trackview.Chart)) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := s.lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no chart " + c.Param("id")})
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(c, e.chart)
	}
}

func (s *Server) create(c *gin.Context) {
	mode := c.DefaultQuery("mode", "heatmap")
	chart, err := trackview.New(mode)
	if err != nil {
		fail(c, err)
		return
	}
	id := uuid.New().String()
	s.mu.Lock()
	s.charts[id] = &entry{chart: chart}
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"id": id, "mode": mode})
}

func (s *Server) remove(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.charts[id]
	delete(s.charts, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chart " + id})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) load(c *gin.Context, chart *trackview.Chart) {
	var src trackview.Source
	if u := c.Query("url"); u != "" {
		var err error
		if src, err = s.remoteSource(u); err != nil {
			fail(c, err)
			return
		}
	} else {
		body, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := "body.tsv"
		if strings.Contains(c.GetHeader("Content-Type"), "json") {
			name = "body.json"
		}
		src = trackview.Reader(bytes.NewReader(body), name)
	}
	if err := chart.Load(c.Request.Context(), src); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary(chart))
}

func (s *Server) settings(c *gin.Context, chart *trackview.Chart) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format := "json"
	if strings.Contains(c.GetHeader("Content-Type"), "yaml") {
		format = "yaml"
	}
	opts, err := trackview.ParseOptions(body, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := chart.Configure(opts); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": chart.Settings()})
}

func (s *Server) refresh(c *gin.Context, chart *trackview.Chart) {
	if err := chart.Refresh(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary(chart))
}

type clickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) click(c *gin.Context, chart *trackview.Chart) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req clickRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "click: " + err.Error()})
		return
	}
	chart.Settle()
	hit := chart.Click(req.X, req.Y)
	chart.Settle()
	resp := gin.H{"hit": nil}
	if hit != nil {
		resp["hit"] = gin.H{"class": hit.Class, "key": hit.Key, "title": hit.Title}
	}
	column, keys := chart.SortOrder()
	resp["sortColumn"] = column
	resp["sortOrder"] = keys
	c.JSON(http.StatusOK, resp)
}

func (s *Server) svg(c *gin.Context, chart *trackview.Chart) {
	chart.Settle()
	var buf bytes.Buffer
	if err := trackview.WriteSVG(&buf, chart.Scene()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

type trackSummary struct {
	Chr     string  `json:"chr"`
	Offset  float64 `json:"offset"`
	Records int     `json:"records"`
}

func summary(chart *trackview.Chart) gin.H {
	tracks := make([]trackSummary, 0, len(chart.Tracks()))
	for _, t := range chart.Tracks() {
		tracks = append(tracks, trackSummary{Chr: t.Chr, Offset: t.Offset, Records: len(t.Records)})
	}
	sc := chart.Scales()
	return gin.H{
		"mode":   chart.Mode(),
		"tracks": tracks,
		"domain": []float64{sc.X.Domain.Min, sc.X.Domain.Max},
		"scores": []float64{sc.Scores.Extent.Min, sc.Scores.Extent.Max},
		"width":  chart.Scene().Width,
		"height": chart.Height(),
	}
}

// fail maps trackview errors to HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, trackview.ErrUnknownGraph),
		errors.Is(err, trackview.ErrUnsupportedSource),
		errors.Is(err, trackview.ErrInvalidSettings):
		status = http.StatusBadRequest
	case errors.Is(err, trackview.ErrMalformedRecord),
		errors.Is(err, trackview.ErrNoRecords),
		errors.Is(err, trackview.ErrEmptyExtent):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
