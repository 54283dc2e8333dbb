// Package apitest runs an in-process fake of the farm-management backend
// implementing the HTTP contract the dashboard client consumes: enveloped
// JSON responses, zero-indexed pagination, the trash lifecycle, summary
// counters, auth, report export and the notification push stream. It exists
// for tests only.
package apitest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Resource collection paths served by the fake backend.
var Collections = []string{"supplies", "sales", "fish-ponds", "fish-hatches", "livestock"}

// User is the account seeded into a fresh server.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Password string `json:"-"`
}

type record = map[string]any

// Server is the fake backend. All mutation helpers are safe for concurrent
// use with in-flight requests.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	user        User
	tokens      map[string]string // token -> user id
	resetTokens map[string]string // reset token -> user id
	collections map[string][]record
	lastQuery   map[string]url.Values
	notes       []record
	streams     map[string][]chan record

	// OmitDisposition drops the Content-Disposition header from export
	// responses so the client's filename fallback can be exercised.
	OmitDisposition bool

	// FailNext, when non-zero, makes the next matching request fail with
	// the given status and message.
	failStatus  int
	failMessage string
}

// NewServer starts the fake backend with one seeded account.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		user: User{
			ID:       uuid.NewString(),
			Username: "amina",
			Email:    "amina@greenacres.test",
			FullName: "Amina Diallo",
			Password: "harvest-moon",
		},
		tokens:      make(map[string]string),
		resetTokens: make(map[string]string),
		collections: make(map[string][]record),
		lastQuery:   make(map[string]url.Values),
		streams:     make(map[string][]chan record),
	}
	for _, name := range Collections {
		s.collections[name] = nil
	}

	engine := gin.New()
	s.routes(engine)
	s.Server = httptest.NewServer(engine)
	return s
}

// SeededUser returns the account accepted by /auth/login.
func (s *Server) SeededUser() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IssueToken registers a valid bearer token without going through login.
func (s *Server) IssueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = s.user.ID
	return token
}

// RevokeToken invalidates a previously issued token, so subsequent requests
// carrying it answer 401.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Seed inserts a record directly into a collection and returns its id.
func (s *Server) Seed(collection string, fields map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := cloneRecord(fields)
	if _, ok := rec["id"]; !ok {
		rec["id"] = uuid.NewString()
	}
	if _, ok := rec["deleted"]; !ok {
		rec["deleted"] = false
	}
	deriveTotal(rec)
	s.collections[collection] = append([]record{rec}, s.collections[collection]...)
	return rec["id"].(string)
}

// Count reports active and trashed record counts for a collection.
func (s *Server) Count(collection string) (active, trashed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.collections[collection] {
		if rec["deleted"] == true {
			trashed++
		} else {
			active++
		}
	}
	return active, trashed
}

// LastListQuery returns the query string of the most recent list request
// against the collection.
func (s *Server) LastListQuery(collection string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery[collection]
}

// SeedNotification appends a notification to the polled feed.
func (s *Server) SeedNotification(id, title, body string, read bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]record{{"id": id, "title": title, "body": body, "read": read}}, s.notes...)
}

// PushNotification emits a notification on the push stream of the given
// user (and into the polled feed, as the real backend does).
func (s *Server) PushNotification(userID, id, title, body string) {
	note := record{"id": id, "title": title, "body": body, "read": false}
	s.mu.Lock()
	s.notes = append([]record{note}, s.notes...)
	subs := append([]chan record(nil), s.streams[userID]...)
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- note:
		default:
		}
	}
}

// FailNext makes the next enveloped request answer the given status.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failMessage = message
}

func (s *Server) routes(r *gin.Engine) {
	apiGroup := r.Group("/api")

	auth := apiGroup.Group("/auth")
	auth.POST("/login", s.handleLogin)
	auth.POST("/signup", s.handleSignup)
	auth.POST("/forgot-password", s.handleForgotPassword)
	auth.POST("/reset-password", s.handleResetPassword)

	protected := apiGroup.Group("")
	protected.Use(s.requireToken)

	for _, name := range Collections {
		name := name
		grp := protected.Group("/" + name)
		grp.GET("", func(c *gin.Context) { s.handleList(c, name) })
		grp.POST("", func(c *gin.Context) { s.handleCreate(c, name) })
		grp.GET("/summary", func(c *gin.Context) { s.handleSummary(c, name) })
		grp.PUT("/:id", func(c *gin.Context) { s.handleUpdate(c, name) })
		grp.DELETE("/:id", func(c *gin.Context) { s.handleSoftDelete(c, name) })
		grp.PUT("/:id/restore", func(c *gin.Context) { s.handleRestore(c, name) })
		grp.DELETE("/:id/permanent", func(c *gin.Context) { s.handlePermanentDelete(c, name) })
	}

	protected.GET("/notifications", s.handleNotifications)
	protected.PUT("/notifications/:id/read", s.handleMarkRead)
	protected.GET("/notifications/stream/:userID", s.handleStream)
	protected.GET("/reports/export", s.handleExport)
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (s *Server) interceptFailure(c *gin.Context) bool {
	s.mu.Lock()
	status, message := s.failStatus, s.failMessage
	s.failStatus, s.failMessage = 0, ""
	s.mu.Unlock()
	if status != 0 {
		fail(c, status, message)
		return true
	}
	return false
}

func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	s.mu.Lock()
	_, valid := s.tokens[token]
	s.mu.Unlock()
	if header == "" || token == header || !valid {
		fail(c, http.StatusUnauthorized, "invalid or expired session")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		EmailOrUsername string `json:"emailOrUsername"`
		Password        string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if (req.EmailOrUsername != s.user.Username && req.EmailOrUsername != s.user.Email) ||
		req.Password != s.user.Password {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = s.user.ID
	ok(c, gin.H{"token": token, "user": s.user})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	}
	token := uuid.NewString()
	s.tokens[token] = s.user.ID
	ok(c, gin.H{"token": token, "user": s.user})
}

func (s *Server) handleForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Email != s.user.Email {
		// The real backend answers 200 regardless, to avoid leaking accounts.
		ok(c, true)
		return
	}
	s.resetTokens["reset-"+s.user.ID] = s.user.ID
	ok(c, true)
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, valid := s.resetTokens[req.Token]; !valid {
		fail(c, http.StatusBadRequest, "invalid reset token")
		return
	}
	delete(s.resetTokens, req.Token)
	s.user.Password = req.Password
	ok(c, true)
}

func (s *Server) handleList(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	query := c.Request.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	wantDeleted := query.Get("deleted") == "true"

	s.mu.Lock()
	s.lastQuery[collection] = query

	var matched []record
	for _, rec := range s.collections[collection] {
		if (rec["deleted"] == true) != wantDeleted {
			continue
		}
		if matchesFilters(rec, query) {
			matched = append(matched, cloneRecord(rec))
		}
	}
	s.mu.Unlock()

	totalPages := int(math.Ceil(float64(len(matched)) / float64(size)))
	start := page * size
	end := start + size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	items := matched[start:end]
	if items == nil {
		items = []record{}
	}

	ok(c, gin.H{
		"items":       items,
		"page":        page,
		"totalPages":  totalPages,
		"hasNext":     page+1 < totalPages,
		"hasPrevious": page > 0,
	})
}

func (s *Server) handleCreate(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	var rec record
	if err := c.ShouldBindJSON(&rec); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	rec["id"] = uuid.NewString()
	rec["deleted"] = false
	deriveTotal(rec)

	s.mu.Lock()
	s.collections[collection] = append([]record{rec}, s.collections[collection]...)
	s.mu.Unlock()

	ok(c, rec)
}

func (s *Server) handleUpdate(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	var updates record
	if err := c.ShouldBindJSON(&updates); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(collection, c.Param("id"))
	if rec == nil {
		fail(c, http.StatusNotFound, "record not found")
		return
	}
	for key, value := range updates {
		if key == "id" || key == "deleted" {
			continue
		}
		rec[key] = value
	}
	deriveTotal(rec)
	ok(c, cloneRecord(rec))
}

func (s *Server) handleSoftDelete(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(collection, c.Param("id"))
	if rec == nil {
		fail(c, http.StatusNotFound, "record not found")
		return
	}
	rec["deleted"] = true
	ok(c, true)
}

func (s *Server) handleRestore(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(collection, c.Param("id"))
	if rec == nil {
		fail(c, http.StatusNotFound, "record not found")
		return
	}
	if rec["deleted"] != true {
		fail(c, http.StatusConflict, "record is not in the trash")
		return
	}
	rec["deleted"] = false
	ok(c, cloneRecord(rec))
}

func (s *Server) handlePermanentDelete(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	items := s.collections[collection]
	for i, rec := range items {
		if rec["id"] == id {
			s.collections[collection] = append(items[:i:i], items[i+1:]...)
			ok(c, true)
			return
		}
	}
	fail(c, http.StatusNotFound, "record not found")
}

func (s *Server) handleSummary(c *gin.Context, collection string) {
	if s.interceptFailure(c) {
		return
	}

	now := time.Now()
	var today, month, total float64

	s.mu.Lock()
	for _, rec := range s.collections[collection] {
		if rec["deleted"] == true {
			continue
		}
		total++
		day, okDate := recordDate(rec)
		if !okDate {
			continue
		}
		if day.Year() == now.Year() && day.Month() == now.Month() {
			month++
			if day.Day() == now.Day() {
				today++
			}
		}
	}
	s.mu.Unlock()

	ok(c, gin.H{"today": today, "month": month, "total": total})
}

func (s *Server) handleNotifications(c *gin.Context) {
	if s.interceptFailure(c) {
		return
	}
	s.mu.Lock()
	items := make([]record, len(s.notes))
	for i, note := range s.notes {
		items[i] = cloneRecord(note)
	}
	s.mu.Unlock()
	ok(c, items)
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, note := range s.notes {
		if note["id"] == id {
			note["read"] = true
			ok(c, true)
			return
		}
	}
	fail(c, http.StatusNotFound, "notification not found")
}

func (s *Server) handleStream(c *gin.Context) {
	userID := c.Param("userID")
	ch := make(chan record, 8)

	s.mu.Lock()
	s.streams[userID] = append(s.streams[userID], ch)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		subs := s.streams[userID]
		for i, sub := range subs {
			if sub == ch {
				s.streams[userID] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case note := <-ch:
			c.SSEvent("notification", note)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleExport(c *gin.Context) {
	if s.interceptFailure(c) {
		return
	}

	exportType := c.Query("type")
	if exportType == "" {
		exportType = "csv"
	}
	category := c.Query("category")
	if category == "" {
		fail(c, http.StatusBadRequest, "category is required")
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write([]string{"id", "category"})
	s.mu.Lock()
	for _, rec := range s.collections[category] {
		if rec["deleted"] == true {
			continue
		}
		_ = cw.Write([]string{fmt.Sprint(rec["id"]), category})
	}
	omit := s.OmitDisposition
	s.mu.Unlock()
	cw.Flush()

	if !omit {
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("report-%s.%s", category, exportType)))
	}
	c.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
}

func (s *Server) find(collection, id string) record {
	for _, rec := range s.collections[collection] {
		if rec["id"] == id {
			return rec
		}
	}
	return nil
}

// matchesFilters applies every query parameter that is not a pagination
// control as a case-insensitive substring match. The "search" parameter
// matches any string field.
func matchesFilters(rec record, query url.Values) bool {
	for key, values := range query {
		switch key {
		case "page", "size", "deleted":
			continue
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		needle := strings.ToLower(values[0])

		if key == "search" {
			found := false
			for _, value := range rec {
				text, isString := value.(string)
				if isString && strings.Contains(strings.ToLower(text), needle) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}

		value, exists := rec[key]
		if !exists {
			return false
		}
		if !strings.Contains(strings.ToLower(fmt.Sprint(value)), needle) {
			return false
		}
	}
	return true
}

// deriveTotal computes the server-side totalPrice field when quantity and
// unitPrice are both present.
func deriveTotal(rec record) {
	quantity, okQ := toFloat(rec["quantity"])
	unitPrice, okP := toFloat(rec["unitPrice"])
	if okQ && okP {
		rec["totalPrice"] = quantity * unitPrice
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// recordDate finds the first field parseable as YYYY-MM-DD.
func recordDate(rec record) (time.Time, bool) {
	for key, value := range rec {
		if !strings.Contains(strings.ToLower(key), "date") {
			continue
		}
		text, isString := value.(string)
		if !isString {
			continue
		}
		if idx := strings.IndexByte(text, 'T'); idx >= 0 {
			text = text[:idx]
		}
		if t, err := time.Parse("2006-01-02", text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cloneRecord(rec record) record {
	out := make(record, len(rec))
	for key, value := range rec {
		out[key] = value
	}
	return out
}
