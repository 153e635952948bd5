// Package mockapi is a local stand-in for the contact backend. It speaks the
// same wire contract as the real API so the site and the terminal form can be
// exercised end to end without deploying anything. Messages are not stored.
package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

// Config configures the stub.
type Config struct {
	RatePerMinute int
}

type sendRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=50,alphaspace"`
	Email   string `json:"email" binding:"required,email,max=100"`
	Subject string `json:"subject" binding:"required,min=5,max=100"`
	Message string `json:"message" binding:"required,min=10,max=1000"`
}

type messageData struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

var (
	alphaSpace   = regexp.MustCompile(`^[A-Za-z\s]+$`)
	registerOnce sync.Once
)

func registerValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
				return alphaSpace.MatchString(fl.Field().String())
			})
		}
	})
}

// idleAfter is how long a client must be quiet before its limiter is dropped.
// A limiter idle that long has refilled its whole burst, so a fresh one is
// equivalent.
const idleAfter = time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type server struct {
	logger zerolog.Logger
	limit  rate.Limit
	burst  int
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newServer(cfg Config, logger zerolog.Logger) *server {
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 5
	}
	return &server{
		logger:  logger,
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// NewRouter builds the stub API.
func NewRouter(cfg Config, logger zerolog.Logger) *gin.Engine {
	registerValidations()
	s := newServer(cfg, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	api := r.Group(BasePath)
	api.POST("/contact/send", s.send)
	return r
}

// allow reports whether key may send now. Idle clients are swept lazily,
// at most once per idleAfter, so the map tracks only recent senders.
func (s *server) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= idleAfter {
		for k, c := range s.clients {
			if now.Sub(c.lastSeen) >= idleAfter {
				delete(s.clients, k)
			}
		}
		s.lastSweep = now
	}

	c, ok := s.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (s *server) send(c *gin.Context) {
	if !s.allow(c.ClientIP()) {
		s.logger.Warn().Str("client", c.ClientIP()).Msg("contact rate limit hit")
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests. Please try again later."})
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			data := make([]gin.H, 0, len(verrs))
			for _, fe := range verrs {
				field := strings.ToLower(fe.Field())
				data = append(data, gin.H{field: fieldMessage(fe)})
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "data": data})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	data := messageData{
		ID:     uuid.NewString(),
		Status: "new",
	}
	data.Category, data.Priority = categorize(req.Subject + " " + req.Message)

	s.logger.Info().
		Str("id", data.ID).
		Str("category", data.Category).
		Str("priority", data.Priority).
		Msg("contact message received")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for your message! I'll get back to you soon.",
		"data":    data,
	})
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "alphaspace":
		return label + " can only contain letters and spaces"
	}
	return label + " is invalid"
}

var categoryKeywords = []struct {
	category string
	priority string
	words    []string
}{
	{"job", "high", []string{"hire", "hiring", "job", "position", "opportunity", "role"}},
	{"course", "normal", []string{"course", "enroll", "lesson", "student"}},
	{"project", "normal", []string{"project", "collaborat", "freelance", "build"}},
}

// categorize sorts a message by keyword so the reply can be triaged.
func categorize(text string) (category, priority string) {
	text = strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(text, w) {
				return ck.category, ck.priority
			}
		}
	}
	return "general", "low"
}
