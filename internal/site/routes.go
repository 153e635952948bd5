// Package site serves the portfolio pages and the HTMX contact form.
package site

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/presenter"
)

// Dependencies wires the router.
type Dependencies struct {
	Content       *Content
	Submitter     presenter.Submitter
	Logger        zerolog.Logger
	FeedbackDelay time.Duration
}

type handlers struct {
	content   *Content
	submitter presenter.Submitter
	logger    zerolog.Logger
	delay     time.Duration
}

// NewRouter builds the gin engine with every page route registered.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Content == nil {
		return nil, errors.New("site: content is required")
	}
	if deps.Submitter == nil {
		return nil, errors.New("site: submitter is required")
	}
	if deps.FeedbackDelay <= 0 {
		deps.FeedbackDelay = presenter.DefaultDelay
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("site: parsing templates: %w", err)
	}
	salt, err := generateSalt()
	if err != nil {
		return nil, fmt.Errorf("site: generating salt: %w", err)
	}

	h := &handlers{
		content:   deps.Content,
		submitter: deps.Submitter,
		logger:    deps.Logger,
		delay:     deps.FeedbackDelay,
	}

	r := gin.New()
	r.Use(recoverer(deps.Logger), requestLogger(deps.Logger, salt), securityHeaders())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(Static))

	r.GET("/", h.home)
	r.GET("/about", h.about)
	r.GET("/projects", h.projects)
	r.GET("/projects/:slug", h.projectModal)
	r.GET("/course", h.course)
	r.GET("/contact", h.contactPage)
	r.GET("/contact-form", h.contactForm)
	r.GET("/contact-banner", h.clearBanner)
	r.POST("/contact", h.submitContact)
	r.GET("/thank-you", h.thankYou)
	r.GET("/cookie-policy", h.cookiePolicy)
	r.NoRoute(h.notFound)

	return r, nil
}

// page merges the data every full page needs into data.
func (h *handlers) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["path"] = c.Request.URL.Path
	data["profile"] = h.content.Profile
	data["year"] = time.Now().Year()
	return data
}

func (h *handlers) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.page(c, "Home", gin.H{
		"achievements": h.content.Achievements,
		"featured":     h.content.Featured(),
		"testimonials": h.content.Testimonials,
	}))
}

func (h *handlers) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", h.page(c, "About", gin.H{
		"aboutMe":     AboutMe,
		"skillGroups": h.content.SkillGroups(),
	}))
}

func (h *handlers) projects(c *gin.Context) {
	category := c.Query("category")
	c.HTML(http.StatusOK, "projects.html", h.page(c, "Projects", gin.H{
		"category":   category,
		"categories": h.content.Categories(),
		"projects":   h.content.ProjectsIn(category),
	}))
}

func (h *handlers) projectModal(c *gin.Context) {
	p, ok := h.content.Project(c.Param("slug"))
	if !ok {
		h.notFound(c)
		return
	}
	c.HTML(http.StatusOK, "project-modal.html", gin.H{"project": p})
}

func (h *handlers) course(c *gin.Context) {
	c.HTML(http.StatusOK, "course.html", h.page(c, "Web Development Course", gin.H{
		"course":       h.content.Course,
		"testimonials": h.content.Testimonials,
	}))
}

func (h *handlers) contactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", h.page(c, "Contact", gin.H{
		"intro": ContactIntro,
		"form":  blankForm(h.delay),
	}))
}

// contactForm returns a blank form fragment. The confirmation view loads it
// once its delay has passed.
func (h *handlers) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", gin.H{"form": blankForm(h.delay)})
}

func (h *handlers) clearBanner(c *gin.Context) {
	c.String(http.StatusOK, "")
}

// submitContact runs one submission through a presenter scoped to this
// request. The presenter is disposed before the response is written, so none
// of its timers outlive the request; the delays are replayed by HTMX triggers.
func (h *handlers) submitContact(c *gin.Context) {
	var in contact.Input
	if err := c.ShouldBind(&in); err != nil {
		_ = c.Error(err)
		h.renderForm(c, http.StatusBadRequest, presenter.View{
			State:  presenter.Editing,
			Banner: presenter.Banner{Text: contact.BadRequestMessage, Tone: presenter.ToneError},
		})
		return
	}

	p := presenter.New(h.submitter,
		presenter.WithDelay(h.delay),
		presenter.WithLogger(h.logger.With().Str("form", "contact").Logger()),
	)
	p.Load(in)
	outcome, err := p.Submit(c.Request.Context())
	v := p.View()
	p.Dispose()

	switch {
	case errors.Is(err, presenter.ErrInvalid):
		h.renderForm(c, http.StatusUnprocessableEntity, v)
		return
	case err != nil:
		_ = c.Error(err)
		h.renderForm(c, http.StatusInternalServerError, v)
		return
	}

	if !contact.IsSuccess(outcome) {
		h.renderForm(c, http.StatusOK, v)
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/thank-you")
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"form":     newFormView(v, h.delay),
		"thankYou": ThankYou,
	})
}

// renderForm answers HTMX with the form fragment and plain posts with the
// whole contact page. HTMX only swaps 2xx responses, so fragments always use 200.
func (h *handlers) renderForm(c *gin.Context, status int, v presenter.View) {
	form := newFormView(v, h.delay)
	if isHTMX(c) {
		c.HTML(http.StatusOK, "contact-form.html", gin.H{"form": form})
		return
	}
	c.HTML(status, "contact.html", h.page(c, "Contact", gin.H{
		"intro": ContactIntro,
		"form":  form,
	}))
}

func (h *handlers) thankYou(c *gin.Context) {
	c.HTML(http.StatusOK, "thank-you.html", h.page(c, "Thank You", gin.H{
		"thankYou": ThankYou,
	}))
}

func (h *handlers) cookiePolicy(c *gin.Context) {
	c.HTML(http.StatusOK, "cookie-policy.html", h.page(c, "Cookie Policy", gin.H{
		"sections": CookiePolicy,
	}))
}

func (h *handlers) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not-found.html", h.page(c, "Not Found", nil))
}
