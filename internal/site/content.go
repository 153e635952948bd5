package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var embeddedContent []byte

// Content is every hand-authored list the pages render.
type Content struct {
	Profile      Profile       `yaml:"profile"`
	Skills       []Skill       `yaml:"skills"`
	Achievements []Achievement `yaml:"achievements"`
	Projects     []Project     `yaml:"projects"`
	Testimonials []Testimonial `yaml:"testimonials"`
	Course       Course        `yaml:"course"`
}

type Profile struct {
	Name      string `yaml:"name"`
	Title     string `yaml:"title"`
	Tagline   string `yaml:"tagline"`
	Location  string `yaml:"location"`
	Email     string `yaml:"email"`
	GitHub    string `yaml:"github"`
	LinkedIn  string `yaml:"linkedin"`
	ResumeURL string `yaml:"resume_url"`
}

type Skill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Level    int    `yaml:"level"`
}

type Achievement struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Project struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Featured    bool     `yaml:"featured"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Repo        string   `yaml:"repo"`
	Demo        string   `yaml:"demo"`
}

type Testimonial struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Quote   string `yaml:"quote"`
}

type Framework struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Module struct {
	Title   string   `yaml:"title"`
	Lessons []string `yaml:"lessons"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Course is the landing page of the web development course.
type Course struct {
	Title      string      `yaml:"title"`
	Tagline    string      `yaml:"tagline"`
	Price      string      `yaml:"price"`
	Duration   string      `yaml:"duration"`
	Frameworks []Framework `yaml:"frameworks"`
	Modules    []Module    `yaml:"modules"`
	FAQs       []FAQ       `yaml:"faqs"`
}

// LoadContent parses the content file at path, or the embedded copy when
// path is empty.
func LoadContent(path string) (*Content, error) {
	data := embeddedContent
	source := "embedded content"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("content: reading %s: %w", path, err)
		}
		data, source = b, path
	}
	return ParseContent(data, source)
}

// ParseContent decodes data strictly and checks that projects are addressable.
func ParseContent(data []byte, source string) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("content: parsing %s: %w", source, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("content: %s: %w", source, err)
	}
	return &c, nil
}

func (c *Content) validate() error {
	seen := make(map[string]bool, len(c.Projects))
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Slug) == "" {
			return fmt.Errorf("projects[%d]: slug is required", i)
		}
		if seen[p.Slug] {
			return fmt.Errorf("projects[%d]: duplicate slug %q", i, p.Slug)
		}
		seen[p.Slug] = true
	}
	return nil
}

// Categories lists project categories in first-seen order.
func (c *Content) Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range c.Projects {
		key := strings.ToLower(p.Category)
		if p.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p.Category)
	}
	return out
}

// ProjectsIn returns projects in category. An empty category or "all"
// returns every project.
func (c *Content) ProjectsIn(category string) []Project {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return c.Projects
	}
	var out []Project
	for _, p := range c.Projects {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns projects flagged for the home page.
func (c *Content) Featured() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Project looks a project up by slug.
func (c *Content) Project(slug string) (Project, bool) {
	for _, p := range c.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// SkillGroups groups skills by category, keeping first-seen order.
func (c *Content) SkillGroups() []SkillGroup {
	var groups []SkillGroup
	index := map[string]int{}
	for _, s := range c.Skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}

// SkillGroup is one category of skills on the About page.
type SkillGroup struct {
	Category string
	Skills   []Skill
}
