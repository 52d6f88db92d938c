package techicons

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons"
	// FallbackIcon is served when no devicon exists for a technology.
	FallbackIcon = "/tech.svg"

	probeTimeout = 2 * time.Second
)

// aliases maps normalized technology names to devicon folder names.
var aliases = map[string]string{
	"react":       "react",
	"reactjs":     "react",
	"next":        "nextjs",
	"nextjs":      "nextjs",
	"vue":         "vuejs",
	"vuejs":       "vuejs",
	"node":        "nodejs",
	"nodejs":      "nodejs",
	"express":     "express",
	"expressjs":   "express",
	"angular":     "angularjs",
	"angularjs":   "angularjs",
	"ts":          "typescript",
	"typescript":  "typescript",
	"js":          "javascript",
	"javascript":  "javascript",
	"html":        "html5",
	"html5":       "html5",
	"css":         "css3",
	"css3":        "css3",
	"sass":        "sass",
	"scss":        "sass",
	"tailwind":    "tailwindcss",
	"tailwindcss": "tailwindcss",
	"bootstrap":   "bootstrap",
	"jquery":      "jquery",
	"go":          "go",
	"golang":      "go",
	"python":      "python",
	"java":        "java",
	"csharp":      "csharp",
	"mongo":       "mongodb",
	"mongodb":     "mongodb",
	"mysql":       "mysql",
	"postgres":    "postgresql",
	"postgresql":  "postgresql",
	"sqlite":      "sqlite",
	"redis":       "redis",
	"firebase":    "firebase",
	"docker":      "docker",
	"kubernetes":  "kubernetes",
	"aws":         "amazonwebservices",
	"azure":       "azure",
	"gcp":         "googlecloud",
	"git":         "git",
	"github":      "github",
	"graphql":     "graphql",
}

var whitespace = regexp.MustCompile(`\s+`)

// Icon pairs a technology name with its resolved icon URL.
type Icon struct {
	Tech string `json:"tech"`
	URL  string `json:"url"`
}

// Resolver maps technology names to icon URLs, probing candidate URLs for
// existence and memoizing the answers for the process lifetime.
type Resolver struct {
	BaseURL string
	Client  *http.Client

	mu    sync.Mutex
	cache map[string]bool // url -> exists
}

// NewResolver constructs a Resolver with the devicon CDN base.
func NewResolver() *Resolver {
	return &Resolver{
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: probeTimeout},
		cache:   make(map[string]bool),
	}
}

// Resolve returns one icon per distinct normalized technology, preserving
// first-seen input order. Existence probes run concurrently per name; a
// missing or unreachable icon falls back to FallbackIcon.
func (r *Resolver) Resolve(ctx context.Context, techs []string) []Icon {
	if len(techs) == 0 {
		return []Icon{}
	}

	seen := make(map[string]struct{}, len(techs))
	icons := make([]Icon, 0, len(techs))
	for _, tech := range techs {
		normalized := normalize(tech)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		url := FallbackIcon
		if normalized != "" {
			url = r.BaseURL + "/" + normalized + "/" + normalized + "-original.svg"
		}
		icons = append(icons, Icon{Tech: tech, URL: url})
	}

	var wg sync.WaitGroup
	for i := range icons {
		if icons[i].URL == FallbackIcon {
			continue
		}
		wg.Add(1)
		go func(icon *Icon) {
			defer wg.Done()
			if !r.exists(ctx, icon.URL) {
				icon.URL = FallbackIcon
			}
		}(&icons[i])
	}
	wg.Wait()

	return icons
}

// exists probes the URL with a bounded HEAD request. Results are cached per
// URL; duplicate concurrent probes are harmless under last-writer-wins.
func (r *Resolver) exists(ctx context.Context, url string) bool {
	r.mu.Lock()
	cached, ok := r.cache[url]
	r.mu.Unlock()
	if ok {
		return cached
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.Client.Do(req)
	exists := false
	if err == nil {
		resp.Body.Close()
		exists = resp.StatusCode >= 200 && resp.StatusCode < 300
	}

	r.mu.Lock()
	r.cache[url] = exists
	r.mu.Unlock()
	return exists
}

// normalize case-folds, strips a ".js" suffix and whitespace, and applies the
// alias table.
func normalize(tech string) string {
	key := strings.ToLower(strings.TrimSpace(tech))
	key = strings.TrimSuffix(key, ".js")
	key = whitespace.ReplaceAllString(key, "")
	if mapped, ok := aliases[key]; ok {
		return mapped
	}
	return key
}
