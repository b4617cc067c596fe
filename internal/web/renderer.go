// Package web renders the single page from embedded html/template files.
package web

import (
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-prefs/internal/model"
	"github.com/iliyamo/movie-prefs/internal/service"
)

// PageIndex is the template name of the single page.
const PageIndex = "index.html"

// IndexData is the data handed to index.html.
type IndexData struct {
	Title       string
	Page        *service.Page
	Flash       string
	AllGenres   []model.Genre
	SortOrders  []model.SortOrder
	MinPref     int
	MaxPref     int
	DefaultPref int
	ReturnQuery string // filter query string carried through form posts
}

// NewIndexData fills in the fixed choices around a derived page.
func NewIndexData(p *service.Page, flash string) IndexData {
	return IndexData{
		Title:       "Movie preferences & reviews",
		Page:        p,
		Flash:       flash,
		AllGenres:   model.Genres(),
		SortOrders:  model.SortOrders(),
		MinPref:     model.MinPreference,
		MaxPref:     model.MaxPreference,
		DefaultPref: model.DefaultPreference,
		ReturnQuery: FilterQuery(p.Filter).Encode(),
	}
}

// FilterQuery encodes the non-default parts of f as query parameters.
func FilterQuery(f model.Filter) url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Genre != "" {
		v.Set("genre", string(f.Genre))
	}
	if f.Sort != "" && f.Sort != model.SortInsertion {
		v.Set("sort", string(f.Sort))
	}
	return v
}

// ParseFilter reads q, genre and sort. Unknown genres mean "show all" and
// unknown sorts mean insertion order.
func ParseFilter(v url.Values) model.Filter {
	f := model.Filter{
		Search: v.Get("q"),
		Sort:   model.ParseSortOrder(v.Get("sort")),
	}
	if g, ok := model.ParseGenre(v.Get("genre")); ok {
		f.Genre = g
	}
	return f
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template once.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"fixed2": func(f float64) string { return fmt.Sprintf("%.2f", f) },
		"fixed1": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
