package web

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-prefs/internal/model"
	"github.com/iliyamo/movie-prefs/internal/service"
	"github.com/iliyamo/movie-prefs/internal/view"
)

func render(t *testing.T, data IndexData) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageIndex, data, nil))
	return buf.String()
}

func TestRender_PopulatedPage(t *testing.T) {
	movies := []model.Movie{
		{ID: 1, Title: "Matrix", Genre: model.GenreSciFi, Preference: 5, Review: "great"},
		{ID: 3, Title: "Alien", Genre: model.GenreSciFi, Preference: 4, Review: "<script>alert(1)</script>"},
	}
	avgs := []model.GenreAverage{{Genre: model.GenreSciFi, Average: 4.5, Count: 2}}
	p := &service.Page{
		Filter:     model.Filter{Genre: model.GenreSciFi, Sort: model.SortPrefDesc},
		Movies:     movies,
		Total:      2,
		Genres:     []model.Genre{model.GenreSciFi},
		Summary:    model.Summary{Count: 2, Mean: 4.5, Max: 5, Min: 4},
		HasSummary: true,
		Averages:   avgs,
		Chart:      view.Chart(avgs),
	}

	html := render(t, NewIndexData(p, "'Matrix' saved"))

	assert.Contains(t, html, "&#39;Matrix&#39; saved")
	assert.Contains(t, html, `action="/movies/3/delete"`)
	assert.Contains(t, html, "Average preference: 4.50")
	assert.Contains(t, html, "Highest preference: 5")
	assert.Contains(t, html, `<svg id="chart"`)
	assert.Contains(t, html, `fill="salmon"`)
	assert.Contains(t, html, `value="pref_desc" checked`)
	assert.Contains(t, html, `value="SciFi" selected`)
	assert.NotContains(t, html, "<script>alert(1)</script>", "reviews are escaped")
	assert.NotContains(t, html, "No movies match")
}

func TestRender_EmptyStore(t *testing.T) {
	p := &service.Page{Chart: view.Chart(nil), Movies: []model.Movie{}}

	html := render(t, NewIndexData(p, ""))

	assert.Contains(t, html, "No movies match the current filters.")
	assert.NotContains(t, html, `id="summary"`)
	assert.NotContains(t, html, `<svg id="chart"`)
	assert.NotContains(t, html, `class="flash"`)
	assert.Contains(t, html, `value="3"`, "slider defaults to 3")
}

func TestParseFilter(t *testing.T) {
	f := ParseFilter(url.Values{"q": {"incep"}, "genre": {"scifi"}, "sort": {"pref_asc"}})
	assert.Equal(t, model.Filter{Search: "incep", Genre: model.GenreSciFi, Sort: model.SortPrefAsc}, f)

	f = ParseFilter(url.Values{"genre": {"Western"}, "sort": {"random"}})
	assert.Equal(t, model.Genre(""), f.Genre, "unknown genre shows all")
	assert.Equal(t, model.SortInsertion, f.Sort)
}

func TestFilterQuery_RoundTrip(t *testing.T) {
	in := model.Filter{Search: "a b", Genre: model.GenreDrama, Sort: model.SortPrefDesc}
	assert.Equal(t, in, ParseFilter(FilterQuery(in)))

	assert.Empty(t, FilterQuery(model.Filter{Sort: model.SortInsertion}).Encode())
}
