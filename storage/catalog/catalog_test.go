package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aucontent/core"
)

const validPlay = `
plays:
  - id: play1
    title: The Club
    playwright: David Williamson
    year: 1977
    type: play
    themes: [Australian Rules Football]
    synopsis: A football club in crisis.
    curriculum:
      year: "11-12"
`

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "want *core.ValidationError, got %T: %v", err, err)
	names := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	require.Len(t, cat.Plays, 4)
	require.Len(t, cat.Movies, 4)
	assert.Equal(t, "play1", cat.Plays[0].ID)
	assert.Equal(t, "The Club", cat.Plays[0].Title)
	assert.Contains(t, cat.Plays[0].Themes, "Australian Rules Football")
	assert.Equal(t, "movie1", cat.Movies[0].ID)
	assert.Equal(t, "PG", cat.Movies[0].Rating)

	for _, p := range cat.Plays {
		assert.NotEmpty(t, p.Themes, p.ID)
		assert.Equal(t, "play", p.Type, p.ID)
	}
	for _, m := range cat.Movies {
		assert.NotEmpty(t, m.Themes, m.ID)
		assert.Equal(t, "movie", m.Type, m.ID)
	}
}

func TestDefault_ReturnsCopies(t *testing.T) {
	first, err := Default()
	require.NoError(t, err)
	first.Plays[0].Title = "changed"
	first.Plays[0].Themes[0] = "changed"
	first.Movies = nil

	second, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "The Club", second.Plays[0].Title)
	assert.NotEqual(t, "changed", second.Plays[0].Themes[0])
	assert.Len(t, second.Movies, 4)
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cat, err := Parse([]byte(validPlay))
		require.NoError(t, err)
		require.Len(t, cat.Plays, 1)
		assert.Equal(t, "David Williamson", cat.Plays[0].Playwright)
		assert.NotNil(t, cat.Movies)
		assert.NotNil(t, cat.Plays[0].EducationalResources.Activities)
	})

	t.Run("empty document", func(t *testing.T) {
		cat, err := Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, cat.Plays)
		assert.Empty(t, cat.Movies)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("plays: []\nshows: []\n"))
		require.Error(t, err)
		assert.False(t, core.IsValidationError(err))
	})

	t.Run("invalid records", func(t *testing.T) {
		data := `
plays:
  - id: play 1
    title: " "
    playwright: Someone
    year: 77
    type: movie
    themes: []
    synopsis: x
    curriculum:
      year: "11-12"
movies:
  - id: movie1
    title: A Film
    director: Someone
    year: 2001
    type: movie
    themes: [Drama]
    synopsis: x
    curriculum:
      year: ""
`
		_, err := Parse([]byte(data))
		require.Error(t, err)
		assert.ElementsMatch(t, []string{
			"movies[0].curriculum.year",
			"movies[0].rating",
			"plays[0].id",
			"plays[0].themes",
			"plays[0].title",
			"plays[0].type",
			"plays[0].year",
		}, fieldNames(t, err))
	})

	t.Run("duplicate ids", func(t *testing.T) {
		data := validPlay + `
  - id: play1
    title: Another
    playwright: Someone
    year: 1990
    type: play
    themes: [Drama]
    synopsis: x
    curriculum:
      year: "7-8"
`
		_, err := Parse([]byte(data))
		require.Error(t, err)
		assert.Equal(t, []string{"plays[1].id"}, fieldNames(t, err))
	})
}

func TestLoad(t *testing.T) {
	t.Run("default when no path", func(t *testing.T) {
		cat, err := Load("")
		require.NoError(t, err)
		assert.Len(t, cat.Plays, 4)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validPlay), 0o600))

		cat, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, cat.Plays, 1)
		assert.Empty(t, cat.Movies)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	})
}
