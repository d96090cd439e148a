package rawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGameData(t *testing.T) {
	raw := RawGame{
		ID:              3498,
		Name:            "Grand Theft Auto V",
		Released:        "2013-09-17",
		BackgroundImage: "https://media.rawg.io/media/games/gta5.jpg",
		Rating:          4.47,
		Metacritic:      92,
	}
	raw.Developers = []struct {
		Name string `json:"name"`
	}{{Name: "Rockstar North"}, {Name: "Rockstar Games"}}
	raw.Genres = []struct {
		Name string `json:"name"`
	}{{Name: "Action"}, {Name: "Adventure"}}
	raw.Platforms = []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	}{
		{Platform: struct {
			Name string `json:"name"`
		}{Name: "PC"}},
		{Platform: struct {
			Name string `json:"name"`
		}{Name: "PlayStation 5"}},
	}

	data := FormatGameData(raw)

	assert.Equal(t, "3498", data.ExternalAPIID)
	assert.Equal(t, "Grand Theft Auto V", data.Title)
	assert.Equal(t, "Rockstar North", data.Developer, "first listed developer wins")
	assert.NotNil(t, data.ReleaseDate)
	assert.Equal(t, 2013, data.ReleaseDate.Year())
	assert.Equal(t, []string{"Action", "Adventure"}, data.Genres)
	assert.Equal(t, []string{"PC", "PlayStation 5"}, data.Platforms)
	assert.Equal(t, 4.47, data.Rating)
	assert.Equal(t, 92, data.Metacritic)
}

func TestFormatGameDataMissingFields(t *testing.T) {
	data := FormatGameData(RawGame{ID: 42, Name: "Obscure Title"})

	assert.Equal(t, "42", data.ExternalAPIID)
	assert.Equal(t, "Obscure Title", data.Title)
	assert.Empty(t, data.Developer)
	assert.Nil(t, data.ReleaseDate)
	assert.Empty(t, data.Genres)
	assert.Empty(t, data.Platforms)
}

func TestFormatGameDataBadReleaseDate(t *testing.T) {
	data := FormatGameData(RawGame{ID: 1, Name: "X", Released: "not-a-date"})
	assert.Nil(t, data.ReleaseDate)
}
