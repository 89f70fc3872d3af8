package kitsu

import (
	"maps"
	"slices"
)

// titleLanguages is the order in which localized titles are preferred.
var titleLanguages = []string{"en", "en_us", "en_jp", "ja_jp"}

type Anime struct {
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
}

type Attributes struct {
	CanonicalTitle string            `json:"canonicalTitle"`
	Titles         map[string]string `json:"titles"`
	Synopsis       string            `json:"synopsis"`
	Status         string            `json:"status"`
	EpisodeCount   *int              `json:"episodeCount"`
	ShowType       string            `json:"showType"`
	AverageRating  *string           `json:"averageRating"`
	AgeRating      *string           `json:"ageRating"`
	AgeRatingGuide *string           `json:"ageRatingGuide"`
	StartDate      *string           `json:"startDate"`
	EndDate        *string           `json:"endDate"`
	YoutubeVideoID *string           `json:"youtubeVideoId"`
	PosterImage    *Images           `json:"posterImage"`
}

type Images struct {
	Tiny     *string `json:"tiny"`
	Small    *string `json:"small"`
	Medium   *string `json:"medium"`
	Large    *string `json:"large"`
	Original *string `json:"original"`
}

// Title returns the first available localized title.
func (a Anime) Title() string {
	titles := a.Attributes.Titles
	for _, lang := range titleLanguages {
		if title := titles[lang]; title != "" {
			return title
		}
	}
	for _, lang := range slices.Sorted(maps.Keys(titles)) {
		if title := titles[lang]; title != "" {
			return title
		}
	}
	return a.Attributes.CanonicalTitle
}

func (a Anime) URL() string {
	return "https://kitsu.io/anime/" + a.ID
}

// Poster returns the largest poster image, or "" without one.
func (a Anime) Poster() string {
	images := a.Attributes.PosterImage
	if images == nil {
		return ""
	}
	for _, url := range []*string{images.Large, images.Original, images.Medium, images.Small, images.Tiny} {
		if url != nil && *url != "" {
			return *url
		}
	}
	return ""
}

func (a Anime) TrailerURL() string {
	if id := a.Attributes.YoutubeVideoID; id != nil && *id != "" {
		return "https://www.youtube.com/watch?v=" + *id
	}
	return ""
}
