package content

// Content types
const (
	TypePlay  = "play"
	TypeMovie = "movie"
)

type EducationalResources struct {
	Themes              []string `json:"themes" yaml:"themes"`
	DiscussionQuestions []string `json:"discussionQuestions" yaml:"discussionQuestions"`
	Activities          []string `json:"activities" yaml:"activities"`
}

func (er EducationalResources) clone() EducationalResources {
	return EducationalResources{
		Themes:              copyStrings(er.Themes),
		DiscussionQuestions: copyStrings(er.DiscussionQuestions),
		Activities:          copyStrings(er.Activities),
	}
}

type Curriculum struct {
	Year     string   `json:"year" yaml:"year" validate:"notblank"` // grade band, eg. "11-12"
	Subjects []string `json:"subjects" yaml:"subjects"`
	Outcomes []string `json:"outcomes" yaml:"outcomes"`
}

func (c Curriculum) clone() Curriculum {
	return Curriculum{
		Year:     c.Year,
		Subjects: copyStrings(c.Subjects),
		Outcomes: copyStrings(c.Outcomes),
	}
}

type Play struct {
	ID                   string               `json:"id" yaml:"id" validate:"required,alphanum_"`
	Title                string               `json:"title" yaml:"title" validate:"notblank"`
	Playwright           string               `json:"playwright" yaml:"playwright" validate:"notblank"`
	Year                 int                  `json:"year" yaml:"year" validate:"gte=1000,lte=9999"`
	Type                 string               `json:"type" yaml:"type" validate:"eq=play"`
	Category             string               `json:"category" yaml:"category"`
	Themes               []string             `json:"themes" yaml:"themes" validate:"min=1,dive,notblank"`
	Synopsis             string               `json:"synopsis" yaml:"synopsis" validate:"notblank"`
	EducationalResources EducationalResources `json:"educationalResources" yaml:"educationalResources"`
	Curriculum           Curriculum           `json:"curriculum" yaml:"curriculum"`
}

// Clone returns a deep copy of the Play; nil lists become empty lists.
func (p Play) Clone() Play {
	p.Themes = copyStrings(p.Themes)
	p.EducationalResources = p.EducationalResources.clone()
	p.Curriculum = p.Curriculum.clone()
	return p
}

func (p Play) Summary() ResourceSummary {
	return ResourceSummary{
		ID:                   p.ID,
		Title:                p.Title,
		EducationalResources: p.EducationalResources.clone(),
		Curriculum:           p.Curriculum.clone(),
	}
}

type Movie struct {
	ID                   string               `json:"id" yaml:"id" validate:"required,alphanum_"`
	Title                string               `json:"title" yaml:"title" validate:"notblank"`
	Director             string               `json:"director" yaml:"director" validate:"notblank"`
	Year                 int                  `json:"year" yaml:"year" validate:"gte=1000,lte=9999"`
	Type                 string               `json:"type" yaml:"type" validate:"eq=movie"`
	Category             string               `json:"category" yaml:"category"`
	Rating               string               `json:"rating" yaml:"rating" validate:"notblank"` // eg. "PG"
	Themes               []string             `json:"themes" yaml:"themes" validate:"min=1,dive,notblank"`
	Synopsis             string               `json:"synopsis" yaml:"synopsis" validate:"notblank"`
	EducationalResources EducationalResources `json:"educationalResources" yaml:"educationalResources"`
	Curriculum           Curriculum           `json:"curriculum" yaml:"curriculum"`
}

// Clone returns a deep copy of the Movie; nil lists become empty lists.
func (m Movie) Clone() Movie {
	m.Themes = copyStrings(m.Themes)
	m.EducationalResources = m.EducationalResources.clone()
	m.Curriculum = m.Curriculum.clone()
	return m
}

func (m Movie) Summary() ResourceSummary {
	return ResourceSummary{
		ID:                   m.ID,
		Title:                m.Title,
		EducationalResources: m.EducationalResources.clone(),
		Curriculum:           m.Curriculum.clone(),
	}
}

// Catalog is the canonical seed data of both collections.
type Catalog struct {
	Plays  []Play  `json:"plays" yaml:"plays" validate:"dive"`
	Movies []Movie `json:"movies" yaml:"movies" validate:"dive"`
}

func (c Catalog) Clone() Catalog {
	cc := Catalog{
		Plays:  make([]Play, 0, len(c.Plays)),
		Movies: make([]Movie, 0, len(c.Movies)),
	}
	for _, p := range c.Plays {
		cc.Plays = append(cc.Plays, p.Clone())
	}
	for _, m := range c.Movies {
		cc.Movies = append(cc.Movies, m.Clone())
	}
	return cc
}

// ResourceSummary is the projection of a Play or Movie served by the resources endpoint.
type ResourceSummary struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	EducationalResources EducationalResources `json:"educationalResources"`
	Curriculum           Curriculum           `json:"curriculum"`
}

type ResourceSummaries struct {
	Plays  []ResourceSummary `json:"plays"`
	Movies []ResourceSummary `json:"movies"`
}

type SearchResult struct {
	Plays  []Play  `json:"plays"`
	Movies []Movie `json:"movies"`
}

func copyStrings(s []string) []string {
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}
