package content

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// FilterKind controls how a query parameter value is converted.
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
)

// Filter maps a list query parameter onto a document field. Equality on an
// array field matches documents whose array contains the value.
type Filter struct {
	Param string
	Field string
	Kind  FilterKind
}

// MaxListLimit caps the limit query parameter.
const MaxListLimit = 500

// Query is a parsed list request.
type Query struct {
	Match bson.M
	Sort  bson.D
	Limit int64
}

// Schema describes one CMS collection.
type Schema[T Entity] struct {
	Name       string // singular, used in messages and metrics
	Path       string // route segment under /api
	Collection string
	New        func() T
	Filters    []Filter
	Sort       bson.D
}

// Query builds a Query from request parameters. Unknown parameters are ignored.
func (s Schema[T]) Query(values url.Values) (Query, error) {
	q := Query{Match: bson.M{}, Sort: s.Sort}
	for _, f := range s.Filters {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		switch f.Kind {
		case FilterBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return Query{}, NewValidationError(f.Param, "must be true or false")
			}
			q.Match[f.Field] = b
		default:
			q.Match[f.Field] = raw
		}
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return Query{}, NewValidationError("limit", "must be a positive integer")
		}
		if n > MaxListLimit {
			n = MaxListLimit
		}
		q.Limit = n
	}
	return q, nil
}

var defaultSort = bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}

var statusFilter = Filter{Param: "status", Field: "status"}

var (
	Projects = Schema[*Project]{
		Name:       "project",
		Path:       "projects",
		Collection: "projects",
		New:        func() *Project { return &Project{} },
		Filters: []Filter{
			statusFilter,
			{Param: "projectType", Field: "projectType"},
			{Param: "featured", Field: "featured", Kind: FilterBool},
			{Param: "technology", Field: "technologies"},
		},
		Sort: defaultSort,
	}

	Experiences = Schema[*Experience]{
		Name:       "experience",
		Path:       "experiences",
		Collection: "experiences",
		New:        func() *Experience { return &Experience{} },
		Filters: []Filter{
			statusFilter,
			{Param: "employmentType", Field: "employmentType"},
			{Param: "current", Field: "current", Kind: FilterBool},
		},
		Sort: defaultSort,
	}

	Educations = Schema[*Education]{
		Name:       "education",
		Path:       "education",
		Collection: "education",
		New:        func() *Education { return &Education{} },
		Filters:    []Filter{statusFilter},
		Sort:       defaultSort,
	}

	Recommendations = Schema[*Recommendation]{
		Name:       "recommendation",
		Path:       "recommendations",
		Collection: "recommendations",
		New:        func() *Recommendation { return &Recommendation{} },
		Filters: []Filter{
			statusFilter,
			{Param: "featured", Field: "featured", Kind: FilterBool},
		},
		Sort: defaultSort,
	}

	SocialLinks = Schema[*SocialLink]{
		Name:       "social link",
		Path:       "social-links",
		Collection: "social_links",
		New:        func() *SocialLink { return &SocialLink{} },
		Filters: []Filter{
			{Param: "active", Field: "active", Kind: FilterBool},
			{Param: "platform", Field: "platform"},
		},
		Sort: defaultSort,
	}

	ProjectTypes = Schema[*ProjectTypeEntry]{
		Name:       "project type",
		Path:       "project-types",
		Collection: "project_types",
		New:        func() *ProjectTypeEntry { return &ProjectTypeEntry{} },
		Filters: []Filter{
			{Param: "active", Field: "active", Kind: FilterBool},
			{Param: "slug", Field: "slug"},
		},
		Sort: bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}},
	}

	ContentBlocks = Schema[*ContentBlock]{
		Name:       "content block",
		Path:       "content",
		Collection: "content_blocks",
		New:        func() *ContentBlock { return &ContentBlock{} },
		Filters: []Filter{
			{Param: "section", Field: "section"},
			{Param: "key", Field: "key"},
			{Param: "locale", Field: "locale"},
			{Param: "active", Field: "active", Kind: FilterBool},
		},
		Sort: defaultSort,
	}
)
