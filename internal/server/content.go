package server

import (
	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/khanhtoandng/me-sub001/internal/content/handler"
	"github.com/khanhtoandng/me-sub001/internal/content/repository"
	"github.com/khanhtoandng/me-sub001/internal/content/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// Content bundles the CMS services, one per collection.
type Content struct {
	Projects        *service.Service[*content.Project]
	Experiences     *service.Service[*content.Experience]
	Educations      *service.Service[*content.Education]
	Recommendations *service.Service[*content.Recommendation]
	SocialLinks     *service.Service[*content.SocialLink]
	ProjectTypes    *service.Service[*content.ProjectTypeEntry]
	ContentBlocks   *service.Service[*content.ContentBlock]
}

// NewMemoryContent keeps every collection in process memory.
func NewMemoryContent() Content {
	return Content{
		Projects:        service.NewMemory(content.Projects),
		Experiences:     service.NewMemory(content.Experiences),
		Educations:      service.NewMemory(content.Educations),
		Recommendations: service.NewMemory(content.Recommendations),
		SocialLinks:     service.NewMemory(content.SocialLinks),
		ProjectTypes:    service.NewMemory(content.ProjectTypes),
		ContentBlocks:   service.NewMemory(content.ContentBlocks),
	}
}

func mongoService[T content.Entity](db *mongo.Database, s content.Schema[T]) *service.Service[T] {
	return service.New(s, repository.NewMongoRepo(db.Collection(s.Collection), s.New))
}

// NewMongoContent backs each collection with its MongoDB collection.
func NewMongoContent(db *mongo.Database) Content {
	return Content{
		Projects:        mongoService(db, content.Projects),
		Experiences:     mongoService(db, content.Experiences),
		Educations:      mongoService(db, content.Educations),
		Recommendations: mongoService(db, content.Recommendations),
		SocialLinks:     mongoService(db, content.SocialLinks),
		ProjectTypes:    mongoService(db, content.ProjectTypes),
		ContentBlocks:   mongoService(db, content.ContentBlocks),
	}
}

func (c Content) register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	handler.Register(rg, c.Projects, write...)
	handler.Register(rg, c.Experiences, write...)
	handler.Register(rg, c.Educations, write...)
	handler.Register(rg, c.Recommendations, write...)
	handler.Register(rg, c.SocialLinks, write...)
	handler.Register(rg, c.ProjectTypes, write...)
	handler.Register(rg, c.ContentBlocks, write...)
}

// Paths lists the route segments of every collection, in registration order.
func (c Content) Paths() []string {
	return []string{
		c.Projects.Schema().Path,
		c.Experiences.Schema().Path,
		c.Educations.Schema().Path,
		c.Recommendations.Schema().Path,
		c.SocialLinks.Schema().Path,
		c.ProjectTypes.Schema().Path,
		c.ContentBlocks.Schema().Path,
	}
}
