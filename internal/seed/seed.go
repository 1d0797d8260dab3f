// Package seed populates a fresh installation with the admin account and the
// default project types.
package seed

import (
	"context"
	"fmt"
	"net/url"

	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/khanhtoandng/me-sub001/internal/content/service"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
)

// DefaultProjectTypes mirrors the ProjectType enum.
var DefaultProjectTypes = []content.ProjectType{
	content.ProjectWebsite, content.ProjectWebApp, content.ProjectMobileApp,
	content.ProjectDesktop, content.ProjectAPI, content.ProjectLibrary, content.ProjectOther,
}

type Admin struct {
	Username string
	Email    string
	Password string
}

// Report counts what Run changed.
type Report struct {
	AdminEnsured        bool
	ProjectTypesCreated int
	ProjectTypesSkipped int
}

// Run ensures the admin (when a username and password are given) and creates
// each default project type whose slug is not present yet. Running it twice
// creates nothing new.
func Run(ctx context.Context, us *users.Service, types *service.Service[*content.ProjectTypeEntry], admin Admin) (Report, error) {
	var rep Report
	if admin.Username != "" && admin.Password != "" {
		if _, err := us.EnsureUser(ctx, admin.Username, admin.Email, admin.Password, models.RoleAdmin); err != nil {
			return rep, fmt.Errorf("seed admin: %w", err)
		}
		rep.AdminEnsured = true
		logger.Infof("seed: admin %q ensured", admin.Username)
	}

	for i, pt := range DefaultProjectTypes {
		entry := &content.ProjectTypeEntry{Name: string(pt), Active: true, Order: i}
		entry.Normalize()
		existing, err := types.List(ctx, url.Values{"slug": {entry.Slug}})
		if err != nil {
			return rep, fmt.Errorf("seed project types: %w", err)
		}
		if len(existing) > 0 {
			rep.ProjectTypesSkipped++
			continue
		}
		if _, err := types.Create(ctx, entry); err != nil {
			return rep, fmt.Errorf("seed project type %s: %w", pt, err)
		}
		rep.ProjectTypesCreated++
	}
	logger.Infof("seed: project types created=%d skipped=%d", rep.ProjectTypesCreated, rep.ProjectTypesSkipped)
	return rep, nil
}
