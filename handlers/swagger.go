package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
// collections lists the CMS route segments mounted under /api.
func RegisterSwagger(r *gin.Engine, collections []string) {
	doc := openAPIDoc(collections)
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portfolio API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

func resp(desc string) gin.H { return gin.H{"description": desc} }

func jsonBody(props gin.H) gin.H {
	return gin.H{"content": gin.H{"application/json": gin.H{"schema": gin.H{"type": "object", "properties": props}}}}
}

var (
	str      = gin.H{"type": "string"}
	idParam  = []gin.H{{"name": "id", "in": "path", "required": true, "schema": str}}
	guarded  = []gin.H{{"cookieAuth": []string{}}, {"bearerAuth": []string{}}}
	anyBody  = gin.H{"content": gin.H{"application/json": gin.H{"schema": gin.H{"type": "object"}}}}
	envelope = resp("envelope {success, data?, error?}")
)

func openAPIDoc(collections []string) gin.H {
	paths := gin.H{
		"/api/auth/login": gin.H{"post": gin.H{
			"summary":     "Log in with username and password; sets the auth-token cookie",
			"requestBody": jsonBody(gin.H{"username": str, "password": str}),
			"responses":   gin.H{"200": resp("user, token and expiresIn"), "401": resp("invalid credentials"), "429": resp("rate limited")},
		}},
		"/api/auth/logout": gin.H{"post": gin.H{"summary": "Clear the auth cookie", "responses": gin.H{"200": envelope}}},
		"/api/auth/me": gin.H{"get": gin.H{"summary": "Claims of the current session", "security": guarded,
			"responses": gin.H{"200": envelope, "401": resp("not authenticated")}}},
		"/api/ai/enhance": gin.H{"post": gin.H{
			"summary":  "Enhance text, or produce suggestions or variations",
			"security": guarded,
			"requestBody": jsonBody(gin.H{"text": str,
				"type":   gin.H{"type": "string", "enum": []string{"hero", "footer", "project", "experience", "general"}},
				"action": gin.H{"type": "string", "enum": []string{"enhance", "suggestions", "variations"}},
				"count":  gin.H{"type": "integer", "minimum": 1, "maximum": 5}}),
			"responses": gin.H{"200": resp("{text} | {suggestions} | {variations}"), "400": envelope, "429": resp("provider rate limit"), "500": envelope},
		}},
		"/api/upload": gin.H{"post": gin.H{
			"summary":  "Upload an image (multipart field 'file')",
			"security": guarded,
			"requestBody": gin.H{"content": gin.H{"multipart/form-data": gin.H{"schema": gin.H{"type": "object",
				"properties": gin.H{"file": gin.H{"type": "string", "format": "binary"}}}}}},
			"responses": gin.H{"201": resp("{key, url}"), "400": envelope},
		}},
		"/api/upload/{key}": gin.H{"delete": gin.H{"summary": "Delete an uploaded image", "security": guarded,
			"parameters": []gin.H{{"name": "key", "in": "path", "required": true, "schema": str}},
			"responses":  gin.H{"200": envelope}}},
		"/health": gin.H{"get": gin.H{"summary": "Liveness check", "responses": gin.H{"200": resp("healthy")}}},
		"/ready":  gin.H{"get": gin.H{"summary": "Readiness check", "responses": gin.H{"200": resp("ready"), "503": resp("not ready")}}},
	}
	for _, col := range collections {
		paths["/api/"+col] = gin.H{
			"get": gin.H{"summary": "List " + col + " (filters as query parameters, optional limit)",
				"responses": gin.H{"200": envelope, "400": resp("invalid filter")}},
			"post": gin.H{"summary": "Create", "security": guarded, "requestBody": anyBody,
				"responses": gin.H{"201": envelope, "400": resp("validation error"), "401": envelope, "403": envelope}},
		}
		paths["/api/"+col+"/{id}"] = gin.H{
			"get": gin.H{"summary": "Get by id", "parameters": idParam,
				"responses": gin.H{"200": envelope, "404": resp("not found")}},
			"put": gin.H{"summary": "Replace by id", "security": guarded, "parameters": idParam, "requestBody": anyBody,
				"responses": gin.H{"200": envelope, "400": resp("validation error"), "404": resp("not found")}},
			"delete": gin.H{"summary": "Delete by id", "security": guarded, "parameters": idParam,
				"responses": gin.H{"200": envelope, "404": resp("not found")}},
		}
	}
	return gin.H{
		"openapi": "3.0.0",
		"info":    gin.H{"title": "portfolio API", "version": "v1.0.0"},
		"components": gin.H{"securitySchemes": gin.H{
			"cookieAuth": gin.H{"type": "apiKey", "in": "cookie", "name": "auth-token"},
			"bearerAuth": gin.H{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
		}},
		"paths": paths,
	}
}
