package api

import (
	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes sets up all routes with authentication
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.systemHandler.health())
		r.Post("/contact", handlers.systemHandler.sendContact())
		r.Get("/public/blog/{blogPostID}", handlers.blogPostHandler.publicBlogPost())

		// Auth flow endpoints
		r.Get("/auth/login-url", handlers.authHandler.loginURL())
		r.Post("/auth/sign-in", handlers.authHandler.signIn())
		r.Post("/auth/sign-out", handlers.authHandler.signOut())
		r.Get("/session", handlers.authHandler.sessionState())
		r.Post("/session/navigate", handlers.authHandler.navigate())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Blog Post Handler endpoints
		r.Get("/blog-posts", handlers.blogPostHandler.getAllBlogPosts())
		r.Get("/blog-post/{blogPostID}", handlers.blogPostHandler.getBlogPost())
		r.Post("/blog-post", handlers.blogPostHandler.createBlogPost())
		r.Put("/blog-post/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blog-post/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())
		r.Post("/blog-post/{blogPostID}/publish-toggle", handlers.blogPostHandler.togglePublish())

		// Domain settings
		r.Get("/domain-settings", handlers.blogPostHandler.getDomainSettings())
		r.Put("/domain-settings", handlers.blogPostHandler.saveDomainSettings())

		// Generation endpoints
		r.Post("/generate/blog", handlers.generateHandler.generateBlog())
		r.Post("/generate/image", handlers.generateHandler.generateImage())
		r.Post("/generate/image-edit", handlers.generateHandler.editImage())
		r.Post("/generate/video", handlers.generateHandler.generateVideo())
		r.Post("/generate/video-analysis", handlers.generateHandler.analyzeVideo())
		r.Post("/generate/chat", handlers.generateHandler.chat())
		r.Post("/generate/speech", handlers.generateHandler.generateSpeech())

		// YouTube channel endpoints
		r.Get("/channel", handlers.channelHandler.getChannel())
		r.Get("/channel/videos", handlers.channelHandler.getChannelVideos())
		r.Post("/channel/convert", handlers.channelHandler.convertChannel())
	})
}
