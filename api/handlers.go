package api

import "time"

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(deps.Store, deps.Session),
		generateHandler: newGenerateHandler(deps.Session, deps.Gemini, deps.Renderer, deps.Assets),
		channelHandler:  newChannelHandler(deps.YouTube, deps.Converter),
		authHandler:     newAuthHandler(deps.Auth, deps.Session),
		systemHandler:   newSystemHandler(startupTime, deps.Contact),
	}
}
