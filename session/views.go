package session

// View identifies one screen of the application.
type View string

const (
	ViewHome           View = "home"
	ViewDashboard      View = "dashboard"
	ViewImageEdit      View = "image-edit"
	ViewVideoGen       View = "video-gen"
	ViewVideoAnalyze   View = "video-analyze"
	ViewChatbot        View = "chatbot"
	ViewVoiceAssistant View = "voice-assistant"
	ViewTextToSpeech   View = "text-to-speech"
	ViewYouTubeChannel View = "youtube-channel"
	ViewAPIKey         View = "api-key"
	ViewLogin          View = "login"
	ViewFAQ            View = "faq"
	ViewContact        View = "contact"
	ViewTerms          View = "terms"
	ViewPrivacy        View = "privacy"
)

// protectedViews require a signed-in user. Everything else is public.
var protectedViews = map[View]bool{
	ViewDashboard:      true,
	ViewImageEdit:      true,
	ViewVideoGen:       true,
	ViewVideoAnalyze:   true,
	ViewChatbot:        true,
	ViewVoiceAssistant: true,
	ViewTextToSpeech:   true,
	ViewYouTubeChannel: true,
	ViewAPIKey:         true,
}

var knownViews = map[View]bool{
	ViewHome:           true,
	ViewDashboard:      true,
	ViewImageEdit:      true,
	ViewVideoGen:       true,
	ViewVideoAnalyze:   true,
	ViewChatbot:        true,
	ViewVoiceAssistant: true,
	ViewTextToSpeech:   true,
	ViewYouTubeChannel: true,
	ViewAPIKey:         true,
	ViewLogin:          true,
	ViewFAQ:            true,
	ViewContact:        true,
	ViewTerms:          true,
	ViewPrivacy:        true,
}

// Valid reports whether the view name is one the router knows.
func (v View) Valid() bool {
	return knownViews[v]
}

// Protected reports whether the view requires authentication.
func (v View) Protected() bool {
	return protectedViews[v]
}
