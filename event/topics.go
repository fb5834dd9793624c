package event

// Bus topics. The namespaced names are part of the externally observable
// contract; tests and the overlay layer match on them literally.
const (
	TopicThemeChanged = "theme:changed"
	TopicThemeError   = "theme:error"

	TopicAssetLoaded       = "asset:loaded"
	TopicAssetsProgress    = "assets:progress"
	TopicAssetsInitialized = "assets:initialized"
	TopicAssetsError       = "assets:error"

	TopicSceneTransitionComplete = "scene:transition-complete"

	TopicMaterialError = "material:error"

	TopicAudioEnabled = "audio:enabled"
	TopicAudioVolume  = "audio:volume"

	TopicPageLeave = "page:leave"
	TopicPageEnter = "page:enter"

	TopicResize   = "app:resize"
	TopicAppReady = "app:ready"
)
