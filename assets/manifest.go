package assets

// ManifestEntry declares one asset to load: where it lives, how to decode
// it, and whether its failure is fatal to initialization.
type ManifestEntry struct {
	Kind     Kind
	Name     string
	Path     string // relative to the pipeline base dir
	Optional bool
	Texture  TextureConfig // KindTexture only
}

// CoreManifest enumerates every asset needed before first paint. This
// in-code list is authoritative; missing mandatory entries fail Init.
// Audio and the HDRI are optional: without them the showcase runs silent
// and with the procedural environment.
func CoreManifest() []ManifestEntry {
	srgb := TextureConfig{SRGB: true, Wrap: WrapClamp}
	srgbRepeat := TextureConfig{SRGB: true, Wrap: WrapRepeat}
	linear := TextureConfig{Wrap: WrapClamp}
	linearRepeat := TextureConfig{Wrap: WrapRepeat}

	return []ManifestEntry{
		// Product model: both earphones plus the charging case.
		{Kind: KindModel, Name: "scene", Path: "models/scene.glb"},

		// Earphone surfaces.
		{Kind: KindTexture, Name: "matcapGlass", Path: "textures/matcap-glass.png", Texture: srgb},
		{Kind: KindTexture, Name: "headphoneEmissiveMask", Path: "textures/headphone-emissive-mask.webp", Texture: linear},
		{Kind: KindTexture, Name: "headphoneNormal", Path: "textures/headphone-normal.webp", Texture: linear},
		{Kind: KindTexture, Name: "headphoneRoughness", Path: "textures/headphone-roughness.webp", Texture: linear},
		{Kind: KindTexture, Name: "headphoneSilicone", Path: "textures/headphone-silicone.webp", Texture: srgb},

		// Charging case.
		{Kind: KindTexture, Name: "matcapCase", Path: "textures/matcap-case.webp", Texture: srgb},
		{Kind: KindTexture, Name: "caseAlpha", Path: "textures/case-alpha.webp", Texture: linear},
		{Kind: KindTexture, Name: "caseEmissiveMask", Path: "textures/case-emissive-mask.webp", Texture: linear},

		// Shared lookups.
		{Kind: KindTexture, Name: "noise", Path: "textures/noise.png", Texture: linearRepeat},
		{Kind: KindTexture, Name: "bloomMask", Path: "textures/bloom-mask.png", Texture: srgbRepeat},

		// Environment (optional: procedural fallback).
		{Kind: KindHDRI, Name: "studio", Path: "textures/studio.hdr", Optional: true},

		// Audio (optional: silent fallback). synthLoop is the background
		// music; the rest are UI one-shots.
		{Kind: KindAudio, Name: "synthLoop", Path: "audio/synth-loop.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiMenuOpen", Path: "audio/ui-menu-open.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiMenuClose", Path: "audio/ui-menu-close.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiHover", Path: "audio/ui-hover.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiClick", Path: "audio/ui-click.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiTransition", Path: "audio/ui-transition.mp3", Optional: true},
		{Kind: KindAudio, Name: "uiConfirm", Path: "audio/ui-confirm.mp3", Optional: true},
	}
}
