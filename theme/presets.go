package theme

// DefaultThemeName is the record applied when nothing valid is persisted.
const DefaultThemeName = "Translink Dark"

// Default returns the factory theme. `ui.background` #050D15 is the deep
// navy the whole visual identity hangs off.
func Default() *Theme {
	return &Theme{
		Name:    DefaultThemeName,
		Version: 1,
		UI: map[string]string{
			"background":       "#050D15",
			"text":             "#FFFFFF",
			"accent":           "#50DCFF",
			"menuBackground":   "#0A1622",
			"menuText":         "#B8C4CE",
			"buttonBackground": "#102433",
			"buttonText":       "#FFFFFF",
			"inputBackground":  "#0C1A27",
			"inputText":        "#E6EDF2",
			"highlight":        "#2E6B8A",
		},
		ThreeD: map[string]string{
			KeySceneBackground:    "#050D15",
			KeyFresnel:            "#41B2E2",
			KeyEnv:                "#0E2233",
			KeyCore:               "#8A2BE2",
			KeyTube:               "#3C87AD",
			KeyTouchpadBase:       "#0A1A28",
			KeyTouchpadCorners:    "#133a52",
			KeyTouchpadVisualiser: "#50DCFF",
		},
	}
}

// Presets returns the built-in theme library, default first.
func Presets() []*Theme {
	ember := &Theme{
		Name:    "Ember",
		Version: 1,
		UI: map[string]string{
			"background":       "#140705",
			"text":             "#FFF4EC",
			"accent":           "#FF7A45",
			"menuBackground":   "#1F0D08",
			"menuText":         "#D8BCAE",
			"buttonBackground": "#32160D",
			"buttonText":       "#FFF4EC",
			"inputBackground":  "#271009",
			"inputText":        "#F2E3D8",
			"highlight":        "#8A3C1E",
		},
		ThreeD: map[string]string{
			KeySceneBackground:    "#140705",
			KeyFresnel:            "#E26B41",
			KeyEnv:                "#33160E",
			KeyCore:               "#E22B5E",
			KeyTube:               "#AD5A3C",
			KeyTouchpadBase:       "#28120A",
			KeyTouchpadCorners:    "#522013",
			KeyTouchpadVisualiser: "#FF7A45",
		},
	}
	moss := &Theme{
		Name:    "Moss",
		Version: 1,
		UI: map[string]string{
			"background":       "#05150B",
			"text":             "#F0FFF6",
			"accent":           "#50FFA8",
			"menuBackground":   "#0A2214",
			"menuText":         "#B8CEC0",
			"buttonBackground": "#103321",
			"buttonText":       "#F0FFF6",
			"inputBackground":  "#0C2718",
			"inputText":        "#E6F2EA",
			"highlight":        "#2E8A55",
		},
		ThreeD: map[string]string{
			KeySceneBackground:    "#05150B",
			KeyFresnel:            "#41E28C",
			KeyEnv:                "#0E3320",
			KeyCore:               "#2BE2A4",
			KeyTube:               "#3CAD72",
			KeyTouchpadBase:       "#0A2816",
			KeyTouchpadCorners:    "#135232",
			KeyTouchpadVisualiser: "#50FFA8",
		},
	}
	return []*Theme{Default(), ember, moss}
}
