package mapview

// MarkerIcon is the icon set used for point markers.
type MarkerIcon struct {
	IconURL       string `json:"icon_url"`
	ShadowURL     string `json:"shadow_url"`
	IconRetinaURL string `json:"icon_retina_url"`
	IconSize      [2]int `json:"icon_size"`
	IconAnchor    [2]int `json:"icon_anchor"`
}

// DefaultMarkerIcon returns the standard 25x41 marker anchored at its tip.
func DefaultMarkerIcon(iconURL, shadowURL, retinaURL string) MarkerIcon {
	return MarkerIcon{
		IconURL:       iconURL,
		ShadowURL:     shadowURL,
		IconRetinaURL: retinaURL,
		IconSize:      [2]int{25, 41},
		IconAnchor:    [2]int{13, 41},
	}
}

// DrawOptions configures the drawing toolbar.
type DrawOptions struct {
	Circle       bool        `json:"circle"`
	CircleMarker bool        `json:"circlemarker"`
	Polyline     bool        `json:"polyline"`
	Polygon      bool        `json:"polygon"`
	Rectangle    bool        `json:"rectangle"`
	Marker       *MarkerIcon `json:"marker"`
}

// Tools returns the drawing toolbar for the hearing editor. Circles cannot be
// expressed in GeoJSON and lines are not used for hearing areas, so only
// markers, polygons and rectangles are offered.
func Tools(icon MarkerIcon) DrawOptions {
	return DrawOptions{
		Polygon:   true,
		Rectangle: true,
		Marker:    &icon,
	}
}

// TileURL picks the high contrast tile source when it is enabled and one is
// configured.
func TileURL(normal, highContrast string, highContrastEnabled bool) string {
	if highContrastEnabled && highContrast != "" {
		return highContrast
	}
	return normal
}
