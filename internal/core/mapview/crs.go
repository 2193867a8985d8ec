package mapview

// CRS describes a projected coordinate system for Proj4-capable map widgets.
type CRS struct {
	Code        string        `json:"code"`
	Proj4       string        `json:"proj4"`
	Resolutions []float64     `json:"resolutions"`
	Bounds      [2][2]float64 `json:"bounds"`
	Origin      [2]float64    `json:"origin"`
}

// EPSG3067 is ETRS-TM35FIN, the national grid used by Finnish tile servers.
func EPSG3067() CRS {
	bounds := [2][2]float64{{-548576, 6291456}, {1548576, 8388608}}
	return CRS{
		Code:  "EPSG:3067",
		Proj4: "+proj=utm +zone=35 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
		Resolutions: []float64{
			8192, 4096, 2048, 1024, 512, 256, 128, 64, 32, 16, 8, 4, 2, 1, 0.5, 0.25, 0.125,
		},
		Bounds: bounds,
		// north-west corner
		Origin: [2]float64{bounds[0][0], bounds[1][1]},
	}
}
