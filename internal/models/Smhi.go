package models

import "encoding/json"

// SMHI pmp3g point-forecast payload, reduced to the fields this service
// consumes. Anything outside these shapes is rejected at the repository
// boundary rather than passed around as loose maps.

// SMHI parameter names used by the normalizer and the pattern classifier.
const (
	ParamCloudCover    = "tcc_mean" // total cloud cover, octas 0-8
	ParamThunderProb   = "tstm"     // thunderstorm probability, percent (-9 = N/A)
	ParamTemperature   = "t"        // air temperature, degrees C
	ParamHumidity      = "r"        // relative humidity, percent
	ParamPressure      = "msl"      // mean sea level pressure, hPa
	ParamWindSpeed     = "ws"       // wind speed, m/s
	ParamPrecipitation = "pmean"    // mean precipitation intensity, kg/m2/h
	ParamVisibility    = "vis"      // horizontal visibility, km
)

type SMHIPayload struct {
	ApprovedTime  string          `json:"approvedTime"`
	ReferenceTime string          `json:"referenceTime"`
	Geometry      SMHIGeometry    `json:"geometry"`
	TimeSeries    []SMHITimePoint `json:"timeSeries"`
}

type SMHIGeometry struct {
	Coordinates [][]float64 `json:"coordinates"` // [[lon, lat]]
}

type SMHITimePoint struct {
	ValidTime  string          `json:"validTime"`
	Parameters []SMHIParameter `json:"parameters"`
}

type SMHIParameter struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// UnmarshalJSON decodes values tolerantly: a non-numeric reading leaves the
// parameter without values instead of failing the whole payload decode. The
// normalizer then skips and counts the affected entry while the rest of the
// series survives.
func (p *SMHIParameter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string            `json:"name"`
		Values []json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Name = raw.Name
	p.Values = nil
	for _, v := range raw.Values {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			p.Values = nil
			return nil
		}
		p.Values = append(p.Values, f)
	}
	return nil
}

// Param returns the first value of the named parameter and whether the
// parameter was present with at least one value.
func (p SMHITimePoint) Param(name string) (float64, bool) {
	for _, prm := range p.Parameters {
		if prm.Name == name && len(prm.Values) > 0 {
			return prm.Values[0], true
		}
	}
	return 0, false
}

// GridCoordinates returns the lon/lat of the grid point the payload was
// produced for, falling back to the given request coordinates when the
// geometry is absent.
func (s *SMHIPayload) GridCoordinates(reqLon, reqLat float64) (lon, lat float64) {
	if len(s.Geometry.Coordinates) > 0 && len(s.Geometry.Coordinates[0]) >= 2 {
		return s.Geometry.Coordinates[0][0], s.Geometry.Coordinates[0][1]
	}
	return reqLon, reqLat
}
