package airquality

// EPA 24-hour PM2.5 breakpoints. Upper bounds are inclusive and evaluated in
// ascending order, so the mapping is a total monotonic step function.
var aqiBreakpoints = []struct {
	upper    float64
	category string
}{
	{12.0, "Good"},
	{35.4, "Moderate"},
	{55.4, "Unhealthy for Sensitive Groups"},
	{150.4, "Unhealthy"},
	{250.4, "Very Unhealthy"},
}

// AQICategory maps a PM2.5 concentration to its EPA health category.
// It returns the category label, not the numeric AQI index.
func AQICategory(pm25 float64) string {
	for _, bp := range aqiBreakpoints {
		if pm25 <= bp.upper {
			return bp.category
		}
	}
	return "Hazardous"
}
