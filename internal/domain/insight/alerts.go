package insight

// riskAlerts are the static risk insights shown for every farm.
var riskAlerts = []Alert{
	{Severity: SeverityHigh, Type: "Pest Risk", Message: "Unusual spectral patterns detected - potential pest activity in southern quadrant"},
	{Severity: SeverityMedium, Type: "Irrigation Alert", Message: "WBI indicates potential water stress in northern section"},
	{Severity: SeverityLow, Type: "Growth Monitor", Message: "NDVI trends suggest optimal growth conditions"},
}

// Alerts returns a copy of the risk alerts.
func Alerts() []Alert {
	return append([]Alert(nil), riskAlerts...)
}
