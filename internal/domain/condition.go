package domain

// ConditionKind is the closed set of weather conditions shown on the dashboard.
type ConditionKind string

const (
	ConditionClear        ConditionKind = "Clear"
	ConditionCloudy       ConditionKind = "Cloudy"
	ConditionFog          ConditionKind = "Fog"
	ConditionDrizzle      ConditionKind = "Drizzle"
	ConditionRainy        ConditionKind = "Rainy"
	ConditionSnow         ConditionKind = "Snow"
	ConditionThunderstorm ConditionKind = "Thunderstorm"
	ConditionUnknown      ConditionKind = "Unknown"
)

// ConditionKinds lists every kind, Unknown last.
var ConditionKinds = []ConditionKind{
	ConditionClear,
	ConditionCloudy,
	ConditionFog,
	ConditionDrizzle,
	ConditionRainy,
	ConditionSnow,
	ConditionThunderstorm,
	ConditionUnknown,
}

// IconKey names a presentation icon. Renderers map keys to assets.
type IconKey string

const (
	IconSun       IconKey = "sun"
	IconCloud     IconKey = "cloud"
	IconFog       IconKey = "fog"
	IconDrizzle   IconKey = "cloud-drizzle"
	IconRain      IconKey = "cloud-rain"
	IconSnow      IconKey = "snowflake"
	IconLightning IconKey = "cloud-lightning"
	IconUnknown   IconKey = "question"
	IconNoWeather IconKey = "no-weather"
)

// NoWeatherMessage is shown when an event has no weather attached.
const NoWeatherMessage = "No Weather"

// Classify maps a WMO weather code to a ConditionKind. Codes outside the
// table classify as ConditionUnknown.
func Classify(code int) ConditionKind {
	switch code {
	case 0:
		return ConditionClear
	case 1, 2, 3:
		return ConditionCloudy
	case 45, 48:
		return ConditionFog
	case 51, 53, 55:
		return ConditionDrizzle
	case 61, 63, 65:
		return ConditionRainy
	case 71, 73, 75:
		return ConditionSnow
	case 95, 96, 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}

// IconFor returns the icon for a condition.
func IconFor(kind ConditionKind) IconKey {
	switch kind {
	case ConditionClear:
		return IconSun
	case ConditionCloudy:
		return IconCloud
	case ConditionFog:
		return IconFog
	case ConditionDrizzle:
		return IconDrizzle
	case ConditionRainy:
		return IconRain
	case ConditionSnow:
		return IconSnow
	case ConditionThunderstorm:
		return IconLightning
	default:
		return IconUnknown
	}
}

// MessageFor returns the short advice line shown next to the icon.
func MessageFor(kind ConditionKind) string {
	switch kind {
	case ConditionClear:
		return "Clear skies are expected. Enjoy the sunshine!"
	case ConditionCloudy:
		return "It is forecasted to be cloudy."
	case ConditionFog:
		return "Foggy conditions are expected. Allow extra travel time."
	case ConditionDrizzle:
		return "Light drizzle is expected. A light jacket should do."
	case ConditionRainy:
		return "It is forecasted to rain. Don't forget your umbrella!"
	case ConditionSnow:
		return "Snow is expected. Dress warmly and watch the roads."
	case ConditionThunderstorm:
		return "Thunderstorms are expected. Consider staying indoors."
	default:
		return "Weather conditions are uncertain."
	}
}
